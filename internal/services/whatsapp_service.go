package services

import (
	"context"

	"backoffice/pkg/whatsapp"
)

// WhatsAppService delivers one-time codes and account messages.
type WhatsAppService interface {
	SendMessage(ctx context.Context, phone, message string) error
}

type whatsappService struct {
	client *whatsapp.Client
}

func NewWhatsAppService(client *whatsapp.Client) WhatsAppService {
	return &whatsappService{client: client}
}

func (s *whatsappService) SendMessage(ctx context.Context, phone, message string) error {
	return s.client.SendTextMessage(ctx, phone, message)
}
