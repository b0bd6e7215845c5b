package handlers

import (
	"net/http"

	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifier services.Notifier
}

func NewNotificationHandler(notifier services.Notifier) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

// Current returns the active status notification, or null once it has
// expired or been dismissed.
func (h *NotificationHandler) Current(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notification": h.notifier.Current()})
}

func (h *NotificationHandler) Dismiss(c *gin.Context) {
	h.notifier.Dismiss()
	c.Status(http.StatusNoContent)
}
