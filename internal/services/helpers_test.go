package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"backoffice/internal/redis"
	"backoffice/internal/store"
)

var fixedNow = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func newTestStore() *store.Store {
	return store.New(store.NewMemoryKV())
}

type brokenKV struct{ store.KV }

func (brokenKV) Set(context.Context, string, []byte) error {
	return errors.New("disk full")
}

type fakeTemp struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeTemp() *fakeTemp { return &fakeTemp{data: map[string][]byte{}} }

func (f *fakeTemp) SetTempData(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = b
	return nil
}

func (f *fakeTemp) GetTempData(_ context.Context, key string, dest interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.data[key]
	if !ok {
		return redis.ErrTempNotFound
	}
	return json.Unmarshal(b, dest)
}

func (f *fakeTemp) DeleteTempData(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

type sentMessage struct {
	Phone, Message string
}

type fakeWhatsApp struct {
	sent []sentMessage
	err  error
}

func (f *fakeWhatsApp) SendMessage(_ context.Context, phone, message string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{phone, message})
	return nil
}

func lastNotification(t *testing.T, n Notifier) Notification {
	t.Helper()
	current := n.Current()
	if current == nil {
		t.Fatal("expected a notification")
	}
	return *current
}
