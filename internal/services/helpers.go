package services

import (
	"errors"
	"log"
	"time"

	"backoffice/internal/store"
)

// report posts the outcome of a mutation to n and returns err unchanged.
func report(n Notifier, title, success string, err error) error {
	if err != nil {
		log.Printf("%s failed: %v", title, err)
	}
	if n == nil {
		return err
	}
	switch {
	case err == nil:
		n.Notify(VariantSuccess, title, success)
	case errors.Is(err, store.ErrStorage):
		n.Notify(VariantError, "Storage error", "Changes could not be saved, please try again")
	case errors.Is(err, ErrValidation):
		n.Notify(VariantWarning, title, err.Error())
	default:
		n.Notify(VariantError, title, err.Error())
	}
	return err
}

// nextID derives a record id from the clock, bumping it past ids already
// taken.
func nextID(now time.Time, taken func(int64) bool) int64 {
	id := now.UnixMilli()
	for taken(id) {
		id++
	}
	return id
}
