package qotd

import (
	"errors"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
)

var (
	// ErrPoolEmpty means there is no question at all to choose from.
	ErrPoolEmpty = errors.New("qotd: question pool is empty")
	// ErrAlreadyResolved is returned when a suggestion was approved or
	// discarded before. Callers treat it as a no-op.
	ErrAlreadyResolved = errors.New("qotd: suggestion already resolved")
	ErrNotFound        = errors.New("qotd: question not found")
	ErrNoSelection     = errors.New("qotd: no question selected for that day")
	ErrInvalidText     = errors.New("qotd: question text is empty or too long")
	ErrNoChannel       = errors.New("qotd: no channel configured")
)

// DeliveryError is a failed send or edit through the Gateway.
type DeliveryError struct {
	Op        string
	GuildID   snowflake.ID
	ChannelID snowflake.ID
	Err       error
}

func (e *DeliveryError) Error() string {
	if e.GuildID != 0 {
		return fmt.Sprintf("qotd: %s to channel %s (guild %s): %v", e.Op, e.ChannelID, e.GuildID, e.Err)
	}
	return fmt.Sprintf("qotd: %s to channel %s: %v", e.Op, e.ChannelID, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// StorageError wraps a failure of the backing store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("qotd: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// storageErr tags err as a StorageError unless it already carries meaning.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{ErrPoolEmpty, ErrAlreadyResolved, ErrNotFound, ErrNoSelection, ErrInvalidText, ErrNoChannel} {
		if errors.Is(err, known) {
			return err
		}
	}
	var se *StorageError
	var de *DeliveryError
	if errors.As(err, &se) || errors.As(err, &de) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
