package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("item not found")
	ErrIDExhausted = errors.New("item id space exhausted")
)

// NotFoundError is returned when an operation addresses an id absent from the store.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string {
	return e.Msg
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func NotFoundGet(id uint64) error {
	return &NotFoundError{Msg: fmt.Sprintf("an item with id=%d not found", id)}
}

func NotFoundUpdate(id uint64) error {
	return &NotFoundError{Msg: fmt.Sprintf("couldn't update an item with id=%d. item not found", id)}
}

func NotFoundDelete(id uint64) error {
	return &NotFoundError{Msg: fmt.Sprintf("couldn't delete an item with id=%d. item not found", id)}
}
