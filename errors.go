package protomap

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("key not found")
	ErrInvalidValue         = errors.New("nil value; use Del to remove a key")
	ErrDuplicateKey         = errors.New("key already defined")
	ErrInsufficientCapacity = errors.New("insufficient capacity")
)

// KeyError describes a failed operation on a specific key.
// Err is one of ErrNotFound, ErrInvalidValue or ErrDuplicateKey.
type KeyError[K comparable] struct {
	Key K
	Err error
}

func (e *KeyError[K]) Unwrap() error { return e.Err }
func (e *KeyError[K]) Error() string { return fmt.Sprintf("%v: %q", e.Err, fmt.Sprint(e.Key)) }
