package concurrentset

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is the class of caller programming errors.
	ErrInvalidArgument = errors.New("concurrentset: invalid argument")

	// ErrNilCollection is returned when a nil sequence is passed to a set
	// algebra operation.
	ErrNilCollection = fmt.Errorf("%w: nil collection", ErrInvalidArgument)

	// ErrNilComparer is the panic value of NewWithComparer(nil).
	ErrNilComparer = fmt.Errorf("%w: nil comparer", ErrInvalidArgument)
)
