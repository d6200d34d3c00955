package catalog

import (
	"errors"
	"fmt"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// Kind classifies a failed catalog call.
type Kind string

const (
	KindNetwork  Kind = "network"
	KindDecode   Kind = "decode"
	KindStatus   Kind = "status"
	KindNotFound Kind = "not_found"
)

// FetchError describes a failed catalog call. It matches
// apperrors.ErrNotFound for KindNotFound and apperrors.ErrServiceUnavail
// otherwise, as well as the underlying cause.
type FetchError struct {
	Op         string
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("catalog %s: %s", e.Op, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() []error {
	sentinel := apperrors.ErrServiceUnavail
	if e.Kind == KindNotFound {
		sentinel = apperrors.ErrNotFound
	}
	if e.Err == nil {
		return []error{sentinel}
	}
	return []error{sentinel, e.Err}
}

// IsNotFound reports whether err is a catalog not-found failure.
func IsNotFound(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == KindNotFound
}
