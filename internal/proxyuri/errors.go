package proxyuri

import (
	"errors"
	"fmt"

	herrors "herscat/pkg/errors"
)

var errUnsupportedProtocol = herrors.ErrUnsupportedProtocol

var (
	errMalformedBracket = errors.New("malformed bracketed host")
	errMissingPort      = errors.New("missing port")
)

func wrapValidation(field, value, msg string) error {
	return herrors.NewValidationError(field, value, msg)
}

func validationf(field, value, format string, args ...any) error {
	return herrors.NewValidationError(field, value, fmt.Sprintf(format, args...))
}
