package targets

import "errors"

var (
	errMalformedBracket = errors.New("malformed bracketed host")
	errMissingPort      = errors.New("missing port")
)
