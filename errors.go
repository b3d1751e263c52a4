package wirebind

import "errors"

// ErrMissingLocation reports a field with no explicit wire spec in a
// context that supplies no default location. The endpoint/method
// combination cannot legally carry the field.
var ErrMissingLocation = errors.New("no wire location defined")

// ErrInvalidMethod reports an HTTP method token that failed to parse.
var ErrInvalidMethod = errors.New("invalid HTTP method")
