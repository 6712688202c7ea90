package domain

import "errors"

// ErrNotFound is returned by the backend gateway when a referenced
// product, cart or line item does not exist.
var ErrNotFound = errors.New("not found")
