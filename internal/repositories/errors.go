package repositories

import "errors"

// ErrRecordNotFound is wrapped by every lookup that matches no row.
var ErrRecordNotFound = errors.New("record not found")
