package btree

import (
	"github.com/pkg/errors"
)

// Operation failures. All of them leave the page and the tree exactly as
// they were; callers match with errors.Is.
var (
	// ErrKeyExists is returned by Insert for a duplicate key.
	ErrKeyExists = errors.New("key already exists")

	// ErrKeyNotExists is returned by UpdateValue for a missing key.
	ErrKeyNotExists = errors.New("key does not exist")

	// ErrNoSpace is returned when a page cannot accept a write even
	// after garbage collection has been considered.
	ErrNoSpace = errors.New("no space left in page")

	// ErrInvalidKey is returned by UpdateKey when the new key would
	// break the slot order.
	ErrInvalidKey = errors.New("key would break slot order")
)
