package queue

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors returned by engine operations.
var (
	// ErrNotFound means the targeted queue item does not exist.
	ErrNotFound = errors.New("queue item not found")

	// ErrAlreadyOpened means the targeted queue item has already been
	// opened. Opening is terminal, so this is reported explicitly rather
	// than treated as a no-op.
	ErrAlreadyOpened = errors.New("queue item already opened")
)

// ValidationError reports missing or malformed enqueue input per field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return fmt.Sprintf("invalid enqueue input: %s", strings.Join(names, ", "))
}
