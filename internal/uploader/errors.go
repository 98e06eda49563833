package uploader

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRead marks local I/O failures while preparing an upload.
	ErrRead = errors.New("read failure")
	// ErrTransport marks request failures where no response was received.
	ErrTransport = errors.New("transport failure")
)

// wrap tags err with marker and an operation detail for classification with
// errors.Is at call sites.
func wrap(marker error, operation string, err error) error {
	operation = strings.TrimSpace(operation)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, operation, err)
	}
	return fmt.Errorf("%w: %s", marker, operation)
}
