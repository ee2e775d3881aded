// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")
	ErrUnknownFormat  = errors.New("no decoder registered for format")
	ErrNoChannels     = errors.New("source reports no channels")
)

// UnknownFormatError is returned by Registry.Lookup.
type UnknownFormatError struct {
	Ext string
}

func (e *UnknownFormatError) Error() string {
	if e.Ext == "" {
		return ErrUnknownFormat.Error() + " (no extension)"
	}
	return fmt.Sprintf("%s %q", ErrUnknownFormat, e.Ext)
}

func (e *UnknownFormatError) Unwrap() error { return ErrUnknownFormat }
