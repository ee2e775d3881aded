// SPDX-License-Identifier: EPL-2.0

package mixer

import "errors"

var (
	// ErrTableFull is returned by the create calls when every slot is in use.
	ErrTableFull = errors.New("source table full")

	// ErrNotFound is returned for handles that are out of range or Idle.
	ErrNotFound = errors.New("source not found")

	ErrInvalidOrigin = errors.New("invalid source origin")
	ErrClosed        = errors.New("source table closed")
	ErrInvalidConfig = errors.New("invalid mixer config")

	// ErrFormat wraps header and layout errors found by a decoder.
	ErrFormat = errors.New("unsupported or corrupt audio data")

	// ErrIO wraps storage errors met by a decoder.
	ErrIO = errors.New("audio I/O failure")
)
