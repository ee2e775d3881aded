// SPDX-License-Identifier: EPL-2.0

package sink

import "errors"

var (
	// ErrClosed is returned by writes after Close.
	ErrClosed = errors.New("sink closed")

	// ErrNoDevice is returned when the binary was built without audio
	// device support.
	ErrNoDevice = errors.New("audio device support not built in")
)
