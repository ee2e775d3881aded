// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"testing"
)

func TestUnknownFormatError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ext  string
		want string
	}{
		{"mp3", `no decoder registered for format "mp3"`},
		{"", "no decoder registered for format (no extension)"},
	}

	for _, tt := range tests {
		err := error(&UnknownFormatError{Ext: tt.ext})
		if err.Error() != tt.want {
			t.Errorf("Error() = %q, want %q", err.Error(), tt.want)
		}
		if !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("errors.Is(%v, ErrUnknownFormat) = false", err)
		}
		if errors.Is(err, ErrInvalidDstSize) {
			t.Errorf("errors.Is(%v, ErrInvalidDstSize) = true", err)
		}
	}
}
