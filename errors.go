// SPDX-License-Identifier: EPL-2.0

package audmix

import "errors"

// ErrSoundNotFound indicates a sound ID with no playable storage file and
// no embedded fallback.
var ErrSoundNotFound = errors.New("sound not found")
