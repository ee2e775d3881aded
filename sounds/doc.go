// SPDX-License-Identifier: EPL-2.0

// Package sounds holds the sound bank compiled into the binary: WAV
// containers addressed by a numeric sound ID, used when storage has no
// file for that ID.
package sounds
