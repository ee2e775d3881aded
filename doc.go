// SPDX-License-Identifier: EPL-2.0

// Package audmix plays numbered sounds through a real-time software mixer.
//
// The work is split across subpackages:
//   - mixer: the source table, decoder goroutines and the mixing loop
//   - sink: outputs for the mixed stream (audio device, WAV file, discard)
//   - sounds: the sound bank compiled into the binary
//   - formats/wav, formats/aiff: container parsing and decoding
//   - audio: float sample pipeline (resampling, channel mapping)
//
// Player ties them together. A sound ID is looked up on storage first, as
// <dir>/sounds/NNNN.wav or NNNN.aiff, then in the embedded bank:
//
//	table, _ := mixer.NewTable(mixer.DefaultConfig())
//	go mixer.NewMixer(table, dev).Run(ctx)
//
//	p := audmix.NewPlayer(table, "/mnt/sd", sounds.Default())
//	h, err := p.Play(10000, 80, false, false)
package audmix
