// SPDX-License-Identifier: EPL-2.0

// Package mixer is the real-time audio mixing engine: a fixed-capacity
// source table, one decoder goroutine per source, and a periodic mixer that
// sums every playing source into a 44.1kHz stereo 16-bit stream.
//
// # Lifecycle
//
// Create marks a free slot Playing and starts its decoder. The decoder
// parses the container, converts it to the output format and pushes
// fixed-size chunks into a bounded channel; a full channel blocks the
// decoder, never the mixer. Stop only flips the state to Stopping. The
// decoder notices, exits and marks the source Stopped. A source that runs
// out of input is drained by the mixer first. The mixer then reclaims the
// slot on its next pass, which is the only place a slot becomes Idle:
//
//	Playing <-> Paused
//	Playing/Paused -> Stopping -> Stopped -> Idle
//	Playing (input exhausted, channel drained) -> Stopped -> Idle
//
// # Mixing
//
// Each pass reads at most one period from every Playing source without
// blocking, scales samples by volume*master/10000 and adds them with int16
// saturation. The period is written to the Sink even when it is silent.
//
//	table, _ := mixer.NewTable(mixer.DefaultConfig())
//	m := mixer.NewMixer(table, sink)
//	go m.Run(ctx)
//	h, err := table.CreateSource("sounds/0001.wav", 80, false, false)
//	if errors.Is(err, mixer.ErrTableFull) {
//	    // every slot is busy
//	}
package mixer
