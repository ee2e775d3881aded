// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/audmix/formats/wav"
	"github.com/ik5/audmix/mixer"
	"github.com/ik5/audmix/sink"
	"github.com/ik5/audmix/sounds"
)

func TestShutdown(t *testing.T) {
	t.Parallel()

	table, err := mixer.NewTable(mixer.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	s, _ := sounds.Default().Lookup(10000)
	if _, err := table.CreateSourceFromMemory(s.Data, 100, true, false); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "out.wav")
	out, err := sink.NewWAVFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := shutdown(table, out); err != nil {
		t.Fatalf("shutdown() error = %v", err)
	}

	if _, err := table.CreateSourceFromMemory(s.Data, 100, false, false); !errors.Is(err, mixer.ErrClosed) {
		t.Errorf("Create() after shutdown error = %v, want ErrClosed", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := wav.ParseBytes(data); err != nil {
		t.Errorf("recording is not a WAV container: %v", err)
	}

	if err := shutdown(table, out); !errors.Is(err, mixer.ErrClosed) {
		t.Errorf("second shutdown() error = %v, want ErrClosed", err)
	}
}
