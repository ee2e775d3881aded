// SPDX-License-Identifier: EPL-2.0

// Command audmixd runs the mixer against an audio output and takes
// playback commands from an interactive console.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/decred/slog"
	"golang.org/x/sync/errgroup"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/mixer"
	"github.com/ik5/audmix/sink"
	"github.com/ik5/audmix/sounds"
)

type output interface {
	mixer.Sink
	io.Closer
}

type options struct {
	storage  string
	capacity int
	master   int
	period   int
	sink     string
	out      string
	buffer   time.Duration
	logLevel string
	console  bool
}

func parseFlags(args []string) (*options, error) {
	o := &options{}
	def := mixer.DefaultConfig()

	fs := flag.NewFlagSet("audmixd", flag.ContinueOnError)
	fs.StringVar(&o.storage, "storage", "", "storage root holding sounds/NNNN.wav (empty: embedded sounds only)")
	fs.IntVar(&o.capacity, "capacity", def.Capacity, "maximum simultaneous sources")
	fs.IntVar(&o.master, "master", def.MasterVolume, "initial master volume 0-100")
	fs.IntVar(&o.period, "period", def.PeriodFrames, "frames per mixer pass")
	fs.StringVar(&o.sink, "sink", "device", "output: device, null or wav")
	fs.StringVar(&o.out, "out", "audmix.wav", "recording path for -sink wav")
	fs.DurationVar(&o.buffer, "buffer", 50*time.Millisecond, "device buffer latency")
	fs.StringVar(&o.logLevel, "loglevel", "info", "trace, debug, info, warn, error, critical or off")
	fs.BoolVar(&o.console, "console", true, "read commands from the terminal")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return o, nil
}

func openOutput(o *options) (output, error) {
	switch o.sink {
	case "device":
		d, err := sink.NewDevice(o.buffer)
		if err != nil {
			return nil, err
		}
		return d, nil
	case "null":
		return sink.NewPaced(sink.Discard{}), nil
	case "wav":
		w, err := sink.NewWAVFile(o.out)
		if err != nil {
			return nil, err
		}
		return sink.NewPaced(w), nil
	}
	return nil, fmt.Errorf("unknown sink %q", o.sink)
}

// shutdown stops every source and waits for the decoders before closing
// the output the mixer wrote to.
func shutdown(table *mixer.Table, out io.Closer) error {
	var errs []error
	if err := table.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing sources: %w", err))
	}
	if err := out.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing output: %w", err))
	}
	return errors.Join(errs...)
}

func run(ctx context.Context, args []string) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}

	level, ok := slog.LevelFromString(o.logLevel)
	if !ok {
		return fmt.Errorf("unknown log level %q", o.logLevel)
	}
	backend := slog.NewBackend(os.Stderr)
	logger := func(subsystem string) slog.Logger {
		l := backend.Logger(subsystem)
		l.SetLevel(level)
		return l
	}
	mixLog, sinkLog, conLog := logger("MIXR"), logger("SINK"), logger("CONS")

	cfg := mixer.DefaultConfig()
	cfg.Capacity = o.capacity
	cfg.MasterVolume = o.master
	cfg.PeriodFrames = o.period
	cfg.Log = mixLog
	cfg.OnFinished = func(ev mixer.FinishedEvent) {
		if ev.Err != nil {
			conLog.Infof("Source %d %s: %v", ev.Handle, ev.Reason, ev.Err)
			return
		}
		conLog.Infof("Source %d %s (%v)", ev.Handle, ev.Reason, ev.Origin)
	}

	table, err := mixer.NewTable(cfg)
	if err != nil {
		return err
	}

	out, err := openOutput(o)
	if err != nil {
		table.Close()
		return err
	}
	sinkLog.Infof("Output %s, %v per period", o.sink, cfg.Period())

	bank := sounds.Default()
	player := audmix.NewPlayer(table, o.storage, bank)
	player.SetLogger(logger("PLYR"))

	m := mixer.NewMixer(table, out)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return m.Run(gctx)
	})
	if o.console {
		c := &console{table: table, mixer: m, player: player, bank: bank, out: os.Stdout, log: conLog}
		g.Go(func() error {
			return runConsole(gctx, c)
		})
	}

	err = g.Wait()
	if errors.Is(err, errQuit) || errors.Is(err, context.Canceled) {
		err = nil
	}

	if serr := shutdown(table, out); serr != nil {
		sinkLog.Errorf("Shutdown: %v", serr)
	}
	st := m.Stats()
	mixLog.Infof("Stopped after %d passes (%d underruns, %d sink errors)", st.Passes, st.Underruns, st.SinkErrors)

	return err
}

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "audmixd:", err)
		os.Exit(1)
	}
}
