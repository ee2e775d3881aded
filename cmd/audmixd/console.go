// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/decred/slog"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/mixer"
	"github.com/ik5/audmix/sounds"
)

const defaultVolume = 80

// errQuit ends the console and with it the daemon.
var errQuit = errors.New("quit requested")

type console struct {
	table  *mixer.Table
	mixer  *mixer.Mixer
	player *audmix.Player
	bank   *sounds.Bank
	out    io.Writer
	log    slog.Logger
}

type command struct {
	usage string
	help  string
	run   func(c *console, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"play":   {"play <id> [vol] [loop] [int]", "play a sound by ID", (*console).play},
		"file":   {"file <path> [vol] [loop]", "play a WAV or AIFF file", (*console).file},
		"stop":   {"stop <h>|all", "stop one source or every source", (*console).stop},
		"pause":  {"pause <h>", "pause a playing source", (*console).pause},
		"resume": {"resume <h>", "resume a paused source", (*console).resume},
		"volume": {"volume <h> <0-100>", "set a source volume", (*console).volume},
		"master": {"master [0-100]", "show or set the master volume", (*console).master},
		"status": {"status", "list sources and mixer counters", (*console).status},
		"info":   {"info <h>", "show one source", (*console).info},
		"list":   {"list", "list embedded sounds", (*console).list},
		"help":   {"help", "show this help", (*console).help},
		"quit":   {"quit", "stop playback and exit", func(*console, []string) error { return errQuit }},
	}
}

// exec runs one console line. Command errors are printed; only errQuit is
// returned.
func (c *console) exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	c.log.Debugf("Command %q", line)

	name := strings.ToLower(fields[0])
	if name == "exit" {
		name = "quit"
	}
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(c.out, "unknown command %q, try help\n", fields[0])
		return nil
	}

	err := cmd.run(c, fields[1:])
	switch {
	case errors.Is(err, errQuit):
		return err
	case errors.Is(err, errUsage):
		fmt.Fprintf(c.out, "usage: %s\n", cmd.usage)
	case err != nil:
		fmt.Fprintf(c.out, "error: %v\n", err)
	}
	return nil
}

var errUsage = errors.New("bad arguments")

func (c *console) play(args []string) error {
	if len(args) < 1 || len(args) > 4 {
		return errUsage
	}
	id, err := strconv.ParseUint(args[0], 10, 16)
	if err != nil {
		return errUsage
	}
	vol, loop, interrupt, err := playOptions(args[1:])
	if err != nil {
		return err
	}

	h, err := c.player.Play(uint16(id), vol, loop, interrupt)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "sound %d playing on handle %d\n", id, h)
	return nil
}

func (c *console) file(args []string) error {
	if len(args) < 1 || len(args) > 3 {
		return errUsage
	}
	vol, loop, _, err := playOptions(args[1:])
	if err != nil {
		return err
	}

	h, err := c.table.CreateSource(args[0], vol, loop, false)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s playing on handle %d\n", args[0], h)
	return nil
}

// playOptions parses [vol] [loop] [int].
func playOptions(args []string) (vol int, loop, interrupt bool, err error) {
	vol = defaultVolume
	flags := []*bool{&loop, &interrupt}

	for i, a := range args {
		if i == 0 {
			if vol, err = strconv.Atoi(a); err != nil {
				return 0, false, false, errUsage
			}
			continue
		}
		if *flags[i-1], err = strconv.ParseBool(a); err != nil {
			return 0, false, false, errUsage
		}
	}
	return vol, loop, interrupt, nil
}

func (c *console) handleArg(args []string, n int) (mixer.Handle, error) {
	if len(args) != n {
		return mixer.InvalidHandle, errUsage
	}
	h, err := strconv.Atoi(args[0])
	if err != nil {
		return mixer.InvalidHandle, errUsage
	}
	return mixer.Handle(h), nil
}

func (c *console) stop(args []string) error {
	if len(args) == 1 && args[0] == "all" {
		c.table.StopAll()
		fmt.Fprintln(c.out, "stopping all sources")
		return nil
	}
	h, err := c.handleArg(args, 1)
	if err != nil {
		return err
	}
	return c.table.Stop(h)
}

func (c *console) pause(args []string) error {
	h, err := c.handleArg(args, 1)
	if err != nil {
		return err
	}
	return c.table.Pause(h)
}

func (c *console) resume(args []string) error {
	h, err := c.handleArg(args, 1)
	if err != nil {
		return err
	}
	return c.table.Resume(h)
}

func (c *console) volume(args []string) error {
	h, err := c.handleArg(args, 2)
	if err != nil {
		return err
	}
	v, err := strconv.Atoi(args[1])
	if err != nil {
		return errUsage
	}
	return c.table.SetVolume(h, v)
}

func (c *console) master(args []string) error {
	switch len(args) {
	case 0:
	case 1:
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return errUsage
		}
		c.table.SetMasterVolume(v)
	default:
		return errUsage
	}
	fmt.Fprintf(c.out, "master volume %d%%\n", c.table.MasterVolume())
	return nil
}

func (c *console) status(args []string) error {
	if len(args) != 0 {
		return errUsage
	}

	st := c.mixer.Stats()
	fmt.Fprintf(c.out, "playing %d/%d, master %d%%, passes %d, underruns %d, sink errors %d\n",
		c.table.ActiveCount(), c.table.Capacity(), c.table.MasterVolume(),
		st.Passes, st.Underruns, st.SinkErrors)

	for _, info := range c.table.Snapshot() {
		fmt.Fprintf(c.out, "  [%d] %-8s vol %3d%% %s\n", info.Handle, info.State, info.Volume, info.Origin)
	}
	return nil
}

func (c *console) info(args []string) error {
	h, err := c.handleArg(args, 1)
	if err != nil {
		return err
	}
	info, err := c.table.GetInfo(h)
	if err != nil {
		return err
	}

	format := "pending"
	if info.Format != nil {
		format = info.Format.String()
	}
	fmt.Fprintf(c.out, "handle %d: %s\n  origin %s\n  format %s\n  volume %d%% loop %v eof %v\n",
		info.Handle, info.State, info.Origin, format, info.Volume, info.Loop, info.EOF)
	if info.Tag != (mixer.Tag{}) {
		fmt.Fprintf(c.out, "  queue %d sound %d\n", info.Tag.QueueID, info.Tag.SoundIndex)
	}
	if info.Err != nil {
		fmt.Fprintf(c.out, "  error %v\n", info.Err)
	}
	return nil
}

func (c *console) list(args []string) error {
	if len(args) != 0 {
		return errUsage
	}
	if c.bank == nil {
		fmt.Fprintln(c.out, "no embedded sounds")
		return nil
	}
	for _, s := range c.bank.List() {
		fmt.Fprintf(c.out, "  %s\n", s)
	}
	return nil
}

func (c *console) help([]string) error {
	for _, name := range slices.Sorted(maps.Keys(commands)) {
		cmd := commands[name]
		fmt.Fprintf(c.out, "  %-30s %s\n", cmd.usage, cmd.help)
	}
	return nil
}

// completer offers command names at the start of the line.
func completer() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for name := range commands {
		items = append(items, readline.PcItem(name))
	}
	return readline.NewPrefixCompleter(items...)
}

// runConsole reads commands until quit, end of input or ctx is done.
func runConsole(ctx context.Context, c *console) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "audmix> ",
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("starting console: %w", err)
	}
	defer rl.Close()

	c.out = rl.Stdout()

	stop := context.AfterFunc(ctx, func() { rl.Close() })
	defer stop()

	for {
		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if line == "" {
				return errQuit
			}
			continue
		case errors.Is(err, io.EOF):
			return errQuit
		case err != nil:
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if err := c.exec(line); err != nil {
			return err
		}
	}
}
