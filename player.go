// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/decred/slog"

	"github.com/ik5/audmix/formats/aiff"
	"github.com/ik5/audmix/formats/wav"
	"github.com/ik5/audmix/mixer"
	"github.com/ik5/audmix/sounds"
)

// DefaultFileVolume is the volume PlayFile uses.
const DefaultFileVolume = 80

// Creator starts sources. *mixer.Table implements it.
type Creator interface {
	CreateTagged(origin mixer.Origin, tag mixer.Tag, volume int, loop, interrupt bool) (mixer.Handle, error)
}

// Player starts sounds by ID. Storage files win over the embedded bank so a
// sound can be replaced without rebuilding.
type Player struct {
	creator Creator
	dir     string
	bank    *sounds.Bank
	log     slog.Logger
}

// NewPlayer returns a player over dir (empty disables storage) and bank
// (nil disables the embedded fallback).
func NewPlayer(creator Creator, dir string, bank *sounds.Bank) *Player {
	return &Player{creator: creator, dir: dir, bank: bank, log: slog.Disabled}
}

// SetLogger replaces the default disabled logger.
func (p *Player) SetLogger(log slog.Logger) {
	if log == nil {
		log = slog.Disabled
	}
	p.log = log
}

// Play resolves id and creates a source for it tagged with the sound index.
func (p *Player) Play(id uint16, volume int, loop, interrupt bool) (mixer.Handle, error) {
	p.log.Infof("Play sound %d: vol=%d%% loop=%v int=%v", id, volume, loop, interrupt)

	origin, err := p.Resolve(id)
	if err != nil {
		p.log.Errorf("Sound %d: %v", id, err)
		return mixer.InvalidHandle, err
	}

	h, err := p.creator.CreateTagged(origin, mixer.Tag{SoundIndex: id}, volume, loop, interrupt)
	if err != nil {
		return mixer.InvalidHandle, fmt.Errorf("sound %d: %w", id, err)
	}
	return h, nil
}

// PlayFile plays a WAV or AIFF file given relative to the storage
// directory at DefaultFileVolume.
func (p *Player) PlayFile(rel string) (mixer.Handle, error) {
	path := rel
	if p.dir != "" && !filepath.IsAbs(rel) {
		path = filepath.Join(p.dir, rel)
	}

	h, err := p.creator.CreateTagged(mixer.File(path), mixer.Tag{}, DefaultFileVolume, false, false)
	if err != nil {
		return mixer.InvalidHandle, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}

// Resolve returns the origin Play would use for id.
func (p *Player) Resolve(id uint16) (mixer.Origin, error) {
	if p.dir != "" {
		for _, ext := range []string{".wav", ".aiff"} {
			path := p.storagePath(id, ext)
			err := checkFile(path, ext)
			if err == nil {
				p.log.Debugf("Sound %d: using %s", id, path)
				return mixer.File(path), nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				p.log.Warnf("Sound %d: ignoring %s: %v", id, path, err)
			}
		}
	}

	if p.bank != nil {
		if s, ok := p.bank.Lookup(id); ok {
			p.log.Debugf("Sound %d: using embedded %q", id, s.Name)
			return mixer.Memory(s.Data), nil
		}
	}

	return mixer.Origin{}, fmt.Errorf("%w: %d", ErrSoundNotFound, id)
}

func (p *Player) storagePath(id uint16, ext string) string {
	return filepath.Join(p.dir, "sounds", fmt.Sprintf("%04d%s", id, ext))
}

// checkFile opens path and validates its header.
func checkFile(path, ext string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if ext == ".aiff" {
		src, err := aiff.Decoder{}.Decode(f)
		if err != nil {
			return err
		}
		return src.Close()
	}

	info, err := wav.Parse(f)
	if err != nil {
		return err
	}
	return info.Validate()
}
