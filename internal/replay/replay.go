// Package replay records the inputs of a run and re-simulates them to prove
// a run's outcome.
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/crypto/blake2b"

	"github.com/l1jgo/roguesim/internal/data"
	"github.com/l1jgo/roguesim/internal/system"
	"github.com/l1jgo/roguesim/internal/view"
	"github.com/l1jgo/roguesim/internal/world"
)

// Version is bumped whenever the file layout or simulation rules change in a
// way that invalidates old replays.
const Version = 1

// NoChoice marks a frame without a pending skill selection.
const NoChoice = -1

// ChoiceCount is how many skills a level-up offers.
const ChoiceCount = 3

var (
	ErrVersion = errors.New("replay: unsupported version")
	ErrContent = errors.New("replay: content differs from recording")
	ErrDesync  = errors.New("replay: desync")
)

type Header struct {
	Version     int                    `msgpack:"version"`
	FixedStep   float64                `msgpack:"step"`
	ViewW       float64                `msgpack:"view_w"`
	ViewH       float64                `msgpack:"view_h"`
	Seed        int64                  `msgpack:"seed"`
	Chapter     int                    `msgpack:"chapter"`
	Hero        string                 `msgpack:"hero"`
	Bonuses     world.PermanentBonuses `msgpack:"bonuses"`
	ContentHash []byte                 `msgpack:"content"`
}

// Frame is one simulated step: the skill picked before it (index into the
// offered choices, or NoChoice) and the input it ran with.
type Frame struct {
	Choice int         `msgpack:"c"`
	Input  world.Input `msgpack:"i"`
}

type File struct {
	Header   Header  `msgpack:"header"`
	Frames   []Frame `msgpack:"frames"`
	Checksum []byte  `msgpack:"checksum"` // of the final world view
	Ticks    uint64  `msgpack:"ticks"`    // world frame counter at the end
}

// ContentHash is the blake2b-256 digest of every content table.
func ContentHash(c *data.Content) ([]byte, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return nil, err
	}
	if _, err := c.WriteTo(h); err != nil {
		return nil, fmt.Errorf("hash content: %w", err)
	}
	return h.Sum(nil), nil
}

// Checksum is the blake2b-256 digest of the msgpack view of w.
func Checksum(w *world.World) ([]byte, error) {
	b, err := view.Encode(view.Build(w))
	if err != nil {
		return nil, err
	}
	sum := blake2b.Sum256(b)
	return sum[:], nil
}

// NewHeader describes a run about to start.
func NewHeader(c *data.Content, cfg world.Config, step, viewW, viewH float64) (Header, error) {
	hash, err := ContentHash(c)
	if err != nil {
		return Header{}, err
	}
	return Header{
		Version:     Version,
		FixedStep:   step,
		ViewW:       viewW,
		ViewH:       viewH,
		Seed:        cfg.Seed,
		Chapter:     cfg.Chapter,
		Hero:        cfg.Hero.String(),
		Bonuses:     cfg.Bonuses,
		ContentHash: hash,
	}, nil
}

// WorldConfig returns the world configuration the header was recorded with.
func (h Header) WorldConfig() world.Config {
	hero, _ := data.ParseHeroID(h.Hero)
	return world.Config{Chapter: h.Chapter, Hero: hero, Bonuses: h.Bonuses, Seed: h.Seed}
}

// Driver decides what a run does each step.
type Driver interface {
	// Input samples the movement input for the next step.
	Input(w *world.World) world.Input
	// Pick returns an index into choices.
	Pick(w *world.World, choices []data.SkillID) int
}

// Step resolves a pending skill selection through d, then advances w by one
// fixed step with d's input. It returns the frame that reproduces the step.
func Step(w *world.World, d Driver, h *Header) Frame {
	f := Frame{Choice: NoChoice}
	if w.SkillSelection {
		choices := w.SkillChoices(ChoiceCount)
		if len(choices) == 0 {
			w.SkillSelection = false
		} else {
			f.Choice = clampChoice(d.Pick(w, choices), len(choices))
			w.ChooseSkill(choices[f.Choice])
		}
	}
	f.Input = d.Input(w)
	system.Advance(w, f.Input, h.FixedStep, h.ViewW, h.ViewH)
	return f
}

func clampChoice(i, n int) int {
	if i < 0 || i >= n {
		return 0
	}
	return i
}

// apply replays one recorded frame.
func apply(w *world.World, f Frame, h *Header) error {
	if w.SkillSelection {
		choices := w.SkillChoices(ChoiceCount)
		switch {
		case len(choices) == 0:
			w.SkillSelection = false
		case f.Choice < 0 || f.Choice >= len(choices):
			return fmt.Errorf("%w: frame %d expects a choice among %d, got %d", ErrDesync, w.Frame, len(choices), f.Choice)
		default:
			w.ChooseSkill(choices[f.Choice])
		}
	} else if f.Choice != NoChoice {
		return fmt.Errorf("%w: frame %d has a choice but no selection is pending", ErrDesync, w.Frame)
	}
	system.Advance(w, f.Input, h.FixedStep, h.ViewW, h.ViewH)
	return nil
}

// Recorder collects frames of a live run.
type Recorder struct {
	file File
}

func NewRecorder(h Header) *Recorder {
	return &Recorder{file: File{Header: h}}
}

func (r *Recorder) Header() *Header { return &r.file.Header }

// Step advances w through Step and keeps the frame.
func (r *Recorder) Step(w *world.World, d Driver) {
	r.file.Frames = append(r.file.Frames, Step(w, d, &r.file.Header))
}

// Len is the number of recorded frames.
func (r *Recorder) Len() int { return len(r.file.Frames) }

// Finish seals the recording with the checksum of w's final state.
func (r *Recorder) Finish(w *world.World) (*File, error) {
	sum, err := Checksum(w)
	if err != nil {
		return nil, err
	}
	f := r.file
	f.Frames = append([]Frame(nil), r.file.Frames...)
	f.Checksum = sum
	f.Ticks = w.Frame
	return &f, nil
}

// Run re-simulates f against content c and returns the final world.
func Run(f *File, c *data.Content) (*world.World, error) {
	if f.Header.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, f.Header.Version)
	}
	hash, err := ContentHash(c)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(hash, f.Header.ContentHash) {
		return nil, ErrContent
	}

	w := world.New(c, f.Header.WorldConfig())
	for _, fr := range f.Frames {
		if err := apply(w, fr, &f.Header); err != nil {
			return nil, err
		}
		w.Events.Flush()
	}
	return w, nil
}

// Verify re-simulates f and checks that it ends in the recorded state.
func Verify(f *File, c *data.Content) error {
	w, err := Run(f, c)
	if err != nil {
		return err
	}
	if w.Frame != f.Ticks {
		return fmt.Errorf("%w: ended at frame %d, recorded %d", ErrDesync, w.Frame, f.Ticks)
	}
	sum, err := Checksum(w)
	if err != nil {
		return err
	}
	if !bytes.Equal(sum, f.Checksum) {
		return fmt.Errorf("%w: final state checksum mismatch at frame %d", ErrDesync, w.Frame)
	}
	return nil
}

// Save writes f as msgpack.
func Save(wr io.Writer, f *File) error {
	if err := msgpack.NewEncoder(wr).Encode(f); err != nil {
		return fmt.Errorf("encode replay: %w", err)
	}
	return nil
}

// Load reads a msgpack replay and rejects other versions.
func Load(rd io.Reader) (*File, error) {
	f := &File{}
	if err := msgpack.NewDecoder(rd).Decode(f); err != nil {
		return nil, fmt.Errorf("decode replay: %w", err)
	}
	if f.Header.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, f.Header.Version)
	}
	return f, nil
}

func SaveFile(path string, f *File) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create replay %s: %w", path, err)
	}
	if err := Save(out, f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func LoadFile(path string) (*File, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay %s: %w", path, err)
	}
	defer in.Close()
	return Load(in)
}
