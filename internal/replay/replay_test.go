package replay

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/roguesim/internal/autopilot"
	"github.com/l1jgo/roguesim/internal/data"
	"github.com/l1jgo/roguesim/internal/geom"
	"github.com/l1jgo/roguesim/internal/world"
)

func record(t *testing.T, cfg world.Config, steps int) (*File, *world.World) {
	t.Helper()
	c := data.Default()
	h, err := NewHeader(c, cfg, world.FixedTimestep, 400, 700)
	require.NoError(t, err)

	w := world.New(c, cfg)
	rec := NewRecorder(h)
	pilot := autopilot.New()
	for i := 0; i < steps && !w.Over(); i++ {
		rec.Step(w, pilot)
		w.Events.Flush()
	}
	f, err := rec.Finish(w)
	require.NoError(t, err)
	return f, w
}

func TestRecordedRunVerifies(t *testing.T) {
	f, w := record(t, world.Config{Chapter: 1, Hero: data.Mage, Seed: 42}, 3000)
	require.NotEmpty(t, f.Frames)
	assert.Equal(t, w.Frame, f.Ticks)
	assert.NoError(t, Verify(f, data.Default()))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	f, _ := record(t, world.Config{Chapter: 2, Seed: 9}, 600)

	path := filepath.Join(t.TempDir(), "run.replay")
	require.NoError(t, SaveFile(path, f))
	got, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, f.Header, got.Header)
	assert.Equal(t, f.Checksum, got.Checksum)
	assert.Len(t, got.Frames, len(f.Frames))
	assert.NoError(t, Verify(got, data.Default()))
}

func TestTamperedInputDesyncs(t *testing.T) {
	f, _ := record(t, world.Config{Chapter: 1, Seed: 3}, 900)
	for i := range f.Frames {
		if f.Frames[i].Choice == NoChoice {
			f.Frames[i].Input = world.Input{Active: true, Direction: geom.V(1, 0), Magnitude: 1}
		}
	}
	assert.ErrorIs(t, Verify(f, data.Default()), ErrDesync)
}

func TestVersionMismatch(t *testing.T) {
	f, _ := record(t, world.Config{Chapter: 1, Seed: 3}, 10)
	f.Header.Version = Version + 1
	assert.ErrorIs(t, Verify(f, data.Default()), ErrVersion)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, f))
	_, err := Load(&buf)
	assert.ErrorIs(t, err, ErrVersion)
}

func TestContentMismatch(t *testing.T) {
	f, _ := record(t, world.Config{Chapter: 1, Seed: 3}, 10)
	f.Header.ContentHash[0] ^= 0xff
	assert.ErrorIs(t, Verify(f, data.Default()), ErrContent)
}

func TestStrayChoiceDesyncs(t *testing.T) {
	f, _ := record(t, world.Config{Chapter: 1, Seed: 3}, 10)
	f.Frames[0].Choice = 1
	assert.ErrorIs(t, Verify(f, data.Default()), ErrDesync)
}

func TestChecksumIsStable(t *testing.T) {
	a, _ := record(t, world.Config{Chapter: 3, Seed: 77}, 1200)
	b, _ := record(t, world.Config{Chapter: 3, Seed: 77}, 1200)
	assert.Equal(t, a.Checksum, b.Checksum)
	assert.Len(t, a.Checksum, 32)

	c, _ := record(t, world.Config{Chapter: 3, Seed: 78}, 1200)
	assert.NotEqual(t, a.Checksum, c.Checksum)
}
