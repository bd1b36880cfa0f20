package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/roguesim/internal/data"
	"github.com/l1jgo/roguesim/internal/geom"
	"github.com/l1jgo/roguesim/internal/world"
)

func TestBuildCopiesWorld(t *testing.T) {
	w := world.New(data.Default(), world.Config{Chapter: 1, Hero: data.Mage, Seed: 5})
	e := w.SpawnEnemy(data.BossWizard, geom.V(400, 200), nil)
	e.ApplyStatus(data.Burn)
	w.PlayAudio(world.AudioShoot)

	f := Build(w)
	assert.Equal(t, 1, f.Room)
	assert.Equal(t, w.TotalRooms, f.TotalRooms)
	assert.Equal(t, []Skill{{ID: "homing", Level: 1}}, f.Player.Skills)
	require.Len(t, f.Enemies, 1)
	assert.Equal(t, "boss_wizard", f.Enemies[0].Type)
	assert.Equal(t, 1, f.Enemies[0].BossPhase)
	assert.True(t, f.Enemies[0].Spawning)
	assert.Equal(t, []string{"burn"}, f.Enemies[0].Status)
	assert.Len(t, f.Obstacles, len(w.Obstacles))

	// Later world mutation must not leak into the frame.
	w.Audio[0] = "changed"
	assert.Equal(t, []string{world.AudioShoot}, f.Audio)
}

func TestEncodeDecode(t *testing.T) {
	w := world.New(data.Default(), world.Config{Chapter: 2, Seed: 1})
	f := Build(w)
	b, err := Encode(f)
	require.NoError(t, err)

	got, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, f.Player.Pos, got.Player.Pos)
	assert.Equal(t, f.Chapter, got.Chapter)
	assert.Equal(t, len(f.Obstacles), len(got.Obstacles))

	again, err := Encode(Build(w))
	require.NoError(t, err)
	assert.Equal(t, b, again, "encoding is deterministic")
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode([]byte{0xc1})
	assert.Error(t, err)
}
