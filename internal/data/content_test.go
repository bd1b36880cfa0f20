package data

import (
	"bytes"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultContentLoads(t *testing.T) {
	c := Default()
	require.NotNil(t, c)

	assert.Equal(t, 3, c.Chapters.Count())
	assert.Equal(t, 4, c.Enemies.Count())
	assert.Equal(t, 21, c.Skills.Count())

	melee := c.Enemies.Get(MeleeBasic)
	require.NotNil(t, melee)
	assert.Equal(t, 30.0, melee.HP)
	assert.Equal(t, Chase, melee.Behavior)
	assert.Equal(t, Kite, c.Enemies.Get(RangedSpread).Behavior)
	assert.Equal(t, 3, c.Enemies.Get(RangedSpread).Volley)

	assert.Nil(t, c.Enemies.Get(BossGolem), "bosses live in their own table")
	golem := c.Bosses.Get(BossGolem)
	require.NotNil(t, golem)
	assert.Equal(t, 500.0, golem.HP)
	assert.Equal(t, 0.5, golem.Phase2Threshold)
}

func TestChapterContent(t *testing.T) {
	c := Default()
	ch := c.Chapters.Get(1)
	assert.Equal(t, "The Dark Caves", ch.Name)
	require.Len(t, ch.Rooms, 6)

	first := ch.Room(0)
	require.NotNil(t, first)
	require.Len(t, first.Waves, 1)
	assert.Equal(t, 0.3, first.Waves[0].SpawnDelay)
	assert.Equal(t, []WaveGroup{{Type: MeleeBasic, Count: 3}}, first.Waves[0].Enemies)
	assert.Equal(t, NoModifier, first.Modifier)

	swarm := ch.Room(3).Modifier
	assert.Equal(t, ModifierSwarm, swarm.Kind)
	assert.Equal(t, 0.6, swarm.HPMul)
	assert.Equal(t, 1.5, swarm.CountMul)
	assert.Equal(t, 1.0, swarm.DamageMul)

	boss := ch.Room(5)
	assert.True(t, boss.Boss)
	assert.True(t, boss.Waves[0].HasBoss())
	assert.Nil(t, ch.Room(6))
}

func TestChapterFallsBackToFirst(t *testing.T) {
	c := Default()
	assert.Equal(t, 1, c.Chapters.Get(99).ID)
	_, ok := c.Chapters.Lookup(99)
	assert.False(t, ok)
	assert.Nil(t, c.Chapters.Room(1, -1))
}

func TestHeroLookupFallsBackToArcher(t *testing.T) {
	c := Default()
	assert.Equal(t, Archer, c.Heroes.Lookup("necromancer").ID)
	mage := c.Heroes.Lookup("mage")
	require.NotNil(t, mage.StartingSkill)
	assert.Equal(t, Homing, *mage.StartingSkill)
	assert.Nil(t, c.Heroes.Get(Archer).StartingSkill)
}

func embeddedFS(t *testing.T) fstest.MapFS {
	t.Helper()
	sub, err := fs.Sub(embedded, "content")
	require.NoError(t, err)
	out := fstest.MapFS{}
	for _, tf := range tableFiles {
		raw, err := fs.ReadFile(sub, tf.name)
		require.NoError(t, err)
		out[tf.name] = &fstest.MapFile{Data: raw}
	}
	return out
}

func TestUnknownEnemyTypeIsFatal(t *testing.T) {
	fsys := embeddedFS(t)
	fsys["chapters.yaml"] = &fstest.MapFile{Data: []byte(`
chapters:
  - id: 1
    name: Broken
    difficulty: 1
    rooms:
      - waves:
          - {spawn_delay: 0.3, enemies: [{type: slime_king, count: 1}]}
`)}
	_, err := Load(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown enemy type "slime_king"`)
}

func TestMissingSkillIsFatal(t *testing.T) {
	fsys := embeddedFS(t)
	fsys["skills.yaml"] = &fstest.MapFile{Data: []byte(`
skills:
  - {id: multishot, name: Multishot, category: attack, max_level: 3}
`)}
	_, err := Load(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing definition")
}

func TestBossOutsideBossRoomRejected(t *testing.T) {
	fsys := embeddedFS(t)
	fsys["chapters.yaml"] = &fstest.MapFile{Data: []byte(`
chapters:
  - id: 1
    name: Early Boss
    difficulty: 1
    rooms:
      - waves:
          - {spawn_delay: 1, enemies: [{type: boss_golem, count: 1}]}
`)}
	_, err := Load(fsys)
	require.Error(t, err)
}

func TestContentWriteToIsStable(t *testing.T) {
	var a, b bytes.Buffer
	_, err := Default().WriteTo(&a)
	require.NoError(t, err)
	_, err = Default().WriteTo(&b)
	require.NoError(t, err)
	assert.Equal(t, a.Bytes(), b.Bytes())
	assert.Contains(t, a.String(), "chapters.yaml\x00")
}

func TestSourcesAreSortedAndComplete(t *testing.T) {
	c := Default()
	names := c.Sources()
	require.Len(t, names, len(tableFiles))
	assert.IsIncreasing(t, names)
	for _, n := range names {
		assert.NotEmpty(t, c.Source(n), n)
	}
	assert.Nil(t, c.Source("missing.yaml"))
}
