package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateNeverReturnsZero(t *testing.T) {
	p := NewEntityPool()
	id := p.Create()
	assert.False(t, id.IsZero())
	assert.True(t, p.Alive(id))
	assert.False(t, p.Alive(0))
}

func TestDestroyInvalidatesStaleIDs(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()
	p.Destroy(a)
	assert.False(t, p.Alive(a))

	b := p.Create()
	assert.Equal(t, a.Index(), b.Index(), "freed slot is reused")
	assert.NotEqual(t, a, b)
	assert.True(t, p.Alive(b))

	p.Destroy(a) // stale, no effect
	assert.True(t, p.Alive(b))
	assert.Equal(t, 1, p.Live())
}

func TestAllocationIsDeterministic(t *testing.T) {
	run := func() []EntityID {
		p := NewEntityPool()
		ids := []EntityID{p.Create(), p.Create(), p.Create()}
		p.Destroy(ids[1])
		ids = append(ids, p.Create(), p.Create())
		return ids
	}
	assert.Equal(t, run(), run())
}
