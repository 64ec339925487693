package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBaseEntity_Touch(t *testing.T) {
	t.Run("advances the update timestamp without bumping version", func(t *testing.T) {
		stale := time.Now().Add(-time.Hour)
		entity := NewBaseEntity()
		entity.UpdatedAt = stale

		entity.Touch()

		assert.True(t, entity.UpdatedAt.After(stale))
	})
}

func TestBaseAggregateRoot_MarkUpdated(t *testing.T) {
	t.Run("bumps version and update timestamp together", func(t *testing.T) {
		root := NewBaseAggregateRoot()
		root.UpdatedAt = time.Now().Add(-time.Hour)

		root.MarkUpdated()
		root.MarkUpdated()

		assert.Equal(t, 3, root.GetVersion())
		assert.True(t, root.UpdatedAt.After(time.Now().Add(-time.Second)))
	})

	t.Run("touching does not change the version", func(t *testing.T) {
		root := NewBaseAggregateRoot()

		root.Touch()

		assert.Equal(t, 1, root.GetVersion())
	})
}
