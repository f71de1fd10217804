package database

import (
	"testing"

	modelspkg "petchef/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersistentModels_ParentsFirst(t *testing.T) {
	registered := PersistentModels()
	require.Len(t, registered, 6)

	_, userFirst := registered[0].(*modelspkg.User)
	assert.True(t, userFirst, "users must be migrated before tables referencing them")

	index := func(target any) int {
		for i, m := range registered {
			switch target.(type) {
			case *modelspkg.Recipe:
				if _, ok := m.(*modelspkg.Recipe); ok {
					return i
				}
			case *modelspkg.Comment:
				if _, ok := m.(*modelspkg.Comment); ok {
					return i
				}
			}
		}
		return -1
	}
	assert.Less(t, index(&modelspkg.Recipe{}), index(&modelspkg.Comment{}))
}
