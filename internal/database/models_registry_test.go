package database

import (
	"testing"

	modelspkg "tasklink/internal/models"

	"github.com/stretchr/testify/require"
)

func TestPersistentModels_IncludesJob(t *testing.T) {
	found := false
	for _, model := range PersistentModels() {
		if _, ok := model.(*modelspkg.Job); ok {
			found = true
			break
		}
	}
	require.True(t, found, "PersistentModels should include Job")
}
