package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSkills(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"trims", []string{" react ", "node"}, []string{"react", "node"}},
		{"drops empties", []string{"", "  ", "go"}, []string{"go"}},
		{"keeps duplicates and order", []string{"b", "a", "b"}, []string{"b", "a", "b"}},
		{"nil", nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSkills(tt.in))
		})
	}
}

func TestSplitSkills(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"react", "node"}, SplitSkills("react, node"))
	assert.Equal(t, []string{"react", "node"}, SplitSkills(" react ,, node ,"))
	assert.Equal(t, []string{}, SplitSkills(""))
}

func TestUniqueSkills(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"Go", "SQL"}, UniqueSkills([]string{"Go", " go", "SQL", "sql "}))
}
