package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillsInputUnmarshal(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		body    string
		want    []string
		present bool
		wantErr bool
	}{
		{name: "array", body: `{"skills":[" react ","","node"]}`, want: []string{"react", "node"}, present: true},
		{name: "comma string", body: `{"skills":"react, ,node"}`, want: []string{"react", "node"}, present: true},
		{name: "empty string", body: `{"skills":""}`, want: []string{}, present: true},
		{name: "absent", body: `{}`},
		{name: "null", body: `{"skills":null}`},
		{name: "number", body: `{"skills":42}`, wantErr: true},
		{name: "mixed array", body: `{"skills":["go",1]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in CreateJobInput
			err := json.Unmarshal([]byte(tt.body), &in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if !tt.present {
				assert.Nil(t, in.Skills)
				return
			}
			require.NotNil(t, in.Skills)
			assert.Equal(t, tt.want, in.Skills.Values)
		})
	}
}

func TestSkillsArrayAndStringAgree(t *testing.T) {
	t.Parallel()
	var fromArray, fromString CreateJobInput
	require.NoError(t, json.Unmarshal([]byte(`{"skills":["go"," sql ","", "go"]}`), &fromArray))
	require.NoError(t, json.Unmarshal([]byte(`{"skills":"go, sql ,,go"}`), &fromString))
	assert.Equal(t, fromArray.Skills.Values, fromString.Skills.Values)
	assert.Equal(t, []string{"go", "sql", "go"}, fromArray.Skills.Values)
}
