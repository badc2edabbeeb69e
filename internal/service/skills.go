package service

import (
	"bytes"
	"encoding/json"
	"errors"

	"tasklink/internal/validation"
)

var errInvalidSkills = errors.New("skills must be a string or an array of strings")

// SkillsInput decodes skills sent either as a JSON array of strings or as a
// comma-separated string. Use it through a pointer field so that an absent
// or null value stays nil.
type SkillsInput struct {
	Values []string
}

// UnmarshalJSON accepts `"a, b"` and `["a","b"]`. Entries are normalized.
func (s *SkillsInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errInvalidSkills
	}

	switch data[0] {
	case '"':
		var csv string
		if err := json.Unmarshal(data, &csv); err != nil {
			return errInvalidSkills
		}
		s.Values = validation.SplitSkills(csv)
	case '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return errInvalidSkills
		}
		s.Values = validation.NormalizeSkills(list)
	case 'n':
		s.Values = nil
	default:
		return errInvalidSkills
	}
	return nil
}

// NewSkillsInput builds a SkillsInput from already split values.
func NewSkillsInput(values ...string) *SkillsInput {
	return &SkillsInput{Values: validation.NormalizeSkills(values)}
}

func skillsOrEmpty(in *SkillsInput) []string {
	if in == nil {
		return []string{}
	}
	return validation.NormalizeSkills(in.Values)
}
