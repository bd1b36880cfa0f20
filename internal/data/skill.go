package data

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// SkillInfo describes one in-run skill. Its effect lives in code, keyed by ID.
type SkillInfo struct {
	ID          SkillID       `yaml:"id"`
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Category    SkillCategory `yaml:"category"`
	MaxLevel    int           `yaml:"max_level"`
}

// SkillTable holds every skill indexed by SkillID.
type SkillTable struct {
	skills [NumSkills]SkillInfo
}

// Get returns the skill definition for id.
func (t *SkillTable) Get(id SkillID) *SkillInfo {
	if id >= NumSkills {
		return nil
	}
	return &t.skills[id]
}

// MaxLevel returns the level cap of id, 0 for an out-of-range id.
func (t *SkillTable) MaxLevel(id SkillID) int {
	if s := t.Get(id); s != nil {
		return s.MaxLevel
	}
	return 0
}

// Count returns total loaded skills.
func (t *SkillTable) Count() int { return int(NumSkills) }

// All returns the skills in declaration order.
func (t *SkillTable) All() []SkillInfo {
	out := make([]SkillInfo, NumSkills)
	copy(out, t.skills[:])
	return out
}

type skillFile struct {
	Skills []SkillInfo `yaml:"skills"`
}

func parseSkillTable(raw []byte) (*SkillTable, error) {
	var f skillFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse skills: %w", err)
	}
	t := &SkillTable{}
	var seen [NumSkills]bool
	for _, s := range f.Skills {
		if seen[s.ID] {
			return nil, fmt.Errorf("skills: duplicate %s", s.ID)
		}
		if s.MaxLevel < 1 {
			return nil, fmt.Errorf("skills: %s max_level must be >= 1", s.ID)
		}
		seen[s.ID] = true
		t.skills[s.ID] = s
	}
	for id := SkillID(0); id < NumSkills; id++ {
		if !seen[id] {
			return nil, fmt.Errorf("skills: missing definition for %s", id)
		}
	}
	return t, nil
}
