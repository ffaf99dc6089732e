package profile

import (
	"sort"
	"strings"

	"github.com/twinhire/server/pkg/models"
)

type Proficiency string

const (
	ProficiencyFamiliar   Proficiency = "familiar"
	ProficiencyBeginner   Proficiency = "beginner"
	ProficiencyProficient Proficiency = "proficient"
	ProficiencyExpert     Proficiency = "expert"
)

// ProficiencyFor maps years of experience onto a label with a fixed step
// function: 0 familiar, under 2 beginner, under 5 proficient, 5+ expert.
func ProficiencyFor(years float64) Proficiency {
	switch {
	case years <= 0:
		return ProficiencyFamiliar
	case years < 2:
		return ProficiencyBeginner
	case years < 5:
		return ProficiencyProficient
	default:
		return ProficiencyExpert
	}
}

// SkillSource records which input a reconciled entry came from.
type SkillSource string

const (
	SourceSkillRecord SkillSource = "skill_record"
	SourceToolRecord  SkillSource = "tool_record"
	SourceResume      SkillSource = "resume"
)

// SkillView is one entry of the reconciled skills profile.
type SkillView struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "skill" or "software"
	Category    string      `json:"category,omitempty"`
	YearsOfExp  float64     `json:"years_of_exp"`
	LastUsed    *string     `json:"last_used,omitempty"`
	Proficiency Proficiency `json:"proficiency"`
	Source      SkillSource `json:"source"`
}

// Reconcile merges the three skill sources into one ordered list. It builds a
// case-insensitive name-keyed ordered map with a fixed precedence: SkillRecords
// first, then ToolRecords, then resume-extracted names. The first two are
// authoritative and are never overwritten by a later source; resume names only
// fill gaps and default to zero experience. The result is sorted by years of
// experience descending with insertion order preserved among ties, so the
// function is a pure, deterministic transformation of its inputs.
func Reconcile(skills []models.SkillRecord, tools []models.ToolRecord, resumeSkillNames []string) []SkillView {
	byKey := make(map[string]SkillView)
	var order []string

	insert := func(key string, v SkillView) {
		if _, exists := byKey[key]; exists {
			return
		}
		byKey[key] = v
		order = append(order, key)
	}

	for _, s := range skills {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			continue
		}
		insert(strings.ToLower(name), SkillView{
			Name:        name,
			Type:        "skill",
			Category:    s.Category,
			YearsOfExp:  s.YearsOfExp,
			LastUsed:    s.LastUsed,
			Proficiency: ProficiencyFor(s.YearsOfExp),
			Source:      SourceSkillRecord,
		})
	}

	for _, t := range tools {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			continue
		}
		insert(strings.ToLower(name), SkillView{
			Name:        name,
			Type:        "software",
			Category:    t.Category,
			YearsOfExp:  t.YearsOfExp,
			LastUsed:    t.LastUsed,
			Proficiency: ProficiencyFor(t.YearsOfExp),
			Source:      SourceToolRecord,
		})
	}

	for _, raw := range resumeSkillNames {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		insert(strings.ToLower(name), SkillView{
			Name:        name,
			Type:        "skill",
			YearsOfExp:  0,
			Proficiency: ProficiencyFamiliar,
			Source:      SourceResume,
		})
	}

	out := make([]SkillView, 0, len(order))
	for _, key := range order {
		out = append(out, byKey[key])
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].YearsOfExp > out[j].YearsOfExp
	})

	return out
}
