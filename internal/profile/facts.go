package profile

import (
	"fmt"
	"strings"
)

// FactResult mirrors the shape the voice agent expects from a fact lookup.
type FactResult struct {
	Found bool  `json:"found"`
	Facts []any `json:"facts"`
}

func notFound(msg string) FactResult {
	return FactResult{Found: false, Facts: []any{msg}}
}

func containsAny(s string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// Facts answers a free-text query against a consolidated view with keyword
// dispatch. It always returns a well-formed result; unknown queries fall back
// to a substring scan over interview briefs.
func Facts(view *ConsolidatedView, query string) FactResult {
	if view == nil {
		return notFound("Candidate data not available")
	}

	q := strings.ToLower(strings.TrimSpace(query))

	switch {
	case containsAny(q, "interview", "brief", "insight", "work style", "collaboration", "career goal", "aspiration"):
		return interviewFacts(view, q)

	case containsAny(q, "summary", "about"):
		if view.Candidate.ProfessionalSummary != "" {
			return FactResult{Found: true, Facts: []any{view.Candidate.ProfessionalSummary}}
		}
		return FactResult{Found: true, Facts: []any{fmt.Sprintf(
			"%s is a %s with %.0f years of experience.",
			orDefault(view.Candidate.FullName, "The candidate"),
			orDefault(view.Candidate.JobTitle, "professional"),
			view.TotalExperienceYears,
		)}}

	case strings.Contains(q, "skill"):
		if len(view.Skills) == 0 {
			return notFound("No skills information available")
		}
		names := make([]any, 0, len(view.Skills))
		for _, s := range view.Skills {
			names = append(names, s.Name)
		}
		return FactResult{Found: true, Facts: names}

	case matchesSkillName(view, q):
		facts := []any{}
		for _, s := range view.Skills {
			if s.Name == "" || !strings.Contains(q, strings.ToLower(s.Name)) {
				continue
			}
			info := fmt.Sprintf("%s - %.0f years experience", s.Name, s.YearsOfExp)
			if s.LastUsed != nil {
				info += ", last used: " + *s.LastUsed
			}
			facts = append(facts, info)
		}
		return FactResult{Found: true, Facts: facts}

	case containsAny(q, "education", "degree", "university"):
		return notFound("Education information not available in current profile")

	case containsAny(q, "experience", "work", "job", "employment"):
		if len(view.Experiences) == 0 {
			return notFound("No experience information available")
		}
		facts := make([]any, 0, len(view.Experiences))
		for _, e := range view.Experiences {
			end := "Present"
			if e.EndDate != nil {
				end = *e.EndDate
			}
			facts = append(facts, map[string]any{
				"company":     e.Organization,
				"role":        e.Title,
				"dates":       e.StartDate + " - " + end,
				"description": e.Description,
			})
		}
		return FactResult{Found: true, Facts: facts}

	case containsAny(q, "current", "present"):
		if view.Candidate.CurrentCompany == "" && view.Candidate.JobTitle == "" {
			return notFound("Current position information not available")
		}
		return FactResult{Found: true, Facts: []any{fmt.Sprintf(
			"Currently %s at %s", view.Candidate.JobTitle, view.Candidate.CurrentCompany,
		)}}

	case containsAny(q, "location", "where"):
		if view.Candidate.Location == "" && view.Candidate.Country == "" {
			return notFound("Location information not available")
		}
		loc := view.Candidate.Location
		if view.Candidate.Country != "" {
			if loc != "" {
				loc += ", "
			}
			loc += view.Candidate.Country
		}
		return FactResult{Found: true, Facts: []any{loc}}

	case containsAny(q, "name", "who"):
		return FactResult{Found: true, Facts: []any{
			"The candidate is " + orDefault(view.Candidate.FullName, "Unknown"),
		}}
	}

	return briefSearch(view, q)
}

func interviewFacts(view *ConsolidatedView, q string) FactResult {
	facts := []any{}

	for _, ws := range view.WorkStyleInsights {
		facts = append(facts, ws.Insights)
	}
	for _, h := range view.InterviewHighlights {
		if h.Brief != nil && h.Brief.Text != "" {
			facts = append(facts, map[string]any{
				"session": strings.TrimSpace(h.JobTitle + " at " + h.Organization),
				"brief":   h.Brief.Text,
			})
		}
		if strings.Contains(q, "achievement") && h.Achievements != nil && len(h.Achievements.Achievements) > 0 {
			facts = append(facts, map[string]any{"achievements": h.Achievements.Achievements})
		}
	}

	if len(facts) == 0 {
		return notFound("No previous interview insights available")
	}
	return FactResult{Found: true, Facts: facts}
}

func matchesSkillName(view *ConsolidatedView, q string) bool {
	for _, s := range view.Skills {
		if s.Name != "" && strings.Contains(q, strings.ToLower(s.Name)) {
			return true
		}
	}
	return false
}

// briefSearch is the catch-all: look for query terms inside stored briefs.
func briefSearch(view *ConsolidatedView, q string) FactResult {
	terms := strings.Fields(q)
	facts := []any{}

	for _, h := range view.InterviewHighlights {
		if h.Brief == nil || h.Brief.Text == "" {
			continue
		}
		text := strings.ToLower(h.Brief.Text)
		for _, t := range terms {
			if strings.Contains(text, t) {
				facts = append(facts, map[string]any{
					"from_interview": strings.TrimSpace(h.JobTitle + " at " + h.Organization),
					"context":        h.Brief.Text,
				})
				break
			}
		}
	}

	if len(facts) == 0 {
		return notFound("I couldn't find information about that specific query")
	}
	return FactResult{Found: true, Facts: facts}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
