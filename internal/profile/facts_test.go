package profile

import (
	"strings"
	"testing"

	"github.com/twinhire/server/pkg/models"
)

func factsView() *ConsolidatedView {
	end := "2022-06"
	return &ConsolidatedView{
		Candidate: models.Candidate{
			ID: "c1", FullName: "Dana Reyes", JobTitle: "Data Engineer",
			CurrentCompany: "Acme Corp", Location: "Porto", Country: "Portugal",
		},
		Skills: []SkillView{
			{Name: "Python", YearsOfExp: 6, Proficiency: ProficiencyExpert},
			{Name: "Airflow", YearsOfExp: 2, Proficiency: ProficiencyProficient},
		},
		Experiences: []EnrichedExperience{
			{WorkExperience: models.WorkExperience{
				Title: "Data Engineer", Organization: "Acme Corp", StartDate: "2022-07",
			}},
			{WorkExperience: models.WorkExperience{
				Title: "Analyst", Organization: "Globex", StartDate: "2019-01", EndDate: &end,
			}},
		},
		InterviewHighlights: []InterviewHighlight{
			{
				SessionID: "s1", JobTitle: "Data Engineer", Organization: "Acme Corp",
				Brief: &models.Brief{Text: "Dana led the warehouse migration to BigQuery."},
			},
		},
		WorkStyleInsights: []WorkStyleView{
			{SessionID: "ws1", Insights: models.WorkStyleInsights{WorkStyle: "Independent"}},
		},
		TotalExperienceYears: 6,
	}
}

func TestFacts_NilView(t *testing.T) {
	res := Facts(nil, "skills")
	if res.Found {
		t.Fatalf("nil view must report not found")
	}
}

func TestFacts_SkillList(t *testing.T) {
	res := Facts(factsView(), "What are their skills?")
	if !res.Found || len(res.Facts) != 2 {
		t.Fatalf("unexpected result: %#v", res)
	}
	if res.Facts[0] != "Python" {
		t.Errorf("expected Python first, got %v", res.Facts[0])
	}
}

func TestFacts_SpecificSkill(t *testing.T) {
	res := Facts(factsView(), "how long with python")
	if !res.Found || len(res.Facts) != 1 {
		t.Fatalf("unexpected result: %#v", res)
	}
	if s, _ := res.Facts[0].(string); !strings.Contains(s, "6 years") {
		t.Errorf("expected years in fact, got %v", res.Facts[0])
	}
}

func TestFacts_InterviewTermsTakePriority(t *testing.T) {
	// "interview" appears with "experience"; interview branch must win.
	res := Facts(factsView(), "interview insights about their experience")
	if !res.Found {
		t.Fatalf("expected found: %#v", res)
	}
	for _, f := range res.Facts {
		if m, ok := f.(map[string]any); ok {
			if _, hasCompany := m["company"]; hasCompany {
				t.Fatalf("experience branch ran instead of interview branch: %#v", res)
			}
		}
	}
}

func TestFacts_Experience(t *testing.T) {
	res := Facts(factsView(), "walk me through their work history")
	if !res.Found || len(res.Facts) != 2 {
		t.Fatalf("unexpected result: %#v", res)
	}
	first, ok := res.Facts[0].(map[string]any)
	if !ok {
		t.Fatalf("expected map fact, got %T", res.Facts[0])
	}
	if first["dates"] != "2022-07 - Present" {
		t.Errorf("open-ended role should render Present: %v", first["dates"])
	}
}

func TestFacts_Education_NotAvailable(t *testing.T) {
	res := Facts(factsView(), "what degree do they have")
	if res.Found {
		t.Fatalf("education should report not available: %#v", res)
	}
}

func TestFacts_Location(t *testing.T) {
	res := Facts(factsView(), "where are they based")
	if !res.Found || res.Facts[0] != "Porto, Portugal" {
		t.Fatalf("unexpected result: %#v", res)
	}
}

func TestFacts_FallbackBriefSearch(t *testing.T) {
	res := Facts(factsView(), "bigquery migration")
	if !res.Found || len(res.Facts) != 1 {
		t.Fatalf("expected brief hit: %#v", res)
	}
}

func TestFacts_FallbackMiss(t *testing.T) {
	res := Facts(factsView(), "zzzz qqqq")
	if res.Found {
		t.Fatalf("expected miss: %#v", res)
	}
}
