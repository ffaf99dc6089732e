package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/twinhire/server/pkg/models"
	"github.com/twinhire/server/pkg/repository/mock"
)

func newTestService(m *mock.Mocks) *Service {
	return NewService(m.Candidates, m.Resumes, m.Experiences, m.Skills, m.Tools, m.Sessions, nil)
}

func TestAggregate_CandidateNotFound(t *testing.T) {
	svc := newTestService(mock.NewMocks())
	_, err := svc.Aggregate(context.Background(), "missing")
	if !errors.Is(err, models.ErrCandidateNotFound) {
		t.Fatalf("expected ErrCandidateNotFound, got %v", err)
	}
}

func TestAggregate_EmptyCandidate(t *testing.T) {
	m := mock.NewMocks()
	m.Candidates.Stored = []models.Candidate{{ID: "c1", FullName: "Dana Reyes"}}

	view, err := newTestService(m).Aggregate(context.Background(), "c1")
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if view.Resume != nil {
		t.Errorf("expected nil resume")
	}
	if view.Experiences == nil || len(view.Experiences) != 0 {
		t.Errorf("expected empty experiences slice, got %#v", view.Experiences)
	}
	if view.Skills == nil || len(view.Skills) != 0 {
		t.Errorf("expected empty skills slice, got %#v", view.Skills)
	}
	if view.AllAchievements == nil || len(view.AllAchievements) != 0 {
		t.Errorf("expected empty achievement pool, got %#v", view.AllAchievements)
	}
	if view.GeneratedAt == 0 {
		t.Errorf("GeneratedAt not set")
	}
}

func TestAggregate_DegradesOnSubFetchFailure(t *testing.T) {
	m := mock.NewMocks()
	m.Candidates.Stored = []models.Candidate{{ID: "c1", FullName: "Dana Reyes", TotalExperienceYears: 4}}
	m.Skills.Err = errors.New("disk gone")
	m.Sessions.Err = errors.New("disk gone")

	view, err := newTestService(m).Aggregate(context.Background(), "c1")
	if err != nil {
		t.Fatalf("sub-fetch failures must not fail the aggregate: %v", err)
	}
	if len(view.Skills) != 0 || len(view.InterviewHighlights) != 0 {
		t.Errorf("failed fetches should degrade to empty, got %#v", view)
	}
	if view.TotalExperienceYears != 4 {
		t.Errorf("candidate-row fallback not used: %v", view.TotalExperienceYears)
	}
}

func TestAggregate_ExperienceEnrichment(t *testing.T) {
	m := mock.NewMocks()
	m.Candidates.Stored = []models.Candidate{{ID: "c1", FullName: "Dana Reyes"}}
	m.Experiences.Stored = []models.WorkExperience{
		{ID: "e1", CandidateID: "c1", Title: "Engineer", Organization: "Acme Corp"},
		{ID: "e2", CandidateID: "c1", Title: "Analyst", Organization: "Globex"},
	}
	ended := int64(1700000000000)
	m.Sessions.Stored = []models.InterviewSession{
		{
			ID:           "s1",
			CandidateID:  "c1",
			Category:     models.CategoryJobExperience,
			Organization: "acme corp", // must match case-insensitively
			EndedAt:      &ended,
			Achievements: &models.AchievementSet{
				Achievements: []models.Achievement{
					{Text: "Cut deploy time in half", Category: models.AchievementProcessImprovement},
				},
				Summary: models.AchievementSummary{TotalAchievements: 1, DominantCategories: []string{"process_improvement"}},
			},
		},
	}

	view, err := newTestService(m).Aggregate(context.Background(), "c1")
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	var acme, globex *EnrichedExperience
	for i := range view.Experiences {
		switch view.Experiences[i].Organization {
		case "Acme Corp":
			acme = &view.Experiences[i]
		case "Globex":
			globex = &view.Experiences[i]
		}
	}
	if acme == nil || !acme.HasInterviewData {
		t.Fatalf("Acme Corp should be enriched: %#v", view.Experiences)
	}
	if len(acme.EnrichedAchievements) != 1 || acme.EnrichedAchievements[0] != "Cut deploy time in half" {
		t.Errorf("achievements not attached: %#v", acme.EnrichedAchievements)
	}
	if globex == nil || globex.HasInterviewData {
		t.Errorf("Globex should not be enriched: %#v", globex)
	}
	if len(view.AllAchievements) != 1 {
		t.Errorf("achievement pool wrong: %#v", view.AllAchievements)
	}
	if len(view.InterviewHighlights) != 1 || view.InterviewHighlights[0].SessionID != "s1" {
		t.Errorf("highlight bucket wrong: %#v", view.InterviewHighlights)
	}
}

func TestAggregate_WorkStyleBucket(t *testing.T) {
	m := mock.NewMocks()
	m.Candidates.Stored = []models.Candidate{{ID: "c1"}}
	ended := int64(1700000000000)
	m.Sessions.Stored = []models.InterviewSession{
		{
			ID:          "ws1",
			CandidateID: "c1",
			Category:    models.CategoryWorkStyle,
			EndedAt:     &ended,
			Insights: &models.WorkStyleInsights{
				WorkStyle: "Collaborative", CareerGoals: "Tech lead",
				Strengths: []string{"communication"}, Motivations: "Impact",
			},
		},
	}

	view, err := newTestService(m).Aggregate(context.Background(), "c1")
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(view.WorkStyleInsights) != 1 || view.WorkStyleInsights[0].SessionID != "ws1" {
		t.Fatalf("work style bucket wrong: %#v", view.WorkStyleInsights)
	}
	if len(view.InterviewHighlights) != 0 {
		t.Errorf("work style session leaked into highlights: %#v", view.InterviewHighlights)
	}
}

func TestAggregate_ResumeYearsWin(t *testing.T) {
	m := mock.NewMocks()
	m.Candidates.Stored = []models.Candidate{{ID: "c1", TotalExperienceYears: 3}}
	m.Resumes.Stored = []models.ResumeRecord{
		{ID: "r1", CandidateID: "c1", Status: models.ResumeStatusCompleted, TotalExperienceYears: 7.5, SkillNames: []string{"Go"}},
	}

	view, err := newTestService(m).Aggregate(context.Background(), "c1")
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if view.TotalExperienceYears != 7.5 {
		t.Errorf("resume figure should win: %v", view.TotalExperienceYears)
	}
	if len(view.Skills) != 1 || view.Skills[0].Source != SourceResume {
		t.Errorf("resume skills not reconciled: %#v", view.Skills)
	}
}
