package resume

import (
	"context"
	"errors"
	"testing"

	"github.com/twinhire/server/pkg/models"
	"github.com/twinhire/server/pkg/repository/mock"
)

func newTestService(m *mock.Mocks) *Service {
	return NewService(m.Candidates, m.Resumes, m.Experiences, m.Skills, m.Tools, nil)
}

func sampleParse() *ParsedResume {
	return &ParsedResume{
		Personal: ParsedPersonal{
			FullName: "Dana Reyes", Email: "dana@example.com", JobTitle: "Data Engineer",
		},
		Experiences: []ParsedExperience{
			{Title: "Data Engineer", Organization: "Acme Corp", StartDate: "2022-07"},
		},
		Skills: []ParsedSkill{
			{Name: "Python", YearsOfExp: 6},
		},
		Tools: []ParsedSkill{
			{Name: "Airflow", YearsOfExp: 2},
		},
		SkillNames:           []string{"Python", "Airflow"},
		TotalExperienceYears: 6,
	}
}

func TestApply_InvalidPayload(t *testing.T) {
	svc := newTestService(mock.NewMocks())
	if _, err := svc.Apply(context.Background(), "", sampleParse()); !errors.Is(err, models.ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
	if _, err := svc.Apply(context.Background(), "c1", nil); !errors.Is(err, models.ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload for nil parse, got %v", err)
	}
}

func TestApply_CandidateNotFound(t *testing.T) {
	svc := newTestService(mock.NewMocks())
	if _, err := svc.Apply(context.Background(), "missing", sampleParse()); !errors.Is(err, models.ErrCandidateNotFound) {
		t.Fatalf("expected ErrCandidateNotFound, got %v", err)
	}
}

func TestApply_CreatesRows(t *testing.T) {
	m := mock.NewMocks()
	m.Candidates.Stored = []models.Candidate{{ID: "c1"}}

	rec, err := newTestService(m).Apply(context.Background(), "c1", sampleParse())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if rec.Status != models.ResumeStatusCompleted || rec.TotalExperienceYears != 6 {
		t.Errorf("unexpected record: %#v", rec)
	}
	if len(m.Resumes.Stored) != 1 || len(m.Experiences.Stored) != 1 {
		t.Errorf("rows not created: resumes=%d experiences=%d", len(m.Resumes.Stored), len(m.Experiences.Stored))
	}
	if len(m.Skills.Stored) != 1 || len(m.Tools.Stored) != 1 {
		t.Errorf("skills/tools not created: %d/%d", len(m.Skills.Stored), len(m.Tools.Stored))
	}
	if m.Experiences.Stored[0].Provenance != models.ProvenanceResumeParsed {
		t.Errorf("experience provenance wrong: %v", m.Experiences.Stored[0].Provenance)
	}
}

func TestApply_ReuploadReplacesParsedRowsOnly(t *testing.T) {
	m := mock.NewMocks()
	m.Candidates.Stored = []models.Candidate{{ID: "c1"}}
	m.Experiences.Stored = []models.WorkExperience{
		{ID: "manual-1", CandidateID: "c1", Title: "Volunteer", Organization: "Shelter", Provenance: models.ProvenanceManual},
		{ID: "old-parsed", CandidateID: "c1", Title: "Intern", Organization: "OldCo", Provenance: models.ProvenanceResumeParsed},
	}
	m.Skills.Stored = []models.SkillRecord{
		{ID: "manual-skill", CandidateID: "c1", Name: "SQL", Provenance: models.ProvenanceManual},
		{ID: "old-skill", CandidateID: "c1", Name: "Perl", Provenance: models.ProvenanceResumeParsed},
	}

	if _, err := newTestService(m).Apply(context.Background(), "c1", sampleParse()); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	for _, e := range m.Experiences.Stored {
		if e.ID == "old-parsed" {
			t.Errorf("old parsed experience should be gone")
		}
	}
	foundManual := false
	for _, e := range m.Experiences.Stored {
		if e.ID == "manual-1" {
			foundManual = true
		}
	}
	if !foundManual {
		t.Errorf("manual experience must survive re-upload")
	}

	for _, s := range m.Skills.Stored {
		if s.ID == "old-skill" {
			t.Errorf("old parsed skill should be gone")
		}
	}
	names := map[string]bool{}
	for _, s := range m.Skills.Stored {
		names[s.Name] = true
	}
	if !names["SQL"] || !names["Python"] {
		t.Errorf("expected manual SQL plus new Python: %#v", m.Skills.Stored)
	}
}

func TestApply_DuplicateSkillSkipped(t *testing.T) {
	m := mock.NewMocks()
	m.Candidates.Stored = []models.Candidate{{ID: "c1"}}
	m.Skills.Stored = []models.SkillRecord{
		{ID: "manual-py", CandidateID: "c1", Name: "python", YearsOfExp: 9, Provenance: models.ProvenanceManual},
	}

	if _, err := newTestService(m).Apply(context.Background(), "c1", sampleParse()); err != nil {
		t.Fatalf("duplicate against a manual row must not fail: %v", err)
	}
	count := 0
	for _, s := range m.Skills.Stored {
		if s.CandidateID == "c1" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("manual skill should win, got %d rows: %#v", count, m.Skills.Stored)
	}
	if m.Skills.Stored[0].YearsOfExp != 9 {
		t.Errorf("manual row mutated: %#v", m.Skills.Stored[0])
	}
}

func TestApply_RowFailureMarksResumeFailed(t *testing.T) {
	m := mock.NewMocks()
	m.Candidates.Stored = []models.Candidate{{ID: "c1"}}
	m.Experiences.Err = errors.New("disk full")

	if _, err := newTestService(m).Apply(context.Background(), "c1", sampleParse()); err == nil {
		t.Fatalf("expected error when row replacement fails")
	}
	if len(m.Resumes.Stored) != 1 {
		t.Fatalf("resume record should still exist: %d", len(m.Resumes.Stored))
	}
	if m.Resumes.Stored[0].Status != models.ResumeStatusFailed {
		t.Errorf("resume should be marked failed, got %v", m.Resumes.Stored[0].Status)
	}
}

func TestApply_BackfillOnlyEmptyFields(t *testing.T) {
	m := mock.NewMocks()
	m.Candidates.Stored = []models.Candidate{{ID: "c1", FullName: "D. Reyes"}}

	if _, err := newTestService(m).Apply(context.Background(), "c1", sampleParse()); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	cand := m.Candidates.Stored[0]
	if cand.FullName != "D. Reyes" {
		t.Errorf("existing name must not be overwritten: %q", cand.FullName)
	}
	if cand.Email != "dana@example.com" || cand.JobTitle != "Data Engineer" {
		t.Errorf("empty fields should back-fill: %#v", cand)
	}
	if cand.TotalExperienceYears != 6 {
		t.Errorf("experience years should back-fill: %v", cand.TotalExperienceYears)
	}
}
