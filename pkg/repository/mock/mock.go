package mock

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/twinhire/server/pkg/models"
)

// In-memory repositories for tests. Each repo exposes its backing slice and an
// error knob so tests can simulate store failures.
type Mocks struct {
	Candidates  *CandidateRepo
	Resumes     *ResumeRepo
	Experiences *ExperienceRepo
	Skills      *SkillRepo
	Tools       *ToolRepo
	Sessions    *SessionRepo
	Messages    *MessageRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		Candidates:  &CandidateRepo{},
		Resumes:     &ResumeRepo{},
		Experiences: &ExperienceRepo{},
		Skills:      &SkillRepo{},
		Tools:       &ToolRepo{},
		Sessions:    &SessionRepo{},
		Messages:    &MessageRepo{},
	}
}

type CandidateRepo struct {
	Stored []models.Candidate
	Err    error
}

func (m *CandidateRepo) CreateCandidate(ctx context.Context, c *models.Candidate) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	m.Stored = append(m.Stored, *c)
	return c.ID, nil
}

func (m *CandidateRepo) GetCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Stored {
		if m.Stored[i].ID == id {
			c := m.Stored[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (m *CandidateRepo) UpdateCandidate(ctx context.Context, c *models.Candidate) error {
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Stored {
		if m.Stored[i].ID == c.ID {
			m.Stored[i] = *c
			return nil
		}
	}
	return models.ErrCandidateNotFound
}

func (m *CandidateRepo) DeleteCandidate(ctx context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Stored {
		if m.Stored[i].ID == id {
			m.Stored = append(m.Stored[:i], m.Stored[i+1:]...)
			return nil
		}
	}
	return nil
}

type ResumeRepo struct {
	Stored []models.ResumeRecord
	Err    error
}

func (m *ResumeRepo) CreateResume(ctx context.Context, rec *models.ResumeRecord) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	m.Stored = append(m.Stored, *rec)
	return rec.ID, nil
}

func (m *ResumeRepo) LatestResumeByCandidate(ctx context.Context, candidateID string) (*models.ResumeRecord, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var latest *models.ResumeRecord
	for i := range m.Stored {
		if m.Stored[i].CandidateID != candidateID {
			continue
		}
		if latest == nil || m.Stored[i].Created >= latest.Created {
			rec := m.Stored[i]
			latest = &rec
		}
	}
	return latest, nil
}

func (m *ResumeRepo) SetResumeStatus(ctx context.Context, id string, status models.ResumeStatus) error {
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Stored {
		if m.Stored[i].ID == id {
			m.Stored[i].Status = status
			return nil
		}
	}
	return nil
}

type ExperienceRepo struct {
	Stored []models.WorkExperience
	Err    error
}

func (m *ExperienceRepo) CreateExperience(ctx context.Context, e *models.WorkExperience) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	m.Stored = append(m.Stored, *e)
	return e.ID, nil
}

func (m *ExperienceRepo) ListExperiencesByCandidate(ctx context.Context, candidateID string) ([]models.WorkExperience, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.WorkExperience
	for i := range m.Stored {
		if m.Stored[i].CandidateID == candidateID {
			out = append(out, m.Stored[i])
		}
	}
	return out, nil
}

func (m *ExperienceRepo) DeleteExperiencesByProvenance(ctx context.Context, candidateID string, p models.Provenance) error {
	if m.Err != nil {
		return m.Err
	}
	kept := m.Stored[:0]
	for i := range m.Stored {
		if m.Stored[i].CandidateID == candidateID && m.Stored[i].Provenance == p {
			continue
		}
		kept = append(kept, m.Stored[i])
	}
	m.Stored = kept
	return nil
}

type SkillRepo struct {
	Stored []models.SkillRecord
	Err    error
}

func (m *SkillRepo) CreateSkill(ctx context.Context, s *models.SkillRecord) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	for i := range m.Stored {
		if m.Stored[i].CandidateID == s.CandidateID && strings.EqualFold(m.Stored[i].Name, s.Name) {
			return "", models.ErrDuplicateSkill
		}
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	m.Stored = append(m.Stored, *s)
	return s.ID, nil
}

func (m *SkillRepo) ListSkillsByCandidate(ctx context.Context, candidateID string) ([]models.SkillRecord, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.SkillRecord
	for i := range m.Stored {
		if m.Stored[i].CandidateID == candidateID {
			out = append(out, m.Stored[i])
		}
	}
	return out, nil
}

func (m *SkillRepo) DeleteSkillsByProvenance(ctx context.Context, candidateID string, p models.Provenance) error {
	if m.Err != nil {
		return m.Err
	}
	kept := m.Stored[:0]
	for i := range m.Stored {
		if m.Stored[i].CandidateID == candidateID && m.Stored[i].Provenance == p {
			continue
		}
		kept = append(kept, m.Stored[i])
	}
	m.Stored = kept
	return nil
}

type ToolRepo struct {
	Stored []models.ToolRecord
	Err    error
}

func (m *ToolRepo) CreateTool(ctx context.Context, t *models.ToolRecord) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	m.Stored = append(m.Stored, *t)
	return t.ID, nil
}

func (m *ToolRepo) ListToolsByCandidate(ctx context.Context, candidateID string) ([]models.ToolRecord, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.ToolRecord
	for i := range m.Stored {
		if m.Stored[i].CandidateID == candidateID {
			out = append(out, m.Stored[i])
		}
	}
	return out, nil
}

func (m *ToolRepo) DeleteToolsByProvenance(ctx context.Context, candidateID string, p models.Provenance) error {
	if m.Err != nil {
		return m.Err
	}
	kept := m.Stored[:0]
	for i := range m.Stored {
		if m.Stored[i].CandidateID == candidateID && m.Stored[i].Provenance == p {
			continue
		}
		kept = append(kept, m.Stored[i])
	}
	m.Stored = kept
	return nil
}

type SessionRepo struct {
	Stored []models.InterviewSession
	Err    error
}

func (m *SessionRepo) CreateSession(ctx context.Context, s *models.InterviewSession) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	m.Stored = append(m.Stored, *s)
	return s.ID, nil
}

func (m *SessionRepo) GetSession(ctx context.Context, id string) (*models.InterviewSession, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Stored {
		if m.Stored[i].ID == id {
			s := m.Stored[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (m *SessionRepo) ListCompletedByCandidate(ctx context.Context, candidateID string) ([]models.InterviewSession, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.InterviewSession
	for i := range m.Stored {
		s := m.Stored[i]
		if s.CandidateID != candidateID || s.EndedAt == nil {
			continue
		}
		if s.Achievements == nil && s.Insights == nil {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *SessionRepo) FinalizeSession(ctx context.Context, f *models.SessionFinalization) error {
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Stored {
		if m.Stored[i].ID != f.SessionID {
			continue
		}
		if m.Stored[i].EndedAt != nil {
			return models.ErrAlreadyFinalized
		}
		m.Stored[i].EndedAt = &f.EndedAt
		m.Stored[i].DurationSeconds = f.DurationSeconds
		m.Stored[i].Transcript = f.Transcript
		m.Stored[i].Achievements = f.Achievements
		m.Stored[i].Insights = f.Insights
		m.Stored[i].Brief = f.Brief
		m.Stored[i].AudioFileURL = f.AudioFileURL
		m.Stored[i].QuestionsAsked = f.QuestionsAsked
		return nil
	}
	return models.ErrSessionNotFound
}

type MessageRepo struct {
	Stored []models.TranscriptMessage
	Err    error
}

func (m *MessageRepo) CreateMessages(ctx context.Context, msgs []models.TranscriptMessage) error {
	if m.Err != nil {
		return m.Err
	}
	for _, msg := range msgs {
		if msg.ID == "" {
			msg.ID = uuid.NewString()
		}
		m.Stored = append(m.Stored, msg)
	}
	return nil
}

func (m *MessageRepo) ListMessagesBySession(ctx context.Context, sessionID string) ([]models.TranscriptMessage, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.TranscriptMessage
	for i := range m.Stored {
		if m.Stored[i].SessionID == sessionID {
			out = append(out, m.Stored[i])
		}
	}
	return out, nil
}
