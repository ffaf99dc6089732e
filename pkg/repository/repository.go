package repository

import (
	"context"

	"github.com/twinhire/server/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
// Get* methods return (nil, nil) when the row does not exist.

type CandidateRepo interface {
	CreateCandidate(ctx context.Context, c *models.Candidate) (string, error)
	GetCandidate(ctx context.Context, id string) (*models.Candidate, error)
	UpdateCandidate(ctx context.Context, c *models.Candidate) error
	DeleteCandidate(ctx context.Context, id string) error
}

type ResumeRepo interface {
	CreateResume(ctx context.Context, rec *models.ResumeRecord) (string, error)
	LatestResumeByCandidate(ctx context.Context, candidateID string) (*models.ResumeRecord, error)
	SetResumeStatus(ctx context.Context, id string, status models.ResumeStatus) error
}

type ExperienceRepo interface {
	CreateExperience(ctx context.Context, e *models.WorkExperience) (string, error)
	// ListExperiencesByCandidate returns rows ordered by start date descending.
	ListExperiencesByCandidate(ctx context.Context, candidateID string) ([]models.WorkExperience, error)
	DeleteExperiencesByProvenance(ctx context.Context, candidateID string, p models.Provenance) error
}

type SkillRepo interface {
	// CreateSkill returns models.ErrDuplicateSkill when (candidate, name)
	// already exists.
	CreateSkill(ctx context.Context, s *models.SkillRecord) (string, error)
	ListSkillsByCandidate(ctx context.Context, candidateID string) ([]models.SkillRecord, error)
	DeleteSkillsByProvenance(ctx context.Context, candidateID string, p models.Provenance) error
}

type ToolRepo interface {
	CreateTool(ctx context.Context, t *models.ToolRecord) (string, error)
	ListToolsByCandidate(ctx context.Context, candidateID string) ([]models.ToolRecord, error)
	DeleteToolsByProvenance(ctx context.Context, candidateID string, p models.Provenance) error
}

type SessionRepo interface {
	CreateSession(ctx context.Context, s *models.InterviewSession) (string, error)
	GetSession(ctx context.Context, id string) (*models.InterviewSession, error)
	// ListCompletedByCandidate returns finalized sessions that carry a
	// non-null achievement or insight payload.
	ListCompletedByCandidate(ctx context.Context, candidateID string) ([]models.InterviewSession, error)
	// FinalizeSession writes the terminal state in a single update guarded by
	// ended_at IS NULL. Returns models.ErrAlreadyFinalized when the session
	// has already been completed and models.ErrSessionNotFound when absent.
	FinalizeSession(ctx context.Context, f *models.SessionFinalization) error
}

type MessageRepo interface {
	CreateMessages(ctx context.Context, msgs []models.TranscriptMessage) error
	ListMessagesBySession(ctx context.Context, sessionID string) ([]models.TranscriptMessage, error)
}
