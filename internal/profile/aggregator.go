package profile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/twinhire/server/pkg/models"
	"github.com/twinhire/server/pkg/repository"
)

// EnrichedExperience is a work-history row decorated with achievements pooled
// from interview sessions held about the same organization.
type EnrichedExperience struct {
	models.WorkExperience
	EnrichedAchievements []string `json:"enriched_achievements"`
	HasInterviewData     bool     `json:"has_interview_data"`
}

// InterviewHighlight is the job-experience-style enrichment bucket.
type InterviewHighlight struct {
	SessionID    string                 `json:"session_id"`
	JobTitle     string                 `json:"job_title,omitempty"`
	Organization string                 `json:"organization,omitempty"`
	Achievements *models.AchievementSet `json:"achievements,omitempty"`
	Brief        *models.Brief          `json:"brief,omitempty"`
}

// WorkStyleView is the work-style insights bucket.
type WorkStyleView struct {
	SessionID string                   `json:"session_id"`
	Insights  models.WorkStyleInsights `json:"insights"`
	Brief     *models.Brief            `json:"brief,omitempty"`
}

// ConsolidatedView is the denormalized read model combining resume,
// experience, skill, and interview data for one candidate. It is an immutable
// snapshot; every Aggregate call re-reads the store.
type ConsolidatedView struct {
	Candidate            models.Candidate     `json:"candidate"`
	Resume               *models.ResumeRecord `json:"resume,omitempty"`
	Experiences          []EnrichedExperience `json:"experiences"`
	Skills               []SkillView          `json:"skills"`
	InterviewHighlights  []InterviewHighlight `json:"interview_highlights"`
	WorkStyleInsights    []WorkStyleView      `json:"work_style_insights"`
	AllAchievements      []string             `json:"all_achievements"`
	TotalExperienceYears float64              `json:"total_experience_years"`
	GeneratedAt          int64                `json:"generated_at"`
}

// Service aggregates a candidate's records into a consolidated view.
type Service struct {
	candidates  repository.CandidateRepo
	resumes     repository.ResumeRepo
	experiences repository.ExperienceRepo
	skills      repository.SkillRepo
	tools       repository.ToolRepo
	sessions    repository.SessionRepo
	logger      *slog.Logger
}

func NewService(
	candidates repository.CandidateRepo,
	resumes repository.ResumeRepo,
	experiences repository.ExperienceRepo,
	skills repository.SkillRepo,
	tools repository.ToolRepo,
	sessions repository.SessionRepo,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		candidates:  candidates,
		resumes:     resumes,
		experiences: experiences,
		skills:      skills,
		tools:       tools,
		sessions:    sessions,
		logger:      logger,
	}
}

// Aggregate builds the consolidated view for a candidate. Only an absent
// candidate is a hard error; any failing sub-fetch degrades to an empty
// collection so a partially populated profile still renders.
func (s *Service) Aggregate(ctx context.Context, candidateID string) (*ConsolidatedView, error) {
	cand, err := s.candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("get candidate: %w", err)
	}
	if cand == nil {
		return nil, models.ErrCandidateNotFound
	}

	resume, err := s.resumes.LatestResumeByCandidate(ctx, candidateID)
	if err != nil {
		s.logger.Warn("aggregate: latest resume fetch failed", "candidate_id", candidateID, "err", err)
		resume = nil
	}

	experiences, err := s.experiences.ListExperiencesByCandidate(ctx, candidateID)
	if err != nil {
		s.logger.Warn("aggregate: experiences fetch failed", "candidate_id", candidateID, "err", err)
		experiences = nil
	}

	skillRecords, err := s.skills.ListSkillsByCandidate(ctx, candidateID)
	if err != nil {
		s.logger.Warn("aggregate: skills fetch failed", "candidate_id", candidateID, "err", err)
		skillRecords = nil
	}

	toolRecords, err := s.tools.ListToolsByCandidate(ctx, candidateID)
	if err != nil {
		s.logger.Warn("aggregate: tools fetch failed", "candidate_id", candidateID, "err", err)
		toolRecords = nil
	}

	sessions, err := s.sessions.ListCompletedByCandidate(ctx, candidateID)
	if err != nil {
		s.logger.Warn("aggregate: sessions fetch failed", "candidate_id", candidateID, "err", err)
		sessions = nil
	}

	var resumeSkillNames []string
	if resume != nil {
		resumeSkillNames = resume.SkillNames
	}
	skillViews := Reconcile(skillRecords, toolRecords, resumeSkillNames)

	highlights, workStyles, pooled := partitionSessions(sessions)

	enriched := make([]EnrichedExperience, 0, len(experiences))
	for _, exp := range experiences {
		e := EnrichedExperience{WorkExperience: exp, EnrichedAchievements: []string{}}
		for _, sess := range sessions {
			if sess.Achievements == nil || sess.Organization == "" {
				continue
			}
			if !strings.EqualFold(strings.TrimSpace(sess.Organization), strings.TrimSpace(exp.Organization)) {
				continue
			}
			for _, a := range sess.Achievements.Achievements {
				e.EnrichedAchievements = append(e.EnrichedAchievements, a.Text)
			}
			e.HasInterviewData = true
		}
		enriched = append(enriched, e)
	}

	// totalExperienceYears comes straight from the resume parser's figure,
	// not from summing date ranges; the candidate row's stored figure is the
	// fallback when no resume exists.
	total := cand.TotalExperienceYears
	if resume != nil {
		total = resume.TotalExperienceYears
	}

	return &ConsolidatedView{
		Candidate:            *cand,
		Resume:               resume,
		Experiences:          enriched,
		Skills:               skillViews,
		InterviewHighlights:  highlights,
		WorkStyleInsights:    workStyles,
		AllAchievements:      pooled,
		TotalExperienceYears: total,
		GeneratedAt:          time.Now().UTC().UnixMilli(),
	}, nil
}

// partitionSessions splits completed sessions into the job-experience and
// work-style buckets and flattens every achievement into one pool.
func partitionSessions(sessions []models.InterviewSession) ([]InterviewHighlight, []WorkStyleView, []string) {
	highlights := []InterviewHighlight{}
	workStyles := []WorkStyleView{}
	pooled := []string{}

	for _, sess := range sessions {
		if sess.Category == models.CategoryWorkStyle && sess.Insights != nil {
			workStyles = append(workStyles, WorkStyleView{
				SessionID: sess.ID,
				Insights:  *sess.Insights,
				Brief:     sess.Brief,
			})
			continue
		}
		highlights = append(highlights, InterviewHighlight{
			SessionID:    sess.ID,
			JobTitle:     sess.JobTitle,
			Organization: sess.Organization,
			Achievements: sess.Achievements,
			Brief:        sess.Brief,
		})
		if sess.Achievements != nil {
			for _, a := range sess.Achievements.Achievements {
				pooled = append(pooled, a.Text)
			}
		}
	}

	return highlights, workStyles, pooled
}
