package models

import (
	"encoding/json"
	"errors"
)

// Domain models matching the database schema in db/migrations/0001_init.sql

// Provenance records where a row originated. It governs overwrite and delete
// rules on resume re-upload: resume_parsed rows are replaced wholesale, the
// other two survive.
type Provenance string

const (
	ProvenanceResumeParsed Provenance = "resume_parsed"
	ProvenanceManual       Provenance = "manual"
	ProvenanceAutocomplete Provenance = "autocomplete"
)

type ResumeStatus string

const (
	ResumeStatusPending   ResumeStatus = "pending"
	ResumeStatusCompleted ResumeStatus = "completed"
	ResumeStatusFailed    ResumeStatus = "failed"
)

type InterviewCategory string

const (
	CategoryJobExperience InterviewCategory = "job_experience"
	CategoryWorkStyle     InterviewCategory = "work_style"
	CategoryGeneral       InterviewCategory = "general"
)

type Speaker string

const (
	SpeakerAI        Speaker = "ai"
	SpeakerCandidate Speaker = "candidate"
)

// AchievementCategory is the fixed tag set for extracted achievements.
type AchievementCategory string

const (
	AchievementTechnical          AchievementCategory = "technical"
	AchievementLeadership         AchievementCategory = "leadership"
	AchievementProcessImprovement AchievementCategory = "process_improvement"
	AchievementBusinessImpact     AchievementCategory = "business_impact"
	AchievementCollaboration      AchievementCategory = "collaboration"
)

var (
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrSessionNotFound   = errors.New("interview session not found")
	ErrAlreadyFinalized  = errors.New("interview session already finalized")
	ErrDuplicateSkill    = errors.New("skill already exists for candidate")
	ErrInvalidPayload    = errors.New("invalid payload")
)

type Candidate struct {
	ID                   string  `json:"id" db:"id"`
	FullName             string  `json:"full_name" db:"full_name"`
	Email                string  `json:"email" db:"email"`
	Phone                string  `json:"phone,omitempty" db:"phone"`
	Location             string  `json:"location,omitempty" db:"location"`
	Country              string  `json:"country,omitempty" db:"country"`
	JobTitle             string  `json:"job_title,omitempty" db:"job_title"`
	CurrentCompany       string  `json:"current_company,omitempty" db:"current_company"`
	ProfessionalSummary  string  `json:"professional_summary,omitempty" db:"professional_summary"`
	TotalExperienceYears float64 `json:"total_experience_years" db:"total_experience_years"`
	Created              int64   `json:"created" db:"created"`
	Updated              int64   `json:"updated" db:"updated"`
}

// ResumeRecord holds the structured output of the external resume parser for
// one uploaded file. Immutable after parsing completes except for Status.
type ResumeRecord struct {
	ID                   string       `json:"id" db:"id"`
	CandidateID          string       `json:"candidate_id" db:"candidate_id"`
	Status               ResumeStatus `json:"status" db:"status"`
	RawText              string       `json:"raw_text,omitempty" db:"raw_text"`
	PersonalJSON         string       `json:"personal_json,omitempty" db:"personal_json"`
	EducationJSON        string       `json:"education_json,omitempty" db:"education_json"`
	CertificationsJSON   string       `json:"certifications_json,omitempty" db:"certifications_json"`
	SkillNames           []string     `json:"skill_names" db:"-"`
	TotalExperienceYears float64      `json:"total_experience_years" db:"total_experience_years"`
	Created              int64        `json:"created" db:"created"`
}

type WorkExperience struct {
	ID           string     `json:"id" db:"id"`
	CandidateID  string     `json:"candidate_id" db:"candidate_id"`
	Title        string     `json:"title" db:"title"`
	Organization string     `json:"organization" db:"organization"`
	StartDate    string     `json:"start_date" db:"start_date"`
	EndDate      *string    `json:"end_date,omitempty" db:"end_date"` // nil means current role
	Location     string     `json:"location,omitempty" db:"location"`
	Description  string     `json:"description,omitempty" db:"description"`
	Achievements []string   `json:"achievements" db:"-"`
	SkillNames   []string   `json:"skill_names" db:"-"`
	Provenance   Provenance `json:"provenance" db:"provenance"`
	Created      int64      `json:"created" db:"created"`
}

func (e *WorkExperience) IsCurrent() bool { return e.EndDate == nil }

// SkillRecord and ToolRecord share a shape; they stay separate tables because
// they are independent authoritative sources during reconciliation.
type SkillRecord struct {
	ID           string     `json:"id" db:"id"`
	CandidateID  string     `json:"candidate_id" db:"candidate_id"`
	ExperienceID *string    `json:"experience_id,omitempty" db:"experience_id"`
	Name         string     `json:"name" db:"name"`
	Category     string     `json:"category,omitempty" db:"category"`
	YearsOfExp   float64    `json:"years_of_exp" db:"years_of_exp"`
	LastUsed     *string    `json:"last_used,omitempty" db:"last_used"`
	Provenance   Provenance `json:"provenance" db:"provenance"`
	Created      int64      `json:"created" db:"created"`
}

type ToolRecord struct {
	ID           string     `json:"id" db:"id"`
	CandidateID  string     `json:"candidate_id" db:"candidate_id"`
	ExperienceID *string    `json:"experience_id,omitempty" db:"experience_id"`
	Name         string     `json:"name" db:"name"`
	Category     string     `json:"category,omitempty" db:"category"`
	YearsOfExp   float64    `json:"years_of_exp" db:"years_of_exp"`
	LastUsed     *string    `json:"last_used,omitempty" db:"last_used"`
	Provenance   Provenance `json:"provenance" db:"provenance"`
	Created      int64      `json:"created" db:"created"`
}

type TranscriptEntry struct {
	Speaker   Speaker `json:"speaker"`
	Text      string  `json:"text"`
	Timestamp int64   `json:"timestamp"` // unix ms
}

type Achievement struct {
	Text     string              `json:"text"`
	Category AchievementCategory `json:"category"`
}

type AchievementSummary struct {
	TotalAchievements  int      `json:"total_achievements"`
	DominantCategories []string `json:"dominant_categories"`
}

// AchievementSet is the derived payload of a job-experience interview.
type AchievementSet struct {
	Achievements []Achievement      `json:"achievements"`
	Summary      AchievementSummary `json:"summary"`
}

// EmptyAchievementSet is the deterministic fallback when extraction yields
// nothing or the model response is unusable.
func EmptyAchievementSet() *AchievementSet {
	return &AchievementSet{
		Achievements: []Achievement{},
		Summary:      AchievementSummary{TotalAchievements: 0, DominantCategories: []string{}},
	}
}

// WorkStyleInsights is the derived payload of a work_style interview.
type WorkStyleInsights struct {
	WorkStyle        string   `json:"work_style"`
	CareerGoals      string   `json:"career_goals"`
	Strengths        []string `json:"strengths"`
	Motivations      string   `json:"motivations"`
	InsufficientData bool     `json:"insufficient_data,omitempty"`
}

// Brief is a short narrative interview summary. Error marks a placeholder
// produced after an upstream failure.
type Brief struct {
	Text  string `json:"text"`
	Error bool   `json:"error,omitempty"`
}

type InterviewSession struct {
	ID              string             `json:"id" db:"id"`
	CandidateID     string             `json:"candidate_id" db:"candidate_id"`
	ExperienceID    *string            `json:"experience_id,omitempty" db:"experience_id"`
	JobTitle        string             `json:"job_title,omitempty" db:"job_title"`
	Organization    string             `json:"organization,omitempty" db:"organization"`
	StatedDuration  string             `json:"stated_duration,omitempty" db:"stated_duration"`
	Category        InterviewCategory  `json:"category" db:"category"`
	StartedAt       int64              `json:"started_at" db:"started_at"`
	EndedAt         *int64             `json:"ended_at,omitempty" db:"ended_at"`
	DurationSeconds int64              `json:"duration_seconds" db:"duration_seconds"`
	Transcript      []TranscriptEntry  `json:"transcript" db:"-"`
	Achievements    *AchievementSet    `json:"achievements,omitempty" db:"-"`
	Insights        *WorkStyleInsights `json:"insights,omitempty" db:"-"`
	Brief           *Brief             `json:"brief,omitempty" db:"-"`
	AudioFileURL    *string            `json:"audio_file_url,omitempty" db:"audio_file_url"`
	QuestionsAsked  int                `json:"questions_asked" db:"questions_asked"`
	Created         int64              `json:"created" db:"created"`
}

// TranscriptMessage pairs one AI prompt with the candidate reply plus an
// optional emotion payload. Derived once at completion, never mutated.
type TranscriptMessage struct {
	ID          string          `json:"id" db:"id"`
	SessionID   string          `json:"session_id" db:"session_id"`
	Question    string          `json:"question" db:"question"`
	Answer      string          `json:"answer" db:"answer"`
	EmotionJSON json.RawMessage `json:"emotion,omitempty" db:"emotion_json"`
	AnsweredAt  int64           `json:"answered_at" db:"answered_at"`
	Created     int64           `json:"created" db:"created"`
}

// SessionFinalization carries the terminal state written back onto a session
// row in one update by the completion processor.
type SessionFinalization struct {
	SessionID       string
	EndedAt         int64
	DurationSeconds int64
	Transcript      []TranscriptEntry
	Achievements    *AchievementSet
	Insights        *WorkStyleInsights
	Brief           *Brief
	AudioFileURL    *string
	QuestionsAsked  int
}
