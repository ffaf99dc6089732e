package resume

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/twinhire/server/pkg/models"
	"github.com/twinhire/server/pkg/repository"
)

// ParsedResume is the structured output of the external resume parser. The
// parser itself is a separate vendor service; this package only applies its
// output to the store.
type ParsedResume struct {
	Personal             ParsedPersonal     `json:"personal"`
	Experiences          []ParsedExperience `json:"experiences"`
	Skills               []ParsedSkill      `json:"skills"`
	Tools                []ParsedSkill      `json:"tools"`
	SkillNames           []string           `json:"skill_names"`
	TotalExperienceYears float64            `json:"total_experience_years"`
	Education            json.RawMessage    `json:"education,omitempty"`
	Certifications       json.RawMessage    `json:"certifications,omitempty"`
	RawText              string             `json:"raw_text,omitempty"`
}

type ParsedPersonal struct {
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	Location       string `json:"location,omitempty"`
	Country        string `json:"country,omitempty"`
	JobTitle       string `json:"job_title,omitempty"`
	CurrentCompany string `json:"current_company,omitempty"`
	Summary        string `json:"summary,omitempty"`
}

type ParsedExperience struct {
	Title        string   `json:"title"`
	Organization string   `json:"organization"`
	StartDate    string   `json:"start_date"`
	EndDate      *string  `json:"end_date,omitempty"`
	Location     string   `json:"location,omitempty"`
	Description  string   `json:"description,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
	SkillNames   []string `json:"skill_names,omitempty"`
}

type ParsedSkill struct {
	Name       string  `json:"name"`
	Category   string  `json:"category,omitempty"`
	YearsOfExp float64 `json:"years_of_exp"`
	LastUsed   *string `json:"last_used,omitempty"`
}

// Service applies parsed resumes to the store.
type Service struct {
	candidates  repository.CandidateRepo
	resumes     repository.ResumeRepo
	experiences repository.ExperienceRepo
	skills      repository.SkillRepo
	tools       repository.ToolRepo
	logger      *slog.Logger
}

func NewService(
	candidates repository.CandidateRepo,
	resumes repository.ResumeRepo,
	experiences repository.ExperienceRepo,
	skills repository.SkillRepo,
	tools repository.ToolRepo,
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
		logger:      logger,
	}
}

// Apply stores a parsed resume for a candidate. All prior resume_parsed rows
// are removed and replaced; manually entered and autocompleted rows survive
// unchanged. Empty candidate profile fields are back-filled from the parsed
// personal section, but fields the candidate already filled are never
// overwritten.
func (s *Service) Apply(ctx context.Context, candidateID string, parsed *ParsedResume) (*models.ResumeRecord, error) {
	if candidateID == "" || parsed == nil {
		return nil, models.ErrInvalidPayload
	}

	cand, err := s.candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("get candidate: %w", err)
	}
	if cand == nil {
		return nil, models.ErrCandidateNotFound
	}

	now := time.Now().UTC().UnixMilli()

	rec := &models.ResumeRecord{
		CandidateID:          candidateID,
		Status:               models.ResumeStatusCompleted,
		RawText:              parsed.RawText,
		SkillNames:           skillNamesFor(parsed),
		TotalExperienceYears: parsed.TotalExperienceYears,
		Created:              now,
	}
	if p, err := json.Marshal(parsed.Personal); err == nil {
		rec.PersonalJSON = string(p)
	}
	if len(parsed.Education) > 0 {
		rec.EducationJSON = string(parsed.Education)
	}
	if len(parsed.Certifications) > 0 {
		rec.CertificationsJSON = string(parsed.Certifications)
	}

	if _, err := s.resumes.CreateResume(ctx, rec); err != nil {
		return nil, fmt.Errorf("create resume: %w", err)
	}

	if err := s.replaceParsedRows(ctx, candidateID, parsed, now); err != nil {
		rec.Status = models.ResumeStatusFailed
		if serr := s.resumes.SetResumeStatus(ctx, rec.ID, models.ResumeStatusFailed); serr != nil {
			s.logger.Error("mark resume failed", "resume_id", rec.ID, "err", serr)
		}
		return nil, err
	}

	if err := s.backfillCandidate(ctx, cand, parsed); err != nil {
		// profile back-fill is a convenience, not part of the contract
		s.logger.Warn("candidate back-fill failed", "candidate_id", candidateID, "err", err)
	}

	return rec, nil
}

// replaceParsedRows deletes every resume_parsed row for the candidate and
// recreates it from the new parse.
func (s *Service) replaceParsedRows(ctx context.Context, candidateID string, parsed *ParsedResume, now int64) error {
	if err := s.experiences.DeleteExperiencesByProvenance(ctx, candidateID, models.ProvenanceResumeParsed); err != nil {
		return fmt.Errorf("delete parsed experiences: %w", err)
	}
	if err := s.skills.DeleteSkillsByProvenance(ctx, candidateID, models.ProvenanceResumeParsed); err != nil {
		return fmt.Errorf("delete parsed skills: %w", err)
	}
	if err := s.tools.DeleteToolsByProvenance(ctx, candidateID, models.ProvenanceResumeParsed); err != nil {
		return fmt.Errorf("delete parsed tools: %w", err)
	}

	for _, pe := range parsed.Experiences {
		if strings.TrimSpace(pe.Title) == "" && strings.TrimSpace(pe.Organization) == "" {
			continue
		}
		exp := &models.WorkExperience{
			CandidateID:  candidateID,
			Title:        pe.Title,
			Organization: pe.Organization,
			StartDate:    pe.StartDate,
			EndDate:      pe.EndDate,
			Location:     pe.Location,
			Description:  pe.Description,
			Achievements: pe.Achievements,
			SkillNames:   pe.SkillNames,
			Provenance:   models.ProvenanceResumeParsed,
			Created:      now,
		}
		if _, err := s.experiences.CreateExperience(ctx, exp); err != nil {
			return fmt.Errorf("create experience: %w", err)
		}
	}

	for _, ps := range parsed.Skills {
		if strings.TrimSpace(ps.Name) == "" {
			continue
		}
		skill := &models.SkillRecord{
			CandidateID: candidateID,
			Name:        ps.Name,
			Category:    ps.Category,
			YearsOfExp:  ps.YearsOfExp,
			LastUsed:    ps.LastUsed,
			Provenance:  models.ProvenanceResumeParsed,
			Created:     now,
		}
		if _, err := s.skills.CreateSkill(ctx, skill); err != nil {
			if err == models.ErrDuplicateSkill {
				// a manual row with this name survives and wins
				continue
			}
			return fmt.Errorf("create skill: %w", err)
		}
	}

	for _, pt := range parsed.Tools {
		if strings.TrimSpace(pt.Name) == "" {
			continue
		}
		tool := &models.ToolRecord{
			CandidateID: candidateID,
			Name:        pt.Name,
			Category:    pt.Category,
			YearsOfExp:  pt.YearsOfExp,
			LastUsed:    pt.LastUsed,
			Provenance:  models.ProvenanceResumeParsed,
			Created:     now,
		}
		if _, err := s.tools.CreateTool(ctx, tool); err != nil {
			return fmt.Errorf("create tool: %w", err)
		}
	}

	return nil
}

func (s *Service) backfillCandidate(ctx context.Context, cand *models.Candidate, parsed *ParsedResume) error {
	p := parsed.Personal
	changed := false

	set := func(dst *string, v string) {
		if *dst == "" && v != "" {
			*dst = v
			changed = true
		}
	}
	set(&cand.FullName, p.FullName)
	set(&cand.Email, p.Email)
	set(&cand.Phone, p.Phone)
	set(&cand.Location, p.Location)
	set(&cand.Country, p.Country)
	set(&cand.JobTitle, p.JobTitle)
	set(&cand.CurrentCompany, p.CurrentCompany)
	set(&cand.ProfessionalSummary, p.Summary)

	if cand.TotalExperienceYears == 0 && parsed.TotalExperienceYears > 0 {
		cand.TotalExperienceYears = parsed.TotalExperienceYears
		changed = true
	}

	if !changed {
		return nil
	}
	cand.Updated = time.Now().UTC().UnixMilli()
	return s.candidates.UpdateCandidate(ctx, cand)
}

// skillNamesFor flattens the parse into the plain name list stored on the
// resume record; explicit skill_names win, otherwise the structured skills
// supply them.
func skillNamesFor(parsed *ParsedResume) []string {
	if len(parsed.SkillNames) > 0 {
		return parsed.SkillNames
	}
	names := make([]string, 0, len(parsed.Skills))
	for _, sk := range parsed.Skills {
		if strings.TrimSpace(sk.Name) != "" {
			names = append(names, sk.Name)
		}
	}
	return names
}
