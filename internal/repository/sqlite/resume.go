package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/twinhire/server/pkg/models"
)

func (r *SQLiteRepo) CreateResume(ctx context.Context, rec *models.ResumeRecord) (string, error) {
	if rec == nil {
		return "", fmt.Errorf("resume is nil")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Created == 0 {
		rec.Created = now()
	}
	if rec.Status == "" {
		rec.Status = models.ResumeStatusPending
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO resumes
		(id, candidate_id, status, raw_text, personal_json, education_json, certifications_json, skill_names_json, total_experience_years, created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CandidateID, string(rec.Status), rec.RawText, rec.PersonalJSON, rec.EducationJSON, rec.CertificationsJSON, marshalStrings(rec.SkillNames), rec.TotalExperienceYears, rec.Created)
	if err != nil {
		return "", err
	}

	return rec.ID, nil
}

func (r *SQLiteRepo) LatestResumeByCandidate(ctx context.Context, candidateID string) (*models.ResumeRecord, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, candidate_id, status, raw_text, personal_json, education_json, certifications_json, skill_names_json, total_experience_years, created
		FROM resumes WHERE candidate_id = ? ORDER BY created DESC LIMIT 1`, candidateID)

	var rec models.ResumeRecord
	var status, skillNames string
	if err := row.Scan(&rec.ID, &rec.CandidateID, &status, &rec.RawText, &rec.PersonalJSON, &rec.EducationJSON, &rec.CertificationsJSON, &skillNames, &rec.TotalExperienceYears, &rec.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	rec.Status = models.ResumeStatus(status)
	rec.SkillNames = unmarshalStrings(skillNames)

	return &rec, nil
}

func (r *SQLiteRepo) SetResumeStatus(ctx context.Context, id string, status models.ResumeStatus) error {
	_, err := r.conn.Exec(ctx, `UPDATE resumes SET status = ? WHERE id = ?`, string(status), id)
	return err
}
