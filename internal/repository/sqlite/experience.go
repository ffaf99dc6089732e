package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/twinhire/server/pkg/models"
)

func (r *SQLiteRepo) CreateExperience(ctx context.Context, e *models.WorkExperience) (string, error) {
	if e == nil {
		return "", fmt.Errorf("experience is nil")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Created == 0 {
		e.Created = now()
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO experiences
		(id, candidate_id, title, organization, start_date, end_date, location, description, achievements_json, skill_names_json, provenance, created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.CandidateID, e.Title, e.Organization, e.StartDate, e.EndDate, e.Location, e.Description, marshalStrings(e.Achievements), marshalStrings(e.SkillNames), string(e.Provenance), e.Created)
	if err != nil {
		return "", err
	}

	return e.ID, nil
}

func (r *SQLiteRepo) ListExperiencesByCandidate(ctx context.Context, candidateID string) ([]models.WorkExperience, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, candidate_id, title, organization, start_date, end_date, location, description, achievements_json, skill_names_json, provenance, created
		FROM experiences WHERE candidate_id = ? ORDER BY start_date DESC`, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WorkExperience
	for rows.Next() {
		var e models.WorkExperience
		var endDate sql.NullString
		var achievements, skillNames, provenance string
		if err := rows.Scan(&e.ID, &e.CandidateID, &e.Title, &e.Organization, &e.StartDate, &endDate, &e.Location, &e.Description, &achievements, &skillNames, &provenance, &e.Created); err != nil {
			return nil, err
		}

		if endDate.Valid {
			v := endDate.String
			e.EndDate = &v
		}
		e.Achievements = unmarshalStrings(achievements)
		e.SkillNames = unmarshalStrings(skillNames)
		e.Provenance = models.Provenance(provenance)
		out = append(out, e)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) DeleteExperiencesByProvenance(ctx context.Context, candidateID string, p models.Provenance) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM experiences WHERE candidate_id = ? AND provenance = ?`, candidateID, string(p))
	return err
}
