package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/twinhire/server/pkg/models"
)

func (r *SQLiteRepo) CreateSkill(ctx context.Context, s *models.SkillRecord) (string, error) {
	if s == nil {
		return "", fmt.Errorf("skill is nil")
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Created == 0 {
		s.Created = now()
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO skills
		(id, candidate_id, experience_id, name, category, years_of_exp, last_used, provenance, created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.CandidateID, s.ExperienceID, s.Name, s.Category, s.YearsOfExp, s.LastUsed, string(s.Provenance), s.Created)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return "", models.ErrDuplicateSkill
		}

		return "", err
	}

	return s.ID, nil
}

func (r *SQLiteRepo) ListSkillsByCandidate(ctx context.Context, candidateID string) ([]models.SkillRecord, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, candidate_id, experience_id, name, category, years_of_exp, last_used, provenance, created
		FROM skills WHERE candidate_id = ? ORDER BY years_of_exp DESC, created ASC`, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SkillRecord
	for rows.Next() {
		var s models.SkillRecord
		var expID, lastUsed sql.NullString
		var provenance string
		if err := rows.Scan(&s.ID, &s.CandidateID, &expID, &s.Name, &s.Category, &s.YearsOfExp, &lastUsed, &provenance, &s.Created); err != nil {
			return nil, err
		}

		if expID.Valid {
			v := expID.String
			s.ExperienceID = &v
		}
		if lastUsed.Valid {
			v := lastUsed.String
			s.LastUsed = &v
		}
		s.Provenance = models.Provenance(provenance)
		out = append(out, s)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) DeleteSkillsByProvenance(ctx context.Context, candidateID string, p models.Provenance) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM skills WHERE candidate_id = ? AND provenance = ?`, candidateID, string(p))
	return err
}
