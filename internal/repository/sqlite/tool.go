package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/twinhire/server/pkg/models"
)

func (r *SQLiteRepo) CreateTool(ctx context.Context, t *models.ToolRecord) (string, error) {
	if t == nil {
		return "", fmt.Errorf("tool is nil")
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Created == 0 {
		t.Created = now()
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO tools
		(id, candidate_id, experience_id, name, category, years_of_exp, last_used, provenance, created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.CandidateID, t.ExperienceID, t.Name, t.Category, t.YearsOfExp, t.LastUsed, string(t.Provenance), t.Created)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return "", models.ErrDuplicateSkill
		}

		return "", err
	}

	return t.ID, nil
}

func (r *SQLiteRepo) ListToolsByCandidate(ctx context.Context, candidateID string) ([]models.ToolRecord, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, candidate_id, experience_id, name, category, years_of_exp, last_used, provenance, created
		FROM tools WHERE candidate_id = ? ORDER BY years_of_exp DESC, created ASC`, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ToolRecord
	for rows.Next() {
		var t models.ToolRecord
		var expID, lastUsed sql.NullString
		var provenance string
		if err := rows.Scan(&t.ID, &t.CandidateID, &expID, &t.Name, &t.Category, &t.YearsOfExp, &lastUsed, &provenance, &t.Created); err != nil {
			return nil, err
		}

		if expID.Valid {
			v := expID.String
			t.ExperienceID = &v
		}
		if lastUsed.Valid {
			v := lastUsed.String
			t.LastUsed = &v
		}
		t.Provenance = models.Provenance(provenance)
		out = append(out, t)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) DeleteToolsByProvenance(ctx context.Context, candidateID string, p models.Provenance) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM tools WHERE candidate_id = ? AND provenance = ?`, candidateID, string(p))
	return err
}
