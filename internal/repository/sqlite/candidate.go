package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/twinhire/server/pkg/models"
)

func (r *SQLiteRepo) CreateCandidate(ctx context.Context, c *models.Candidate) (string, error) {
	if c == nil {
		return "", fmt.Errorf("candidate is nil")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	ts := now()
	c.Created, c.Updated = ts, ts

	_, err := r.conn.Exec(ctx, `INSERT INTO candidates
		(id, full_name, email, phone, location, country, job_title, current_company, professional_summary, total_experience_years, created, updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.FullName, c.Email, c.Phone, c.Location, c.Country, c.JobTitle, c.CurrentCompany, c.ProfessionalSummary, c.TotalExperienceYears, c.Created, c.Updated)
	if err != nil {
		return "", err
	}

	return c.ID, nil
}

func (r *SQLiteRepo) GetCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, full_name, email, phone, location, country, job_title, current_company, professional_summary, total_experience_years, created, updated
		FROM candidates WHERE id = ?`, id)

	var c models.Candidate
	if err := row.Scan(&c.ID, &c.FullName, &c.Email, &c.Phone, &c.Location, &c.Country, &c.JobTitle, &c.CurrentCompany, &c.ProfessionalSummary, &c.TotalExperienceYears, &c.Created, &c.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &c, nil
}

func (r *SQLiteRepo) UpdateCandidate(ctx context.Context, c *models.Candidate) error {
	if c == nil {
		return fmt.Errorf("candidate is nil")
	}

	_, err := r.conn.Exec(ctx, `UPDATE candidates SET full_name = ?, email = ?, phone = ?, location = ?, country = ?, job_title = ?, current_company = ?, professional_summary = ?, total_experience_years = ?, updated = ?
		WHERE id = ?`,
		c.FullName, c.Email, c.Phone, c.Location, c.Country, c.JobTitle, c.CurrentCompany, c.ProfessionalSummary, c.TotalExperienceYears, now(), c.ID)
	return err
}

func (r *SQLiteRepo) DeleteCandidate(ctx context.Context, id string) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM candidates WHERE id = ?`, id)
	return err
}
