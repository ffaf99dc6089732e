package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/twinhire/server/pkg/models"
)

func (r *SQLiteRepo) CreateSession(ctx context.Context, s *models.InterviewSession) (string, error) {
	if s == nil {
		return "", fmt.Errorf("session is nil")
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Created == 0 {
		s.Created = now()
	}
	if s.StartedAt == 0 {
		s.StartedAt = s.Created
	}
	if s.Category == "" {
		s.Category = models.CategoryGeneral
	}

	transcript, err := json.Marshal(orEmptyTranscript(s.Transcript))
	if err != nil {
		return "", fmt.Errorf("marshal transcript: %w", err)
	}

	_, err = r.conn.Exec(ctx, `INSERT INTO interview_sessions
		(id, candidate_id, experience_id, job_title, organization, stated_duration, category, started_at, duration_seconds, transcript_json, questions_asked, created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.CandidateID, s.ExperienceID, s.JobTitle, s.Organization, s.StatedDuration, string(s.Category), s.StartedAt, s.DurationSeconds, string(transcript), s.QuestionsAsked, s.Created)
	if err != nil {
		return "", err
	}

	return s.ID, nil
}

const sessionColumns = `id, candidate_id, experience_id, job_title, organization, stated_duration, category, started_at, ended_at, duration_seconds, transcript_json, achievements_json, insights_json, brief_json, audio_file_url, questions_asked, created`

func (r *SQLiteRepo) GetSession(ctx context.Context, id string) (*models.InterviewSession, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+sessionColumns+` FROM interview_sessions WHERE id = ?`, id)

	s, err := scanSession(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return s, nil
}

func (r *SQLiteRepo) ListCompletedByCandidate(ctx context.Context, candidateID string) ([]models.InterviewSession, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+sessionColumns+` FROM interview_sessions
		WHERE candidate_id = ? AND ended_at IS NOT NULL AND (achievements_json IS NOT NULL OR insights_json IS NOT NULL)
		ORDER BY created DESC`, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.InterviewSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}

	return out, rows.Err()
}

// FinalizeSession writes the terminal state in one statement guarded by
// ended_at IS NULL so concurrent completions cannot both land.
func (r *SQLiteRepo) FinalizeSession(ctx context.Context, f *models.SessionFinalization) error {
	if f == nil {
		return fmt.Errorf("finalization is nil")
	}

	transcript, err := json.Marshal(orEmptyTranscript(f.Transcript))
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}
	achievements, err := marshalNullable(f.Achievements)
	if err != nil {
		return fmt.Errorf("marshal achievements: %w", err)
	}
	insights, err := marshalNullable(f.Insights)
	if err != nil {
		return fmt.Errorf("marshal insights: %w", err)
	}
	brief, err := marshalNullable(f.Brief)
	if err != nil {
		return fmt.Errorf("marshal brief: %w", err)
	}

	res, err := r.conn.Exec(ctx, `UPDATE interview_sessions
		SET ended_at = ?, duration_seconds = ?, transcript_json = ?, achievements_json = ?, insights_json = ?, brief_json = ?, audio_file_url = ?, questions_asked = ?
		WHERE id = ? AND ended_at IS NULL`,
		f.EndedAt, f.DurationSeconds, string(transcript), achievements, insights, brief, f.AudioFileURL, f.QuestionsAsked, f.SessionID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		row := r.conn.QueryRow(ctx, `SELECT 1 FROM interview_sessions WHERE id = ?`, f.SessionID)
		var one int
		if err := row.Scan(&one); err != nil {
			if err == sql.ErrNoRows {
				return models.ErrSessionNotFound
			}

			return err
		}

		return models.ErrAlreadyFinalized
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.InterviewSession, error) {
	var s models.InterviewSession
	var expID, achievements, insights, brief, audioURL sql.NullString
	var endedAt sql.NullInt64
	var category, transcript string

	if err := row.Scan(&s.ID, &s.CandidateID, &expID, &s.JobTitle, &s.Organization, &s.StatedDuration, &category, &s.StartedAt, &endedAt, &s.DurationSeconds, &transcript, &achievements, &insights, &brief, &audioURL, &s.QuestionsAsked, &s.Created); err != nil {
		return nil, err
	}

	s.Category = models.InterviewCategory(category)
	if expID.Valid {
		v := expID.String
		s.ExperienceID = &v
	}
	if endedAt.Valid {
		v := endedAt.Int64
		s.EndedAt = &v
	}
	if audioURL.Valid {
		v := audioURL.String
		s.AudioFileURL = &v
	}

	if err := json.Unmarshal([]byte(transcript), &s.Transcript); err != nil {
		s.Transcript = []models.TranscriptEntry{}
	}
	if achievements.Valid {
		var set models.AchievementSet
		if err := json.Unmarshal([]byte(achievements.String), &set); err == nil {
			s.Achievements = &set
		}
	}
	if insights.Valid {
		var ins models.WorkStyleInsights
		if err := json.Unmarshal([]byte(insights.String), &ins); err == nil {
			s.Insights = &ins
		}
	}
	if brief.Valid {
		var b models.Brief
		if err := json.Unmarshal([]byte(brief.String), &b); err == nil {
			s.Brief = &b
		}
	}

	return &s, nil
}

func orEmptyTranscript(t []models.TranscriptEntry) []models.TranscriptEntry {
	if t == nil {
		return []models.TranscriptEntry{}
	}
	return t
}

// marshalNullable returns a NULL-able column value: nil pointers stay NULL.
func marshalNullable(v any) (any, error) {
	switch x := v.(type) {
	case *models.AchievementSet:
		if x == nil {
			return nil, nil
		}
	case *models.WorkStyleInsights:
		if x == nil {
			return nil, nil
		}
	case *models.Brief:
		if x == nil {
			return nil, nil
		}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return string(b), nil
}
