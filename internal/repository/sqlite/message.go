package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/twinhire/server/pkg/models"
)

func (r *SQLiteRepo) CreateMessages(ctx context.Context, msgs []models.TranscriptMessage) error {
	if len(msgs) == 0 {
		return nil
	}

	tx, err := r.conn.GetConn().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO transcript_messages
		(id, session_id, question, answer, emotion_json, answered_at, created)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	ts := now()
	for _, m := range msgs {
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if m.Created == 0 {
			m.Created = ts
		}
		var emotion any
		if len(m.EmotionJSON) > 0 {
			emotion = string(m.EmotionJSON)
		}
		if _, err := stmt.ExecContext(ctx, m.ID, m.SessionID, m.Question, m.Answer, emotion, m.AnsweredAt, m.Created); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *SQLiteRepo) ListMessagesBySession(ctx context.Context, sessionID string) ([]models.TranscriptMessage, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, session_id, question, answer, emotion_json, answered_at, created
		FROM transcript_messages WHERE session_id = ? ORDER BY answered_at ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TranscriptMessage
	for rows.Next() {
		var m models.TranscriptMessage
		var emotion sql.NullString
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Question, &m.Answer, &emotion, &m.AnsweredAt, &m.Created); err != nil {
			return nil, err
		}

		if emotion.Valid {
			m.EmotionJSON = json.RawMessage(emotion.String)
		}
		out = append(out, m)
	}

	return out, rows.Err()
}
