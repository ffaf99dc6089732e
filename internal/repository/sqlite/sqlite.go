package sqlite

import (
	"encoding/json"
	"time"

	"github.com/twinhire/server/internal/db"
	"github.com/twinhire/server/pkg/repository"
)

// SQLiteRepo implements the repository interfaces using the internal DB
// wrapper.
type SQLiteRepo struct {
	conn *db.DB
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.CandidateRepo = (*SQLiteRepo)(nil)
var _ repository.ResumeRepo = (*SQLiteRepo)(nil)
var _ repository.ExperienceRepo = (*SQLiteRepo)(nil)
var _ repository.SkillRepo = (*SQLiteRepo)(nil)
var _ repository.ToolRepo = (*SQLiteRepo)(nil)
var _ repository.SessionRepo = (*SQLiteRepo)(nil)
var _ repository.MessageRepo = (*SQLiteRepo)(nil)

func New(conn *db.DB) *SQLiteRepo {
	return &SQLiteRepo{conn: conn}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

// marshalStrings renders a string slice as the JSON stored in *_json columns;
// nil marshals as the empty list.
func marshalStrings(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func unmarshalStrings(s string) []string {
	if s == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return []string{}
	}
	return out
}
