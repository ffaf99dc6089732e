package interview

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/twinhire/server/pkg/models"
)

// EmotionAnnotation is one per-utterance prosody/emotion sample supplied by
// the capture client. Text carries the utterance the sample was taken for,
// when the client knows it; Timestamp is unix milliseconds.
type EmotionAnnotation struct {
	Text      string          `json:"text,omitempty"`
	Timestamp int64           `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// PairMessages walks the transcript and derives (question, answer) records
// from consecutive AI-then-candidate turns. Each record picks up the emotion
// annotation whose timestamp lies within tolerance of the candidate's
// utterance; among candidates in range, one whose text matches the utterance
// wins, otherwise the nearest timestamp does.
func PairMessages(sessionID string, transcript []models.TranscriptEntry, annotations []EmotionAnnotation, tolerance time.Duration) []models.TranscriptMessage {
	var msgs []models.TranscriptMessage
	now := time.Now().UTC().UnixMilli()

	for i := 0; i < len(transcript)-1; i++ {
		q, a := transcript[i], transcript[i+1]
		if q.Speaker != models.SpeakerAI || a.Speaker != models.SpeakerCandidate {
			continue
		}

		msg := models.TranscriptMessage{
			SessionID:  sessionID,
			Question:   strings.TrimSpace(q.Text),
			Answer:     strings.TrimSpace(a.Text),
			AnsweredAt: a.Timestamp,
			Created:    now,
		}
		if ann := matchAnnotation(a, annotations, tolerance); ann != nil {
			msg.EmotionJSON = ann.Data
		}
		msgs = append(msgs, msg)
	}

	return msgs
}

func matchAnnotation(utterance models.TranscriptEntry, annotations []EmotionAnnotation, tolerance time.Duration) *EmotionAnnotation {
	limit := tolerance.Milliseconds()

	var nearest *EmotionAnnotation
	var nearestDelta int64
	for i := range annotations {
		ann := &annotations[i]
		delta := ann.Timestamp - utterance.Timestamp
		if delta < 0 {
			delta = -delta
		}
		if delta > limit {
			continue
		}
		// content match within tolerance beats any timestamp-only match
		if ann.Text != "" && strings.EqualFold(strings.TrimSpace(ann.Text), strings.TrimSpace(utterance.Text)) {
			return ann
		}
		if nearest == nil || delta < nearestDelta {
			nearest, nearestDelta = ann, delta
		}
	}

	return nearest
}
