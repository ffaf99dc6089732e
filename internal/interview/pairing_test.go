package interview

import (
	"testing"
	"time"

	"github.com/twinhire/server/pkg/models"
)

func TestPairMessages_ConsecutiveTurnsOnly(t *testing.T) {
	base := int64(1_700_000_000_000)
	transcript := []models.TranscriptEntry{
		{Speaker: models.SpeakerAI, Text: "Q1", Timestamp: base},
		{Speaker: models.SpeakerCandidate, Text: "A1", Timestamp: base + 5_000},
		{Speaker: models.SpeakerCandidate, Text: "A1 continued", Timestamp: base + 9_000},
		{Speaker: models.SpeakerAI, Text: "Q2", Timestamp: base + 15_000},
		{Speaker: models.SpeakerAI, Text: "Q2 rephrased", Timestamp: base + 20_000},
		{Speaker: models.SpeakerCandidate, Text: "A2", Timestamp: base + 25_000},
	}

	msgs := PairMessages("s1", transcript, nil, 5*time.Second)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 pairs, got %d: %#v", len(msgs), msgs)
	}
	if msgs[0].Question != "Q1" || msgs[0].Answer != "A1" {
		t.Errorf("first pair wrong: %#v", msgs[0])
	}
	if msgs[1].Question != "Q2 rephrased" || msgs[1].Answer != "A2" {
		t.Errorf("second pair wrong: %#v", msgs[1])
	}
	if msgs[0].AnsweredAt != base+5_000 {
		t.Errorf("answered_at should be the candidate timestamp: %d", msgs[0].AnsweredAt)
	}
}

func TestPairMessages_EmotionWithinTolerance(t *testing.T) {
	base := int64(1_700_000_000_000)
	transcript := []models.TranscriptEntry{
		{Speaker: models.SpeakerAI, Text: "Q", Timestamp: base},
		{Speaker: models.SpeakerCandidate, Text: "A", Timestamp: base + 3_000},
	}
	annotations := []EmotionAnnotation{
		{Timestamp: base + 3_500, Data: []byte(`{"near":true}`)},
		{Timestamp: base + 20_000, Data: []byte(`{"far":true}`)},
	}

	msgs := PairMessages("s1", transcript, annotations, 5*time.Second)
	if len(msgs) != 1 || string(msgs[0].EmotionJSON) != `{"near":true}` {
		t.Fatalf("nearest in-tolerance annotation not picked: %#v", msgs)
	}
}

func TestPairMessages_ContentMatchBeatsNearerTimestamp(t *testing.T) {
	base := int64(1_700_000_000_000)
	transcript := []models.TranscriptEntry{
		{Speaker: models.SpeakerAI, Text: "Q", Timestamp: base},
		{Speaker: models.SpeakerCandidate, Text: "I led the migration", Timestamp: base + 3_000},
	}
	annotations := []EmotionAnnotation{
		{Timestamp: base + 3_100, Data: []byte(`{"closest":true}`)},
		{Text: "I led the migration", Timestamp: base + 6_000, Data: []byte(`{"matched":true}`)},
	}

	msgs := PairMessages("s1", transcript, annotations, 5*time.Second)
	if len(msgs) != 1 || string(msgs[0].EmotionJSON) != `{"matched":true}` {
		t.Fatalf("content match within tolerance must win: %#v", msgs)
	}
}

func TestPairMessages_NoAnnotationOutsideTolerance(t *testing.T) {
	base := int64(1_700_000_000_000)
	transcript := []models.TranscriptEntry{
		{Speaker: models.SpeakerAI, Text: "Q", Timestamp: base},
		{Speaker: models.SpeakerCandidate, Text: "A", Timestamp: base + 3_000},
	}
	annotations := []EmotionAnnotation{
		{Timestamp: base + 30_000, Data: []byte(`{"far":true}`)},
	}

	msgs := PairMessages("s1", transcript, annotations, 5*time.Second)
	if len(msgs) != 1 || msgs[0].EmotionJSON != nil {
		t.Fatalf("out-of-tolerance annotation must not attach: %#v", msgs)
	}
}

func TestPairMessages_EmptyTranscript(t *testing.T) {
	if msgs := PairMessages("s1", nil, nil, 5*time.Second); len(msgs) != 0 {
		t.Fatalf("expected no pairs: %#v", msgs)
	}
}
