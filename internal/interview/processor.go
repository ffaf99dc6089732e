package interview

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/twinhire/server/internal/config"
	"github.com/twinhire/server/internal/llm"
	"github.com/twinhire/server/pkg/blob"
	"github.com/twinhire/server/pkg/models"
	"github.com/twinhire/server/pkg/repository"
)

// Extractor is the slice of the LLM engine the processor uses; tests supply
// their own implementation.
type Extractor interface {
	ExtractAchievements(ctx context.Context, meta llm.RoleMeta, transcript []models.TranscriptEntry) (*models.AchievementSet, error)
	WorkStyleInsights(ctx context.Context, transcript []models.TranscriptEntry) (*models.WorkStyleInsights, error)
	Brief(ctx context.Context, meta llm.RoleMeta, transcript []models.TranscriptEntry) (*models.Brief, error)
}

// CompletionPayload is everything the capture client hands over when an
// interview ends.
type CompletionPayload struct {
	Transcript     []models.TranscriptEntry `json:"transcript"`
	Emotions       []EmotionAnnotation      `json:"emotions,omitempty"`
	Audio          []byte                   `json:"audio,omitempty"`
	AudioFormat    string                   `json:"audio_format,omitempty"`
	JobTitle       string                   `json:"job_title,omitempty"`
	Organization   string                   `json:"organization,omitempty"`
	StatedDuration string                   `json:"stated_duration,omitempty"`
	JobDescription string                   `json:"job_description,omitempty"`
}

// CompletionResult is the terminal state reported back to the caller.
type CompletionResult struct {
	SessionID       string                    `json:"session_id"`
	Achievements    *models.AchievementSet    `json:"achievements,omitempty"`
	Insights        *models.WorkStyleInsights `json:"insights,omitempty"`
	Brief           *models.Brief             `json:"brief"`
	Transcript      []models.TranscriptEntry  `json:"transcript"`
	AudioFileURL    *string                   `json:"audio_file_url"`
	DurationSeconds int64                     `json:"duration_seconds"`
	QuestionsAsked  int                       `json:"questions_asked"`
}

// Processor finalizes interview sessions. Once the session row is found, the
// call always completes: every enrichment step that touches the model, the
// transcoder, or the blob store falls back to a deterministic substitute on
// failure instead of erroring.
type Processor struct {
	sessions   repository.SessionRepo
	messages   repository.MessageRepo
	engine     Extractor
	store      blob.Store
	transcoder Transcoder
	cfg        config.EngineConfig
	logger     *slog.Logger
}

// Transcoder matches pkg/audio.Transcoder; declared here so the processor can
// be constructed without importing the audio package in tests.
type Transcoder interface {
	Transcode(ctx context.Context, data []byte, fromFormat string) ([]byte, string, error)
}

func NewProcessor(
	sessions repository.SessionRepo,
	messages repository.MessageRepo,
	engine Extractor,
	store blob.Store,
	transcoder Transcoder,
	cfg config.EngineConfig,
	logger *slog.Logger,
) *Processor {
	if cfg.MinWorkStyleMessages <= 0 {
		cfg.MinWorkStyleMessages = 4
	}
	if cfg.PairingTolerance <= 0 {
		cfg.PairingTolerance = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		sessions:   sessions,
		messages:   messages,
		engine:     engine,
		store:      store,
		transcoder: transcoder,
		cfg:        cfg,
		logger:     logger,
	}
}

// Complete finalizes the session identified by sessionID. The session must
// already exist (it was created at interview start); only an absent session
// or a malformed payload is a hard error.
func (p *Processor) Complete(ctx context.Context, sessionID string, payload *CompletionPayload) (*CompletionResult, error) {
	if sessionID == "" || payload == nil {
		return nil, models.ErrInvalidPayload
	}

	sess, err := p.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if sess == nil {
		return nil, models.ErrSessionNotFound
	}

	audioURL := p.uploadAudio(ctx, sessionID, payload)

	meta := llm.RoleMeta{
		JobTitle:       firstNonEmpty(payload.JobTitle, sess.JobTitle),
		Organization:   firstNonEmpty(payload.Organization, sess.Organization),
		StatedDuration: firstNonEmpty(payload.StatedDuration, sess.StatedDuration),
		JobDescription: payload.JobDescription,
	}

	var achievements *models.AchievementSet
	var insights *models.WorkStyleInsights

	if sess.Category == models.CategoryWorkStyle {
		insights = p.deriveInsights(ctx, sessionID, payload.Transcript)
	} else {
		achievements = p.deriveAchievements(ctx, sessionID, meta, payload.Transcript)
	}

	brief := p.deriveBrief(ctx, sessionID, meta, payload.Transcript)

	now := time.Now().UTC()
	endedAt := now.UnixMilli()
	var duration int64
	if sess.StartedAt > 0 && endedAt > sess.StartedAt {
		duration = (endedAt - sess.StartedAt) / 1000
	}
	questions := countAITurns(payload.Transcript)

	fin := &models.SessionFinalization{
		SessionID:       sessionID,
		EndedAt:         endedAt,
		DurationSeconds: duration,
		Transcript:      payload.Transcript,
		Achievements:    achievements,
		Insights:        insights,
		Brief:           brief,
		AudioFileURL:    audioURL,
		QuestionsAsked:  questions,
	}
	if err := p.sessions.FinalizeSession(ctx, fin); err != nil {
		return nil, fmt.Errorf("finalize session: %w", err)
	}

	if len(payload.Emotions) > 0 {
		msgs := PairMessages(sessionID, payload.Transcript, payload.Emotions, p.cfg.PairingTolerance)
		if len(msgs) > 0 {
			if err := p.messages.CreateMessages(ctx, msgs); err != nil {
				// non-critical to the caller
				p.logger.Warn("persist transcript messages failed", "session_id", sessionID, "err", err)
			}
		}
	}

	return &CompletionResult{
		SessionID:       sessionID,
		Achievements:    achievements,
		Insights:        insights,
		Brief:           brief,
		Transcript:      payload.Transcript,
		AudioFileURL:    audioURL,
		DurationSeconds: duration,
		QuestionsAsked:  questions,
	}, nil
}

// uploadAudio transcodes and stores the audio blob, returning nil on any
// failure so completion proceeds without an audio URL.
func (p *Processor) uploadAudio(ctx context.Context, sessionID string, payload *CompletionPayload) *string {
	if len(payload.Audio) == 0 || p.store == nil || p.transcoder == nil {
		return nil
	}

	data, format, err := p.transcoder.Transcode(ctx, payload.Audio, payload.AudioFormat)
	if err != nil {
		p.logger.Warn("audio transcode failed", "session_id", sessionID, "err", err)
		return nil
	}

	key := fmt.Sprintf("interviews/%s.%s", sessionID, format)
	url, err := p.store.Put(ctx, key, data, "audio/"+format)
	if err != nil {
		p.logger.Warn("audio upload failed", "session_id", sessionID, "err", err)
		return nil
	}

	return &url
}

func (p *Processor) deriveInsights(ctx context.Context, sessionID string, transcript []models.TranscriptEntry) *models.WorkStyleInsights {
	if len(transcript) < p.cfg.MinWorkStyleMessages {
		// low-content policy: never fabricate insights from a near-empty
		// transcript, and never spend a model call on one
		return insufficientDataInsights()
	}

	insights, err := p.engine.WorkStyleInsights(ctx, transcript)
	if err != nil {
		p.logger.Warn("work style extraction failed, using fallback", "session_id", sessionID, "err", err)
		return genericInsights()
	}

	return insights
}

func (p *Processor) deriveAchievements(ctx context.Context, sessionID string, meta llm.RoleMeta, transcript []models.TranscriptEntry) *models.AchievementSet {
	set, err := p.engine.ExtractAchievements(ctx, meta, transcript)
	if err != nil {
		p.logger.Warn("achievement extraction failed, using empty set", "session_id", sessionID, "err", err)
		return models.EmptyAchievementSet()
	}

	return set
}

func (p *Processor) deriveBrief(ctx context.Context, sessionID string, meta llm.RoleMeta, transcript []models.TranscriptEntry) *models.Brief {
	brief, err := p.engine.Brief(ctx, meta, transcript)
	if err != nil {
		p.logger.Warn("brief generation failed, using placeholder", "session_id", sessionID, "err", err)
		return &models.Brief{
			Text:  "A summary of this interview could not be generated.",
			Error: true,
		}
	}

	return brief
}

func insufficientDataInsights() *models.WorkStyleInsights {
	return &models.WorkStyleInsights{
		WorkStyle:        "Not enough interview data to determine work style.",
		CareerGoals:      "Not enough interview data to determine career goals.",
		Strengths:        []string{},
		Motivations:      "Not enough interview data to determine motivations.",
		InsufficientData: true,
	}
}

func genericInsights() *models.WorkStyleInsights {
	return &models.WorkStyleInsights{
		WorkStyle:   "The candidate discussed their working preferences during the interview.",
		CareerGoals: "The candidate shared career aspirations during the interview.",
		Strengths:   []string{},
		Motivations: "The candidate described their motivations during the interview.",
	}
}

func countAITurns(transcript []models.TranscriptEntry) int {
	n := 0
	for _, e := range transcript {
		if e.Speaker == models.SpeakerAI {
			n++
		}
	}
	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
