package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/twinhire/server/internal/config"
	"github.com/twinhire/server/pkg/models"
	"github.com/twinhire/server/pkg/ollama"
)

// Generator is the slice of the Ollama client the engine needs; tests supply
// their own implementation.
type Generator interface {
	Generate(ctx context.Context, model string, prompt string) (ollama.GenerateResult, error)
}

// Engine renders prompts, calls the hosted model, and parses the structured
// responses used by the interview completion processor. Every method returns
// an error on upstream failure or unusable output; the caller owns the
// fallback policy.
type Engine struct {
	client Generator
	cfg    config.EngineConfig
	loader *Loader
	logger *slog.Logger
}

// RoleMeta carries the job-role context attached to an interview session.
// JobDescription is supplied to the model as background only; prompts forbid
// extracting achievements from it.
type RoleMeta struct {
	JobTitle       string
	Organization   string
	StatedDuration string
	JobDescription string
}

func NewEngine(client Generator, cfg config.EngineConfig, logger *slog.Logger) (*Engine, error) {
	if client == nil {
		return nil, fmt.Errorf("generator client is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.BriefWordLimit <= 0 {
		cfg.BriefWordLimit = 200
	}
	if logger == nil {
		logger = slog.Default()
	}

	loader, err := NewLoader()
	if err != nil {
		return nil, fmt.Errorf("create loader: %w", err)
	}

	return &Engine{client: client, cfg: cfg, loader: loader, logger: logger}, nil
}

const achievementsTemplate = `You are reviewing the transcript of a screening interview for the role of {{.JobTitle}}{{if .Organization}} at {{.Organization}}{{end}}.

{{if .JobDescription}}Background (for context only, do NOT extract from it):
{{.JobDescription}}

{{end}}Transcript:
{{.Transcript}}

Extract the accomplishments the candidate explicitly stated in the transcript.
Rules:
- Use ONLY what the candidate actually said. Never infer, embellish, or draw on the background text above.
- If the candidate stated no accomplishments, return an empty list.
- Tag each achievement with exactly one category: technical, leadership, process_improvement, business_impact, collaboration.

Respond with a single JSON object:
{"achievements":[{"text":"...","category":"..."}]}`

const insightsTemplate = `You are reviewing the transcript of a work-style interview.

Transcript:
{{.Transcript}}

Summarize what the candidate explicitly said about how they work.
Rules:
- Use ONLY statements the candidate actually made. Do not infer traits they did not voice.
- Leave a field empty if the transcript does not cover it.

Respond with a single JSON object:
{"work_style":"...","career_goals":"...","strengths":["..."],"motivations":"..."}`

const briefTemplate = `Write a narrative summary of the following interview in at most {{.WordLimit}} words.
Describe only what was explicitly discussed; do not speculate or add information.
{{if .JobTitle}}The interview concerned the role of {{.JobTitle}}{{if .Organization}} at {{.Organization}}{{end}}.{{end}}

Transcript:
{{.Transcript}}

Respond with the summary text only, no preamble and no JSON.`

type achievementsResponse struct {
	Achievements []models.Achievement `json:"achievements"`
}

// ExtractAchievements asks the model for the achievement bullets the
// candidate stated. The response must satisfy the achievements_v1 schema.
func (e *Engine) ExtractAchievements(ctx context.Context, meta RoleMeta, transcript []models.TranscriptEntry) (*models.AchievementSet, error) {
	text := TranscriptText(transcript)
	if strings.TrimSpace(text) == "" {
		// nothing said means nothing to extract, not an error
		return models.EmptyAchievementSet(), nil
	}

	prompt, err := ollama.RenderTemplate(achievementsTemplate, map[string]any{
		"JobTitle":       meta.JobTitle,
		"Organization":   meta.Organization,
		"JobDescription": meta.JobDescription,
		"Transcript":     text,
	})
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	raw, err := e.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	if err := e.validate(ctx, "achievements_v1", raw); err != nil {
		return nil, err
	}

	resp, err := ParseStructuredErr[achievementsResponse](raw)
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	return BuildAchievementSet(resp.Achievements), nil
}

// WorkStyleInsights asks the model for the structured work-style object.
func (e *Engine) WorkStyleInsights(ctx context.Context, transcript []models.TranscriptEntry) (*models.WorkStyleInsights, error) {
	prompt, err := ollama.RenderTemplate(insightsTemplate, map[string]any{
		"Transcript": TranscriptText(transcript),
	})
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	raw, err := e.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	if err := e.validate(ctx, "insights_v1", raw); err != nil {
		return nil, err
	}

	insights, err := ParseStructuredErr[models.WorkStyleInsights](raw)
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if insights.Strengths == nil {
		insights.Strengths = []string{}
	}

	return &insights, nil
}

// Brief asks the model for a short narrative summary capped at the configured
// word limit; overlong responses are truncated rather than rejected.
func (e *Engine) Brief(ctx context.Context, meta RoleMeta, transcript []models.TranscriptEntry) (*models.Brief, error) {
	prompt, err := ollama.RenderTemplate(briefTemplate, map[string]any{
		"JobTitle":     meta.JobTitle,
		"Organization": meta.Organization,
		"Transcript":   TranscriptText(transcript),
		"WordLimit":    e.cfg.BriefWordLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	raw, err := e.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, fmt.Errorf("empty brief response")
	}
	if words := strings.Fields(text); len(words) > e.cfg.BriefWordLimit {
		text = strings.Join(words[:e.cfg.BriefWordLimit], " ")
	}

	return &models.Brief{Text: text}, nil
}

func (e *Engine) generate(ctx context.Context, prompt string) (string, error) {
	ctxReq, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	res, err := e.client.Generate(ctxReq, e.cfg.Model, prompt)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	return res.Text, nil
}

func (e *Engine) validate(ctx context.Context, schemaName, raw string) error {
	j := ExtractJSON(raw)
	if j == "" {
		return fmt.Errorf("no JSON object found in response")
	}

	schema, ok := e.loader.GetSchema(schemaName)
	if !ok || schema == nil {
		return fmt.Errorf("no schema found for %s", schemaName)
	}

	verrs, err := schema.ValidateBytes(ctx, []byte(j))
	if err != nil {
		e.logger.Warn("schema validate error", "schema", schemaName, "err", err)
		return fmt.Errorf("schema validate error: %w", err)
	}
	if len(verrs) > 0 {
		var sb strings.Builder
		for _, v := range verrs {
			sb.WriteString(v.Message)
			sb.WriteString("; ")
		}
		return fmt.Errorf("response does not match schema: %s", sb.String())
	}

	return nil
}

// TranscriptText renders a transcript as speaker-tagged lines for prompting.
func TranscriptText(entries []models.TranscriptEntry) string {
	var sb strings.Builder
	for _, en := range entries {
		if strings.TrimSpace(en.Text) == "" {
			continue
		}
		switch en.Speaker {
		case models.SpeakerAI:
			sb.WriteString("Interviewer: ")
		default:
			sb.WriteString("Candidate: ")
		}
		sb.WriteString(strings.TrimSpace(en.Text))
		sb.WriteString("\n")
	}
	return sb.String()
}

// BuildAchievementSet derives the summary block (count plus categories ranked
// by frequency, ties by first appearance) for a list of achievements.
func BuildAchievementSet(achievements []models.Achievement) *models.AchievementSet {
	if len(achievements) == 0 {
		return models.EmptyAchievementSet()
	}

	counts := make(map[models.AchievementCategory]int)
	order := make([]models.AchievementCategory, 0, len(achievements))
	for _, a := range achievements {
		if counts[a.Category] == 0 {
			order = append(order, a.Category)
		}
		counts[a.Category]++
	}

	// stable selection sort keeps first-appearance order among equal counts
	dominant := make([]string, 0, len(order))
	used := make(map[models.AchievementCategory]bool, len(order))
	for range order {
		var best models.AchievementCategory
		bestCount := -1
		for _, c := range order {
			if used[c] {
				continue
			}
			if counts[c] > bestCount {
				best, bestCount = c, counts[c]
			}
		}
		used[best] = true
		dominant = append(dominant, string(best))
	}

	return &models.AchievementSet{
		Achievements: achievements,
		Summary: models.AchievementSummary{
			TotalAchievements:  len(achievements),
			DominantCategories: dominant,
		},
	}
}
