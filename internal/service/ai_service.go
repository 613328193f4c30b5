package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	cfg "github.com/socialmindhq/socialmind/configs"
	"github.com/socialmindhq/socialmind/internal/transfer"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

const geminiModel = "gemini-1.5-flash"

var ErrEmptyAIResponse = errors.New("empty response from AI provider")

type AIService interface {
	GenerateCaption(ctx context.Context, media []byte, mimeType, tone, platform, idea string) (string, error)
	GenerateContentPlan(ctx context.Context, req *transfer.ContentPlanRequest) (*transfer.ContentPlan, error)
}

type aiService struct {
	cfg     cfg.Config
	baseURL string
	client  *http.Client
}

func NewAIService(cfg cfg.Config) AIService {
	return &aiService{
		cfg:     cfg,
		baseURL: geminiBaseURL,
		client:  http.DefaultClient,
	}
}

// GenerateCaption forwards the uploaded media inline with a templated prompt
// and returns the first candidate verbatim.
func (s *aiService) GenerateCaption(ctx context.Context, media []byte, mimeType, tone, platform, idea string) (string, error) {
	if len(media) == 0 {
		return "", errors.New("media file is empty")
	}

	prompt := fmt.Sprintf(
		"Write a social media caption for this media. Platform: %s. Tone: %s.",
		orDefault(platform, "any"), orDefault(tone, "casual"),
	)
	if idea != "" {
		prompt += fmt.Sprintf(" Content idea: %s.", idea)
	}
	prompt += " Reply with the caption only, no preamble."

	req := transfer.GeminiRequest{
		Contents: []transfer.GeminiContent{{
			Parts: []transfer.GeminiPart{
				{Text: prompt},
				{InlineData: &transfer.GeminiInlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(media),
				}},
			},
		}},
	}

	text, err := s.generate(ctx, &req)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(text), nil
}

// GenerateContentPlan asks for a JSON-shaped calendar, then tries to pull a
// JSON object out of the free-text reply. Any failure falls back to a
// deterministic placeholder plan, so this endpoint never fails on a
// malformed AI response.
func (s *aiService) GenerateContentPlan(ctx context.Context, req *transfer.ContentPlanRequest) (*transfer.ContentPlan, error) {
	if req == nil {
		return nil, errors.New("content plan request is nil")
	}
	if req.Days < 1 || req.Days > 31 {
		return nil, errors.New("days must be between 1 and 31")
	}
	if len(req.Platforms) == 0 {
		return nil, errors.New("at least one platform is required")
	}

	prompt := fmt.Sprintf(
		`Create a %d-day social media content plan about %q with a %s tone for these platforms: %s.
Respond with a single JSON object shaped like
{"days":[{"day":1,"entries":[{"platform":"...","idea":"...","caption":"...","best_time":"..."}]}]}
with one entry per platform per day. JSON only, no commentary.`,
		req.Days, orDefault(req.Topic, "general audience growth"), orDefault(req.Tone, "casual"),
		strings.Join(req.Platforms, ", "),
	)

	geminiReq := transfer.GeminiRequest{
		Contents: []transfer.GeminiContent{{
			Parts: []transfer.GeminiPart{{Text: prompt}},
		}},
	}

	text, err := s.generate(ctx, &geminiReq)
	if err != nil {
		slog.Info(fmt.Sprintf("content plan generation failed, using fallback: %v", err))
		return BuildFallbackPlan(req.Days, req.Platforms), nil
	}

	plan, err := parsePlan(text, req.Days, req.Platforms)
	if err != nil {
		slog.Info(fmt.Sprintf("content plan parse failed, using fallback: %v", err))
		return BuildFallbackPlan(req.Days, req.Platforms), nil
	}

	return plan, nil
}

func (s *aiService) generate(ctx context.Context, req *transfer.GeminiRequest) (string, error) {
	if s.cfg.GeminiAPIKey == "" {
		return "", errors.New("Gemini API key is not configured")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, geminiModel, s.cfg.GeminiAPIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		slog.Info(err.Error())
		return "", fmt.Errorf("AI request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		slog.Info(fmt.Sprintf("AI provider returned %d: %s", resp.StatusCode, body))
		return "", fmt.Errorf("AI provider returned status %d", resp.StatusCode)
	}

	var geminiResp transfer.GeminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		slog.Info(err.Error())
		return "", err
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyAIResponse
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

// parsePlan extracts the first {...} span from free text and validates it
// against what was asked for.
func parsePlan(text string, days int, platforms []string) (*transfer.ContentPlan, error) {
	raw, err := ExtractJSONObject(text)
	if err != nil {
		return nil, err
	}

	var plan transfer.ContentPlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return nil, err
	}

	if len(plan.Days) != days {
		return nil, fmt.Errorf("plan has %d days, want %d", len(plan.Days), days)
	}
	for _, day := range plan.Days {
		if len(day.Entries) != len(platforms) {
			return nil, fmt.Errorf("day %d has %d entries, want %d", day.Day, len(day.Entries), len(platforms))
		}
	}

	return &plan, nil
}

// ExtractJSONObject returns the outermost {...} span in text.
func ExtractJSONObject(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", errors.New("no JSON object found in response")
	}
	return text[start : end+1], nil
}

var fallbackIdeas = []string{
	"Share a behind-the-scenes look at your process",
	"Post a quick tip your audience can use today",
	"Answer a question you hear often",
	"Highlight a recent win or milestone",
	"Share something you learned this week",
	"Repurpose your best-performing content",
	"Run a simple this-or-that poll",
}

// BuildFallbackPlan produces a deterministic placeholder plan with exactly
// the requested number of days and one entry per platform per day.
func BuildFallbackPlan(days int, platforms []string) *transfer.ContentPlan {
	plan := &transfer.ContentPlan{Days: make([]transfer.ContentPlanDay, 0, days)}

	for d := 1; d <= days; d++ {
		day := transfer.ContentPlanDay{Day: d, Entries: make([]transfer.ContentPlanEntry, 0, len(platforms))}
		for _, platform := range platforms {
			idea := fallbackIdeas[(d-1)%len(fallbackIdeas)]
			day.Entries = append(day.Entries, transfer.ContentPlanEntry{
				Platform: platform,
				Idea:     idea,
				Caption:  fmt.Sprintf("Day %d on %s: %s.", d, platform, strings.ToLower(idea[:1])+idea[1:]),
				BestTime: "10:00",
			})
		}
		plan.Days = append(plan.Days, day)
	}

	return plan
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
