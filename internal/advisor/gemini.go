package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fjacquet/daily-budget/internal/logging"
	"fjacquet/daily-budget/internal/models"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

// generator is the single model call the advisor needs.
type generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type geminiGenerator struct {
	model *genai.GenerativeModel
}

func (g *geminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response from Gemini API")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String(), nil
}

// GeminiOptions configures a GeminiAdvisor.
type GeminiOptions struct {
	APIKey            string
	Model             string
	RequestsPerMinute int
	Timeout           time.Duration
}

// GeminiAdvisor asks a Gemini model for a short note, throttled to a fixed
// request rate.
type GeminiAdvisor struct {
	gen     generator
	client  *genai.Client
	limiter *rate.Limiter
	timeout time.Duration
	model   string
	logger  logging.Logger
}

// NewGeminiAdvisor creates the Gemini client.
func NewGeminiAdvisor(ctx context.Context, opts GeminiOptions, logger logging.Logger) (*GeminiAdvisor, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(opts.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(opts.Model)
	model.SetTemperature(0.2)

	a := newGeminiAdvisor(&geminiGenerator{model: model}, opts, logger)
	a.client = client
	return a, nil
}

func newGeminiAdvisor(gen generator, opts GeminiOptions, logger logging.Logger) *GeminiAdvisor {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = 10
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	perRequest := time.Minute / time.Duration(opts.RequestsPerMinute)
	return &GeminiAdvisor{
		gen:     gen,
		limiter: rate.NewLimiter(rate.Every(perRequest), 1),
		timeout: opts.Timeout,
		model:   opts.Model,
		logger:  logger,
	}
}

// Advise waits for a rate slot, then asks the model. The whole call is bounded
// by the configured timeout.
func (a *GeminiAdvisor) Advise(ctx context.Context, summary Summary) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if err := a.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("advisor rate limit: %w", err)
	}

	start := time.Now()
	note, err := a.gen.Generate(ctx, BuildPrompt(summary))
	if err != nil {
		return "", err
	}

	a.logger.Debug("Advisor note received",
		logging.F(logging.FieldModel, a.model),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return strings.TrimSpace(note), nil
}

// Close releases the underlying client.
func (a *GeminiAdvisor) Close() error {
	if a.client == nil {
		return nil
	}
	return a.client.Close()
}

// BuildPrompt renders the summary as a model prompt.
func BuildPrompt(s Summary) string {
	var b strings.Builder
	b.WriteString("You are a careful personal budgeting assistant. In at most three sentences, ")
	b.WriteString("comment on the following month-to-date budget position. Do not invent numbers.\n\n")
	fmt.Fprintf(&b, "Income tier: %s\n", s.Tier)
	fmt.Fprintf(&b, "Discretionary budget for the month: %s %s\n", s.Available.StringFixed(2), s.Currency)
	fmt.Fprintf(&b, "Base daily budget: %s %s\n", s.BaseDailyBudget.StringFixed(2), s.Currency)
	fmt.Fprintf(&b, "Days elapsed: %d, days remaining: %d\n", s.DaysElapsed, s.DaysRemaining)
	fmt.Fprintf(&b, "Surplus pool so far (negative means overspent): %s\n", s.SurplusPool.StringFixed(2))
	if s.UnabsorbedDeficit.IsPositive() {
		fmt.Fprintf(&b, "Overspending the remaining days cannot absorb: %s\n", s.UnabsorbedDeficit.StringFixed(2))
	}
	if s.UnabsorbedSurplus.IsPositive() {
		fmt.Fprintf(&b, "Surplus held back by the daily cap: %s\n", s.UnabsorbedSurplus.StringFixed(2))
	}
	if s.NextAllocation != nil && s.NextDate != nil {
		fmt.Fprintf(&b, "Allocation for %s: %s\n", models.DateKey(*s.NextDate), s.NextAllocation.StringFixed(2))
	}
	fmt.Fprintf(&b, "Estimate confidence: %s (%s)\n", s.Confidence.String(), s.Methodology)
	return b.String()
}
