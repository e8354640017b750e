// Package assistant wraps the Gemini models behind the guest concierge and the
// admin content editor.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joshua-takyi/tower15/internal/config"
	"github.com/joshua-takyi/tower15/internal/models"
	"google.golang.org/genai"
)

const (
	FallbackUnavailable = "I'm sorry, I'm currently unavailable. Please contact us at info@tower15.gr"
	FallbackEmpty       = "I apologize, I am having trouble connecting right now."
)

var (
	ErrNotConfigured = errors.New("assistant is not configured")
	ErrCMSUpdate     = errors.New("I couldn't process that request")
)

// Generator is the single model call the assistant needs.
type Generator interface {
	Generate(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error)
}

type GeminiGenerator struct {
	client *genai.Client
}

func NewGeminiGenerator(ctx context.Context, apiKey string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %v", err)
	}
	return &GeminiGenerator{client: client}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

type Assistant struct {
	gen        Generator
	chatModel  string
	adminModel string
	logger     *slog.Logger
}

// New returns an assistant without a generator when no API key is configured;
// the concierge then answers with the fallback text.
func New(ctx context.Context, cfg config.AIConfig, logger *slog.Logger) (*Assistant, error) {
	a := &Assistant{chatModel: cfg.ChatModel, adminModel: cfg.AdminModel, logger: logger}
	if cfg.APIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, assistant disabled")
		return a, nil
	}
	gen, err := NewGeminiGenerator(ctx, cfg.APIKey)
	if err != nil {
		return nil, err
	}
	a.gen = gen
	return a, nil
}

func NewWithGenerator(gen Generator, chatModel, adminModel string, logger *slog.Logger) *Assistant {
	return &Assistant{gen: gen, chatModel: chatModel, adminModel: adminModel, logger: logger}
}

type roomSummary struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Category  string   `json:"category"`
	Capacity  int      `json:"capacity"`
	Price     float64  `json:"price"`
	Amenities []string `json:"amenities"`
}

const conciergePrompt = `You are the "TOWER 15 Concierge", a helpful and sophisticated virtual assistant for a luxury apartment hotel in Thessaloniki.

HOTEL INFO:
- Name: TOWER 15 Suites
- Address: Ioannou Farmaki 15, Thessaloniki (Near Democracy Square/Plateia Dimokratias).
- Style: Luxury, Minimalist, Renovated in 2024.
- Check-in: 15:00, Check-out: 11:00.
- Keyless entry (codes sent via email).
- No reception desk (Self check-in).

AVAILABLE ROOMS DATA:
%s

YOUR JOB:
1. Answer questions about room recommendations based on capacity and price.
2. Answer questions about location (Ladadika, Port, Center) and parking (suggest private parking nearby).
3. Be polite, concise, and professional.
4. IMPORTANT: Answer in the SAME LANGUAGE as the user (Greek or English).
5. If asked to book, guide them to click the "Book Now" buttons on the site. You cannot make bookings yourself.`

func conciergeInstruction(props []models.Property) (string, error) {
	rooms := make([]roomSummary, 0, len(props))
	for _, p := range props {
		rooms = append(rooms, roomSummary{
			ID:        p.ID,
			Title:     p.Title,
			Category:  p.Category,
			Capacity:  p.Capacity,
			Price:     p.PricePerNightBase,
			Amenities: p.Amenities,
		})
	}
	raw, err := json.Marshal(rooms)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(conciergePrompt, raw), nil
}

// AskConcierge answers a guest question. It never fails: model errors are logged and
// the guest gets a fallback line pointing at the front desk email.
func (a *Assistant) AskConcierge(ctx context.Context, props []models.Property, message string, history []models.ChatMessage) string {
	if a.gen == nil {
		return FallbackUnavailable
	}
	instruction, err := conciergeInstruction(props)
	if err != nil {
		a.logger.Error("failed to build concierge prompt", "error", err)
		return FallbackUnavailable
	}

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, msg := range history {
		role := genai.Role(genai.RoleModel)
		if msg.Role == models.ChatRoleUser {
			role = genai.RoleUser
		}
		contents = append(contents, genai.NewContentFromText(msg.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	text, err := a.gen.Generate(ctx, a.chatModel, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
	})
	if err != nil {
		a.logger.Error("concierge request failed", "error", err)
		return FallbackUnavailable
	}
	if strings.TrimSpace(text) == "" {
		return FallbackEmpty
	}
	return text
}

const cmsPrompt = `You are the AI Architect for the "TOWER 15 Suites" website.
CURRENT CMS STATE (JSON): %s
USER INSTRUCTION: %q
INSTRUCTIONS: Modify the JSON state. Return ONLY raw JSON.`

// ProcessCMSUpdate asks the admin model to rewrite the content set per the operator's
// instruction. Images and API keys are not sent; each returned property keeps its
// original gallery unless the model supplied one, and the keys are carried over as stored.
func (a *Assistant) ProcessCMSUpdate(ctx context.Context, state models.CMSState, prompt string) (*models.CMSState, error) {
	if a.gen == nil {
		return nil, ErrNotConfigured
	}

	light := state
	light.HosthubAPIKey = ""
	light.MydataAPIKey = ""
	light.Properties = make([]models.Property, len(state.Properties))
	originals := make(map[string][]string, len(state.Properties))
	for i, p := range state.Properties {
		originals[p.ID] = p.Images
		p.Images = []string{}
		light.Properties[i] = p
	}
	raw, err := json.Marshal(light)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cms state: %v", err)
	}

	text, err := a.gen.Generate(ctx, a.adminModel,
		[]*genai.Content{genai.NewContentFromText(fmt.Sprintf(cmsPrompt, raw, prompt), genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			Temperature:      genai.Ptr[float32](0.4),
		})
	if err != nil {
		a.logger.Error("cms update request failed", "error", err)
		return nil, ErrCMSUpdate
	}

	updated, err := parseCMSState(text)
	if err != nil {
		a.logger.Error("cms update returned invalid JSON", "error", err)
		return nil, ErrCMSUpdate
	}
	updated.HosthubAPIKey = state.HosthubAPIKey
	updated.MydataAPIKey = state.MydataAPIKey
	for i, p := range updated.Properties {
		if len(p.Images) == 0 {
			updated.Properties[i].Images = originals[p.ID]
		}
		if updated.Properties[i].Images == nil {
			updated.Properties[i].Images = []string{}
		}
	}
	return updated, nil
}

func parseCMSState(text string) (*models.CMSState, error) {
	if strings.TrimSpace(text) == "" {
		text = "{}"
	}
	var s models.CMSState
	if err := json.Unmarshal([]byte(text), &s); err == nil {
		return &s, nil
	}
	clean := strings.ReplaceAll(text, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	if err := json.Unmarshal([]byte(strings.TrimSpace(clean)), &s); err != nil {
		return nil, err
	}
	return &s, nil
}
