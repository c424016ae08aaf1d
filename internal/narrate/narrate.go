// Package narrate turns structured engine replies into prose using the
// Anthropic API. It is entirely optional: the engine never depends on it,
// and hosts fall back to the raw reply message when no API key is set.
package narrate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/jedharris/text-game-sub000/internal/debug"
)

const (
	defaultModel   = "claude-3-5-haiku-20241022"
	maxRetries     = 3
	initialBackoff = 1 * time.Second
)

// ErrAPIKeyRequired is returned when an API key is needed but not provided.
var ErrAPIKeyRequired = errors.New("API key required")

const promptTemplate = `You are the narrator of a text adventure game. The engine
resolved the player's command and produced a structured result. Rewrite it as
one or two paragraphs of second-person prose. Stay strictly within the facts
the engine reports; never invent items, exits or outcomes.

Player command: {{.Input}}

Engine result (JSON):
{{.Result}}

{{if .Context}}Recent narration for continuity:
{{.Context}}

{{end}}Narration:`

type promptData struct {
	Input   string
	Result  string
	Context string
}

// Narrator wraps the Anthropic API for reply narration.
type Narrator struct {
	client         anthropic.Client
	model          anthropic.Model
	tmpl           *template.Template
	maxRetries     int
	initialBackoff time.Duration

	// recent holds the last few narrations for prompt continuity.
	recent []string
}

// New creates a narrator. Env var ANTHROPIC_API_KEY takes precedence over
// the explicit apiKey; model falls back to the default Haiku model.
func New(apiKey, model string) (*Narrator, error) {
	if envKey := os.Getenv("ANTHROPIC_API_KEY"); envKey != "" {
		apiKey = envKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set ANTHROPIC_API_KEY or provide narrate.api-key", ErrAPIKeyRequired)
	}
	if model == "" {
		model = defaultModel
	}
	tmpl, err := template.New("narrate").Parse(promptTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing narration template: %w", err)
	}
	return &Narrator{
		client:         anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:          anthropic.Model(model),
		tmpl:           tmpl,
		maxRetries:     maxRetries,
		initialBackoff: initialBackoff,
	}, nil
}

// Narrate renders the engine reply as prose. input is the raw player
// command line; reply is the decoded JSON reply.
func (n *Narrator) Narrate(ctx context.Context, input string, reply map[string]any) (string, error) {
	result, err := json.MarshalIndent(reply, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding reply for narration: %w", err)
	}
	var buf strings.Builder
	err = n.tmpl.Execute(&buf, promptData{
		Input:   input,
		Result:  string(result),
		Context: strings.Join(n.recent, "\n\n"),
	})
	if err != nil {
		return "", fmt.Errorf("rendering narration prompt: %w", err)
	}

	text, err := n.callWithRetry(ctx, buf.String())
	if err != nil {
		return "", err
	}
	n.recent = append(n.recent, text)
	if len(n.recent) > 4 {
		n.recent = n.recent[len(n.recent)-4:]
	}
	return text, nil
}

func (n *Narrator) callWithRetry(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     n.model,
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	var lastErr error
	for attempt := 0; attempt <= n.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := n.initialBackoff * time.Duration(math.Pow(2, float64(attempt-1)))
			debug.Logf("Debug: narration retry %d after %s\n", attempt, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		message, err := n.client.Messages.New(ctx, params)
		if err == nil {
			if len(message.Content) > 0 {
				content := message.Content[0]
				if content.Type == "text" {
					return strings.TrimSpace(content.Text), nil
				}
				return "", fmt.Errorf("unexpected response format: not a text block (type=%s)", content.Type)
			}
			return "", fmt.Errorf("empty response from model")
		}
		lastErr = err
	}
	return "", fmt.Errorf("narration failed after %d attempts: %w", n.maxRetries+1, lastErr)
}
