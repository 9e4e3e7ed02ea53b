package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"datascout/internal/config"
	"datascout/internal/errors"
	"datascout/ports"
)

// Config holds LLM adapter configuration
type Config struct {
	Model       string        // e.g., "gpt-4o-mini"
	APIKey      string        // OpenAI API key
	BaseURL     string        // Optional override (default: https://api.openai.com/v1)
	Temperature float64       // 0.0-1.0, lower = more deterministic
	MaxTokens   int           // Max tokens in response
	Timeout     time.Duration // Request timeout
}

// GeneratorAdapter implements GeneratorPort over a chat completion client.
type GeneratorAdapter struct {
	config    Config
	llmClient LLMClient
}

// NewGeneratorAdapter creates a new LLM generator adapter
func NewGeneratorAdapter(config Config) (*GeneratorAdapter, error) {
	client, err := newLLMClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	if config.Timeout == 0 {
		config.Timeout = 120 * time.Second
	}
	return &GeneratorAdapter{
		config:    config,
		llmClient: client,
	}, nil
}

// NewGeneratorAdapterWithClient wires an explicit client, used by tests.
func NewGeneratorAdapterWithClient(config Config, client LLMClient) *GeneratorAdapter {
	if config.Timeout == 0 {
		config.Timeout = 120 * time.Second
	}
	return &GeneratorAdapter{config: config, llmClient: client}
}

var (
	sharedOnce sync.Once
	sharedGen  *GeneratorAdapter
	sharedErr  error
)

// Shared returns the process-wide generator, built lazily from the
// environment on first use so tests never need credentials.
func Shared() (ports.GeneratorPort, error) {
	sharedOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			sharedErr = err
			return
		}
		sharedGen, sharedErr = NewGeneratorAdapter(Config{
			Model:       cfg.AI.OpenAIModel,
			APIKey:      cfg.AI.OpenAIKey,
			Temperature: cfg.AI.Temperature,
			MaxTokens:   cfg.AI.MaxTokens,
		})
	})
	return sharedGen, sharedErr
}

// BuildPrompt assembles the instruction block for one signature call.
// Inputs render in signature order so the prompt is stable for a given
// call; undeclared inputs are ignored.
func (g *GeneratorAdapter) BuildPrompt(sig ports.Signature, inputs map[string]string) string {
	var b strings.Builder
	b.WriteString(sig.Description)
	b.WriteString("\n\nInputs:\n")
	for _, f := range sig.Inputs {
		v, ok := inputs[f.Name]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "### %s (%s)\n%s\n\n", f.Name, f.Description, v)
	}
	b.WriteString("Respond with a single JSON object containing exactly these fields:\n")
	for _, f := range sig.Outputs {
		fmt.Fprintf(&b, "- %q: %s\n", f.Name, f.Description)
	}
	b.WriteString("\nEvery field must be a JSON string. Output ONLY the JSON object, no other text.")
	return b.String()
}

// Generate implements ports.GeneratorPort.
func (g *GeneratorAdapter) Generate(ctx context.Context, sig ports.Signature, inputs map[string]string) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	prompt := g.BuildPrompt(sig, inputs)
	response, err := g.llmClient.ChatCompletion(ctx, g.config.Model, prompt, g.config.MaxTokens)
	if err != nil {
		return nil, errors.GenerationFailed(sig.Name, err)
	}

	outputs, err := parseOutputs(response)
	if err != nil {
		return nil, errors.GenerationFailed(sig.Name, err)
	}

	for _, name := range sig.OutputNames() {
		if _, ok := outputs[name]; !ok {
			return nil, errors.GenerationFailed(sig.Name, fmt.Errorf("response missing field %q", name))
		}
	}
	return outputs, nil
}

// parseOutputs decodes the response into named string fields. Non-string
// values are re-encoded as compact JSON so callers always see text.
func parseOutputs(response string) (map[string]string, error) {
	cleaned := cleanJSONContent(response)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	outputs := make(map[string]string, len(raw))
	for k, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			outputs[k] = s
			continue
		}
		outputs[k] = string(v)
	}
	return outputs, nil
}

// cleanJSONContent strips markdown fences and any chatter around the
// outermost JSON object.
func cleanJSONContent(content string) string {
	s := strings.TrimSpace(content)

	if strings.Contains(s, "```json") {
		start := strings.Index(s, "```json")
		rest := s[start+7:]
		if end := strings.Index(rest, "```"); end >= 0 {
			s = rest[:end]
		} else {
			s = rest
		}
	} else if strings.Contains(s, "```") {
		start := strings.Index(s, "```")
		rest := s[start+3:]
		if end := strings.Index(rest, "```"); end >= 0 {
			s = rest[:end]
		} else {
			s = rest
		}
	}
	s = strings.TrimSpace(s)

	// Trim leading/trailing chatter outside the outermost braces.
	if first := strings.Index(s, "{"); first > 0 {
		s = s[first:]
	}
	if last := strings.LastIndex(s, "}"); last >= 0 && last < len(s)-1 {
		s = s[:last+1]
	}
	return s
}
