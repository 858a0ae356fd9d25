package chat

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/davidhbaek/termchat/internal/anthropic"
	"github.com/davidhbaek/termchat/internal/llm"
	"github.com/davidhbaek/termchat/internal/openai"
	"github.com/davidhbaek/termchat/internal/wire"
)

type Provider string

const (
	OpenAI    Provider = "openai"
	Anthropic Provider = "anthropic"
)

// Config binds a session to one provider. Resolved once at startup from the
// environment; immutable afterwards.
type Config struct {
	Provider Provider
	APIKey   string
	BaseURL  string
	Model    string
}

// configFromEnv resolves the chosen provider's credentials. An empty model
// picks the provider default. A missing API key is fatal; no provider call is
// attempted.
func configFromEnv(provider Provider, model string) (Config, error) {
	cfg := Config{Provider: provider, Model: model}

	switch provider {
	case OpenAI:
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		cfg.BaseURL = os.Getenv("OPENAI_BASE_URL")
		if cfg.APIKey == "" {
			return Config{}, &wire.ConfigError{Provider: string(provider), Message: "OPENAI_API_KEY is not set", Missing: true}
		}
		if cfg.Model == "" {
			cfg.Model = llm.GPT4O
		}
	case Anthropic:
		cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		cfg.BaseURL = os.Getenv("ANTHROPIC_BASE_URL")
		if cfg.APIKey == "" {
			return Config{}, &wire.ConfigError{Provider: string(provider), Message: "ANTHROPIC_API_KEY is not set", Missing: true}
		}
		if cfg.Model == "" {
			cfg.Model = llm.SONNET
		}
	default:
		return Config{}, &wire.ConfigError{Provider: string(provider), Message: "unknown provider"}
	}

	return cfg, nil
}

// newClient builds the provider client bound to cfg.
func newClient(cfg Config, timeout time.Duration) llm.Client {
	switch cfg.Provider {
	case Anthropic:
		opts := []anthropic.Option{anthropic.WithTimeout(timeout)}
		if cfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		return anthropic.NewClient(cfg.APIKey, cfg.Model, opts...)
	default:
		opts := []openai.Option{openai.WithTimeout(timeout)}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		return openai.NewClient(cfg.APIKey, cfg.Model, opts...)
	}
}

// chooseProvider prompts once for a mode. Enter picks OpenAI; "2" (or a
// handful of aliases) picks Anthropic.
func chooseProvider(r *bufio.Reader, w io.Writer) (Provider, error) {
	fmt.Fprintln(w, "Default mode: OpenAI.")
	fmt.Fprintln(w, "Enter 2 for the thinking model (Claude), or press Enter for the default.")
	fmt.Fprint(w, promptStyle.Render("Mode [Enter/2]: "))

	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "2", "claude", "anthropic", "thinking":
		return Anthropic, nil
	default:
		return OpenAI, nil
	}
}
