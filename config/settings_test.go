package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/richinex/chatshot/llm"
	"github.com/richinex/chatshot/model"
)

// isolate clears every variable Load reads and points HOME at an empty dir.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{
		"CHATSHOT_PROVIDER", "CHATSHOT_MODEL", "CHATSHOT_BASE_URL", "CHATSHOT_API_KEY",
		"CHATSHOT_MAX_TOKENS", "CHATSHOT_TEMPERATURE", "CHATSHOT_FRAME_INTERVAL",
		"CHATSHOT_MAX_FRAMES", "CHATSHOT_TIMEOUT",
		"DASHSCOPE_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	settings, err := Load(Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Provider != llm.ProviderDashScope {
		t.Errorf("expected dashscope, got %v", settings.LLM.Provider)
	}
	if settings.LLM.Model != llm.ModelQwenVLMax {
		t.Errorf("expected %s, got %q", llm.ModelQwenVLMax, settings.LLM.Model)
	}
	if settings.LLM.MaxTokens != 4096 || settings.LLM.Temperature != 0.1 {
		t.Errorf("unexpected LLM defaults %+v", settings.LLM)
	}
	if settings.Video.FrameInterval != 2 || settings.Video.MaxFrames != 20 {
		t.Errorf("unexpected video defaults %+v", settings.Video)
	}
	if settings.Timeout != 2*time.Minute {
		t.Errorf("expected 2m timeout, got %v", settings.Timeout)
	}
	if settings.LLM.APIKey != "" {
		t.Errorf("expected no API key, got %q", settings.LLM.APIKey)
	}
}

func TestLoadProviderKeyFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("DASHSCOPE_API_KEY", "sk-dash")

	settings, err := Load(Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.APIKey != "sk-dash" {
		t.Errorf("expected key from DASHSCOPE_API_KEY, got %q", settings.LLM.APIKey)
	}
}

func TestLoadPrefixedKeyWins(t *testing.T) {
	isolate(t)
	t.Setenv("DASHSCOPE_API_KEY", "sk-dash")
	t.Setenv("CHATSHOT_API_KEY", "sk-chatshot")

	settings, err := Load(Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.APIKey != "sk-chatshot" {
		t.Errorf("expected CHATSHOT_API_KEY to win, got %q", settings.LLM.APIKey)
	}
}

func TestLoadEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("CHATSHOT_PROVIDER", "claude")
	t.Setenv("CHATSHOT_MAX_FRAMES", "40")
	t.Setenv("CHATSHOT_TIMEOUT", "30s")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

	settings, err := Load(Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Provider != llm.ProviderAnthropic {
		t.Errorf("expected anthropic from alias, got %v", settings.LLM.Provider)
	}
	if settings.LLM.Model != llm.ModelAnthropicClaudeSonnet4 {
		t.Errorf("expected anthropic default model, got %q", settings.LLM.Model)
	}
	if settings.LLM.APIKey != "sk-ant" {
		t.Errorf("expected provider key from ANTHROPIC_API_KEY, got %q", settings.LLM.APIKey)
	}
	if settings.Video.MaxFrames != 40 || settings.Timeout != 30*time.Second {
		t.Errorf("unexpected settings %+v", settings)
	}
}

func TestLoadOverridesWin(t *testing.T) {
	isolate(t)
	t.Setenv("CHATSHOT_MAX_FRAMES", "40")
	t.Setenv("DASHSCOPE_API_KEY", "sk-env")

	settings, err := Load(Overrides{
		MaxFrames:     15,
		FrameInterval: 3,
		APIKey:        "sk-flag",
		Model:         llm.ModelQwenVLPlus,
		Timeout:       time.Minute,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Video.MaxFrames != 15 || settings.Video.FrameInterval != 3 {
		t.Errorf("expected flag overrides, got %+v", settings.Video)
	}
	if settings.LLM.APIKey != "sk-flag" || settings.LLM.Model != llm.ModelQwenVLPlus {
		t.Errorf("expected flag overrides, got %+v", settings.LLM)
	}
	if settings.Timeout != time.Minute {
		t.Errorf("expected 1m timeout, got %v", settings.Timeout)
	}
}

func TestLoadConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "chatshot.yaml")
	content := "provider: openai\nmodel: gpt-4o-mini\nbase_url: http://localhost:8000/v1\nmax_frames: 12\ntemperature: 0\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("CHATSHOT_MAX_FRAMES", "25")

	settings, err := Load(Overrides{ConfigFile: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Provider != llm.ProviderOpenAI || settings.LLM.Model != "gpt-4o-mini" {
		t.Errorf("expected values from file, got %+v", settings.LLM)
	}
	if settings.LLM.BaseURL != "http://localhost:8000/v1" || settings.LLM.Temperature != 0 {
		t.Errorf("expected values from file, got %+v", settings.LLM)
	}
	if settings.Video.MaxFrames != 25 {
		t.Errorf("expected environment to override file, got %d", settings.Video.MaxFrames)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	isolate(t)
	if _, err := Load(Overrides{ConfigFile: filepath.Join(t.TempDir(), "none.yaml")}); err == nil {
		t.Error("expected error for explicit missing config file")
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		key, val string
	}{
		{"CHATSHOT_MAX_TOKENS", "lots"},
		{"CHATSHOT_TEMPERATURE", "warm"},
		{"CHATSHOT_FRAME_INTERVAL", "two"},
		{"CHATSHOT_MAX_FRAMES", "-1"},
		{"CHATSHOT_TIMEOUT", "soon"},
		{"CHATSHOT_PROVIDER", "unknown_provider"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.val)
			if _, err := Load(Overrides{}); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.val)
			}
		})
	}
}

func TestNewProviderMissingKey(t *testing.T) {
	isolate(t)
	settings, err := Load(Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := settings.NewProvider(); !errors.Is(err, model.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestNewProviderFromSettings(t *testing.T) {
	isolate(t)
	settings, err := Load(Overrides{APIKey: "sk-test", Model: llm.ModelQwenVLMaxLatest})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	provider, err := settings.NewProvider()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.Name() != "dashscope" || provider.Model() != llm.ModelQwenVLMaxLatest {
		t.Errorf("unexpected provider %s/%s", provider.Name(), provider.Model())
	}
}
