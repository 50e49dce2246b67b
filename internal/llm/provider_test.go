package llm

import "testing"

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no fence", `[{"claim": "a"}]`, `[{"claim": "a"}]`},
		{"plain fence", "```\n[1, 2]\n```", "[1, 2]"},
		{"json fence", "```json\n{\"status\": \"Verified\"}\n```", `{"status": "Verified"}`},
		{"json fence no newline", "```json{\"a\": 1}```", `{"a": 1}`},
		{"uppercase tag", "```JSON\n[]\n```", "[]"},
		{"surrounding whitespace", "  ```json\n[]\n```  ", "[]"},
		{"unterminated fence", "```json\n[]", "[]"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFence(tt.input); got != tt.want {
				t.Errorf("StripCodeFence(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	if _, err := NewProvider(Config{Provider: "bard"}); err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestNewProvider_Aliases(t *testing.T) {
	tests := []struct {
		provider string
		wantName string
	}{
		{"anthropic", "anthropic"},
		{"claude", "anthropic"},
		{"ollama", "ollama"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			p, err := NewProvider(Config{Provider: tt.provider, APIKey: "test-key"})
			if err != nil {
				t.Fatalf("NewProvider(%s) failed: %v", tt.provider, err)
			}
			if p.Name() != tt.wantName {
				t.Errorf("Expected name %s, got %s", tt.wantName, p.Name())
			}
		})
	}
}

func TestNewProvider_RequiresKey(t *testing.T) {
	if _, err := NewProvider(Config{Provider: "anthropic"}); err == nil {
		t.Error("Expected error for missing Anthropic API key")
	}
	if _, err := NewProvider(Config{Provider: "openai"}); err == nil {
		t.Error("Expected error for missing OpenAI API key")
	}
}
