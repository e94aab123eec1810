package extract

import (
	"testing"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{}) {}
func (nopLogger) Warn(module, message string, details map[string]interface{}) {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error { return nil }

func TestExtractScores(t *testing.T) {
	e := New(nopLogger{})

	tests := []struct {
		name          string
		raw           string
		wantTechnical int
		wantComm      int
		wantConf      int
	}{
		{
			name:          "bare JSON",
			raw:           `{"technical_score": 85, "communication_score": 90, "confidence_score": 80}`,
			wantTechnical: 85,
			wantComm:      90,
			wantConf:      80,
		},
		{
			name:          "markdown fenced JSON",
			raw:           "Here are the scores:\n```json\n{\"technical_score\": 70, \"communication_score\": 65, \"confidence_score\": 75}\n```\nGood luck!",
			wantTechnical: 70,
			wantComm:      65,
			wantConf:      75,
		},
		{
			name:          "JSON buried in prose",
			raw:           `Sure! The evaluation is {"technical_score": 40, "communication_score": 55, "confidence_score": 60} as requested.`,
			wantTechnical: 40,
			wantComm:      55,
			wantConf:      60,
		},
		{
			name:          "alternate keys",
			raw:           `{"technical": 88, "communication": 92, "confidence": 79}`,
			wantTechnical: 88,
			wantComm:      92,
			wantConf:      79,
		},
		{
			name:          "missing field defaults to neutral",
			raw:           `{"technical_score": 95}`,
			wantTechnical: 95,
			wantComm:      NeutralScore,
			wantConf:      NeutralScore,
		},
		{
			name:          "out of range values clamped",
			raw:           `{"technical_score": 150, "communication_score": -10, "confidence_score": 100}`,
			wantTechnical: 100,
			wantComm:      0,
			wantConf:      100,
		},
		{
			name:          "string-typed numbers accepted",
			raw:           `{"technical_score": "73", "communication_score": "68", "confidence_score": "81"}`,
			wantTechnical: 73,
			wantComm:      68,
			wantConf:      81,
		},
		{
			name:          "pure prose falls back to neutral triple",
			raw:           "The candidate did quite well overall, I would say.",
			wantTechnical: NeutralScore,
			wantComm:      NeutralScore,
			wantConf:      NeutralScore,
		},
		{
			name:          "empty input falls back to neutral triple",
			raw:           "",
			wantTechnical: NeutralScore,
			wantComm:      NeutralScore,
			wantConf:      NeutralScore,
		},
		{
			name:          "unbalanced braces fall back",
			raw:           `{"technical_score": 85, "communication_score": 90`,
			wantTechnical: NeutralScore,
			wantComm:      NeutralScore,
			wantConf:      NeutralScore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.ExtractScores(tt.raw)

			if got.Technical != tt.wantTechnical {
				t.Errorf("Technical = %d, want %d", got.Technical, tt.wantTechnical)
			}
			if got.Communication != tt.wantComm {
				t.Errorf("Communication = %d, want %d", got.Communication, tt.wantComm)
			}
			if got.Confidence != tt.wantConf {
				t.Errorf("Confidence = %d, want %d", got.Confidence, tt.wantConf)
			}

			if got.Technical < 0 || got.Technical > 100 ||
				got.Communication < 0 || got.Communication > 100 ||
				got.Confidence < 0 || got.Confidence > 100 {
				t.Errorf("scores out of [0,100]: %+v", got)
			}
		})
	}
}

func TestExtractTurn(t *testing.T) {
	e := New(nopLogger{})

	tests := []struct {
		name      string
		raw       string
		wantQ     string
		wantIdeal string
	}{
		{
			name:      "bare JSON",
			raw:       `{"question": "What is a goroutine?", "ideal_answer": "A lightweight thread managed by the Go runtime."}`,
			wantQ:     "What is a goroutine?",
			wantIdeal: "A lightweight thread managed by the Go runtime.",
		},
		{
			name:      "fenced JSON with chatter",
			raw:       "Of course!\n```json\n{\"question\": \"Explain REST.\", \"ideal_answer\": \"Stateless resource-oriented HTTP APIs.\"}\n```",
			wantQ:     "Explain REST.",
			wantIdeal: "Stateless resource-oriented HTTP APIs.",
		},
		{
			name:      "question only gets default ideal answer",
			raw:       `{"question": "Tell me about channels."}`,
			wantQ:     "Tell me about channels.",
			wantIdeal: FallbackIdealAnswer,
		},
		{
			name:      "garbage gets full fallback",
			raw:       "I'm sorry, I can't do that.",
			wantQ:     FallbackQuestion,
			wantIdeal: FallbackIdealAnswer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.ExtractTurn(tt.raw)

			if got.Question != tt.wantQ {
				t.Errorf("Question = %q, want %q", got.Question, tt.wantQ)
			}
			if got.IdealAnswer != tt.wantIdeal {
				t.Errorf("IdealAnswer = %q, want %q", got.IdealAnswer, tt.wantIdeal)
			}
		})
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	e := New(nopLogger{})

	inputs := []string{
		`{"technical_score": 85, "communication_score": 90, "confidence_score": 80}`,
		"noise before {\"technical_score\": 12} noise after",
		"no structure at all",
		"",
	}

	for _, raw := range inputs {
		first := e.ExtractScores(raw)
		second := e.ExtractScores(raw)
		if first != second {
			t.Errorf("ExtractScores not idempotent for %q: %+v vs %+v", raw, first, second)
		}
	}

	turnInputs := []string{
		`{"question": "Q?", "ideal_answer": "A."}`,
		"nothing here",
	}
	for _, raw := range turnInputs {
		first := e.ExtractTurn(raw)
		second := e.ExtractTurn(raw)
		if first != second {
			t.Errorf("ExtractTurn not idempotent for %q: %+v vs %+v", raw, first, second)
		}
	}
}
