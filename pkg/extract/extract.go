package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"ai-interviewer-be/internal/pkg/logger"
)

// Turn is a generated interview question plus the ideal answer the candidate's
// reply will later be scored against.
type Turn struct {
	Question    string `json:"question"`
	IdealAnswer string `json:"ideal_answer"`
}

// ScoreRecord holds the three per-criterion scores for one answer, each in [0,100].
type ScoreRecord struct {
	Technical     int `json:"technical_score"`
	Communication int `json:"communication_score"`
	Confidence    int `json:"confidence_score"`
}

// Schema defaults. The extractor never fails outward: when no structured
// content can be recovered these values are returned verbatim.
const (
	FallbackQuestion    = "Tell me about a challenging technical problem you solved recently."
	FallbackIdealAnswer = "Evaluate the answer on relevance, clarity and technical depth."
	NeutralScore        = 50
)

var fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// Extractor converts free-form LLM output into typed records. All paths are
// deterministic, so extracting twice from the same text yields the same record.
type Extractor struct {
	logger logger.ILogger
}

func New(log logger.ILogger) *Extractor {
	return &Extractor{logger: log}
}

// strategy attempts to recover a JSON object from raw text. Strategies are
// tried in order; the first success wins and the schema default is the
// infallible last resort.
type strategy func(string) (string, bool)

var strategies = []strategy{
	parseDirect,
	parseFenced,
	parseBraced,
}

// parseDirect accepts text that already is a bare JSON object.
func parseDirect(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "{") {
		return "", false
	}
	if !json.Valid([]byte(trimmed)) {
		return "", false
	}
	return trimmed, true
}

// parseFenced pulls the object out of a ```json ... ``` markdown block.
func parseFenced(text string) (string, bool) {
	matches := fencedJSONRe.FindStringSubmatch(text)
	if len(matches) < 2 {
		return "", false
	}
	candidate := strings.TrimSpace(matches[1])
	if !json.Valid([]byte(candidate)) {
		return "", false
	}
	return candidate, true
}

// parseBraced scans for the first balanced brace-delimited substring.
func parseBraced(text string) (string, bool) {
	start := strings.Index(text, "{")
	if start == -1 {
		return "", false
	}
	level := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			level++
		case '}':
			level--
			if level == 0 {
				candidate := strings.TrimSpace(text[start : i+1])
				if json.Valid([]byte(candidate)) {
					return candidate, true
				}
				return "", false
			}
		}
	}
	return "", false
}

// recover runs the strategy chain and returns the decoded object, or nil when
// every strategy failed.
func (e *Extractor) recover(raw, schema string) map[string]interface{} {
	for i, s := range strategies {
		jsonStr, ok := s(raw)
		if !ok {
			continue
		}
		var fields map[string]interface{}
		if err := json.Unmarshal([]byte(jsonStr), &fields); err != nil {
			continue
		}
		if i > 0 {
			e.logger.Warn("Extractor", "Recovered structured content via fallback strategy", map[string]interface{}{
				"schema":   schema,
				"strategy": i,
			})
		}
		return fields
	}
	e.logger.Warn("Extractor", "No structured content found, using schema defaults", map[string]interface{}{
		"schema": schema,
		"raw":    truncate(raw, 200),
	})
	return nil
}

// ExtractTurn parses generator output into a question/ideal-answer pair.
func (e *Extractor) ExtractTurn(raw string) Turn {
	fields := e.recover(raw, "turn")
	if fields == nil {
		return Turn{Question: FallbackQuestion, IdealAnswer: FallbackIdealAnswer}
	}
	return Turn{
		Question:    getString(fields, FallbackQuestion, "question"),
		IdealAnswer: getString(fields, FallbackIdealAnswer, "ideal_answer", "answer"),
	}
}

// ExtractScores parses evaluator output into a complete ScoreRecord. Missing
// fields default to the neutral score and values are clamped to [0,100].
func (e *Extractor) ExtractScores(raw string) ScoreRecord {
	fields := e.recover(raw, "scores")
	if fields == nil {
		return ScoreRecord{Technical: NeutralScore, Communication: NeutralScore, Confidence: NeutralScore}
	}
	return ScoreRecord{
		Technical:     getScore(fields, "technical_score", "technical"),
		Communication: getScore(fields, "communication_score", "communication"),
		Confidence:    getScore(fields, "confidence_score", "confidence"),
	}
}

func getString(fields map[string]interface{}, fallback string, keys ...string) string {
	for _, key := range keys {
		if v, ok := fields[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return fallback
}

func getScore(fields map[string]interface{}, keys ...string) int {
	for _, key := range keys {
		v, ok := fields[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return clamp(int(n))
		case string:
			var f float64
			if err := json.Unmarshal([]byte(strings.TrimSpace(n)), &f); err == nil {
				return clamp(int(f))
			}
		}
	}
	return NeutralScore
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
