// Package moderation classifies submitted text against an external
// Perspective-style scoring service.
package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// UnsafeScoreThreshold is the fixed per-category score at or above which
// text is treated as unsafe. Not configurable.
const UnsafeScoreThreshold = 0.5

// requestedAttributes are the categories scored on every request.
var requestedAttributes = []string{"PROFANITY", "INSULT", "THREAT", "TOXICITY"}

// Verdict holds the per-category scores returned by the scoring service.
// It is transient; only its boolean projection survives as the censored flag.
type Verdict struct {
	Scores map[string]float64
}

// Unsafe reports whether any category score meets the threshold
func (v Verdict) Unsafe() bool {
	for _, score := range v.Scores {
		if score >= UnsafeScoreThreshold {
			return true
		}
	}
	return false
}

type analyzeRequest struct {
	Comment             analyzeComment      `json:"comment"`
	Languages           []string            `json:"languages"`
	RequestedAttributes map[string]struct{} `json:"requestedAttributes"`
}

type analyzeComment struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	AttributeScores map[string]attributeScore `json:"attributeScores"`
}

type attributeScore struct {
	SummaryScore summaryScore `json:"summaryScore"`
}

type summaryScore struct {
	Value float64 `json:"value"`
}

// Classifier scores text through the external endpoint. A single attempt is
// made per call and any failure is treated as unsafe: an ambiguous moderation
// result must never let unsafe-looking content through unmarked.
type Classifier struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
	language   string
}

func NewClassifier(apiURL, apiKey, language string) *Classifier {
	return &Classifier{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiURL:     apiURL,
		apiKey:     apiKey,
		language:   language,
	}
}

// Classify returns true when the text is unsafe
func (c *Classifier) Classify(ctx context.Context, text string) bool {
	verdict, err := c.score(ctx, text)
	if err != nil {
		log.Printf("Moderation scoring failed, treating text as unsafe: %v", err)
		return true
	}
	return verdict.Unsafe()
}

func (c *Classifier) score(ctx context.Context, text string) (Verdict, error) {
	attrs := make(map[string]struct{}, len(requestedAttributes))
	for _, attr := range requestedAttributes {
		attrs[attr] = struct{}{}
	}

	body, err := json.Marshal(analyzeRequest{
		Comment:             analyzeComment{Text: text},
		Languages:           []string{c.language},
		RequestedAttributes: attrs,
	})
	if err != nil {
		return Verdict{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"?key="+c.apiKey, bytes.NewReader(body))
	if err != nil {
		return Verdict{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Verdict{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Verdict{}, &ScoringError{StatusCode: resp.StatusCode}
	}

	var parsed analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Verdict{}, err
	}
	if parsed.AttributeScores == nil {
		return Verdict{}, &ScoringError{StatusCode: resp.StatusCode, Malformed: true}
	}

	scores := make(map[string]float64, len(requestedAttributes))
	for _, attr := range requestedAttributes {
		if s, ok := parsed.AttributeScores[attr]; ok {
			scores[attr] = s.SummaryScore.Value
		}
	}

	return Verdict{Scores: scores}, nil
}

// ScoringError describes a bad response from the scoring service
type ScoringError struct {
	StatusCode int
	Malformed  bool
}

func (e *ScoringError) Error() string {
	if e.Malformed {
		return "scoring service returned a malformed response"
	}
	return "scoring service returned status " + http.StatusText(e.StatusCode)
}
