package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"edupay-backend/internal/cache"
	"edupay-backend/internal/feeledger"
	"edupay-backend/internal/models"
	"edupay-backend/internal/repositories"
)

const (
	insightCacheTTL  = 10 * time.Minute
	geminiEndpoint   = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"
	insightsFallback = "AI insights unavailable."
)

// InsightService asks Gemini for a narrative summary of the session's fee
// position. The key is optional; without it every call returns the canned
// fallback so the dashboard widget never errors.
type InsightService struct {
	Students   *repositories.StudentRepository
	Structures *repositories.FeeStructureRepository
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

func NewInsightService(
	students *repositories.StudentRepository,
	structures *repositories.FeeStructureRepository,
	apiKey, model string,
) *InsightService {
	return &InsightService{
		Students:   students,
		Structures: structures,
		APIKey:     apiKey,
		Model:      model,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// GenerateInsights returns a short financial summary for the session,
// cached in Redis. Any Gemini failure degrades to the fallback text.
func (s *InsightService) GenerateInsights(ctx context.Context, session string) (string, error) {
	cacheKey := "insights:" + session
	if data, ok := cache.GetCached(ctx, cacheKey); ok {
		return string(data), nil
	}

	prompt, err := s.buildPrompt(ctx, session)
	if err != nil {
		return "", err
	}

	if s.APIKey == "" {
		return insightsFallback, nil
	}

	text, err := s.callGemini(ctx, prompt)
	if err != nil {
		log.Printf("[Insights] Gemini call failed: %v", err)
		return insightsFallback, nil
	}

	cache.SetCached(ctx, cacheKey, []byte(text), insightCacheTTL)
	return text, nil
}

func (s *InsightService) buildPrompt(ctx context.Context, session string) (string, error) {
	students, err := s.Students.ListBySession(ctx, session)
	if err != nil {
		return "", err
	}
	structures, err := s.Structures.ListBySession(ctx, session)
	if err != nil {
		return "", err
	}

	var collected, pending int64
	var paid, partial, unpaid int
	for _, st := range students {
		snap := feeledger.ComputeBalance(st, structures)
		collected += int64(st.TotalPaid)
		pending += int64(snap.DueForDisplay())
		switch st.Status {
		case models.FeeStatusPaid:
			paid++
		case models.FeeStatusPartial:
			partial++
		default:
			unpaid++
		}
	}

	return fmt.Sprintf(
		"You are a school finance assistant. Session %s has %d students: "+
			"%d fully paid, %d partially paid, %d unpaid. "+
			"Collected so far: Rs. %.2f. Pending dues: Rs. %.2f. "+
			"Give 3 short actionable insights for the fee administrator, plain text, no markdown.",
		session, len(students), paid, partial, unpaid,
		float64(collected)/100, float64(pending)/100,
	), nil
}

func (s *InsightService) callGemini(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf(geminiEndpoint, s.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.APIKey)

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("gemini returned %d: %s", resp.StatusCode, raw)
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
