// Package advisor hosts the thin AI features around the extraction
// pipeline: fit analysis, cover letters, ATS audits, resume chat,
// market analysis and resume tailoring. Each makes at most one or two
// provider calls and degrades to a canned response when the relevant
// credential is missing.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"internship-sniper-backend/internal/jobsearch"
	"internship-sniper-backend/internal/llm"
	"internship-sniper-backend/internal/llm/chatapi"
	"internship-sniper-backend/internal/llm/gemini"
	"internship-sniper-backend/internal/telemetry"
	"internship-sniper-backend/internal/util"
)

// ErrInvalidResponse means a provider answered but the answer could not
// be parsed into the expected structure.
var ErrInvalidResponse = errors.New("provider returned an invalid response")

// TextGenerator is the slice of the Gemini client the advisor needs.
type TextGenerator interface {
	GenerateContent(ctx context.Context, model, prompt string, images []gemini.InlinePart) (string, error)
}

// ChatCompleter is the slice of the chat-completion client the advisor
// needs.
type ChatCompleter interface {
	Complete(ctx context.Context, messages []chatapi.Message, maxTokens int, temperature float32) (string, error)
}

// LiveSearch fetches organic listings for market-fit context. The
// jobsearch Serper client satisfies it.
type LiveSearch interface {
	Search(ctx context.Context, query, countryCode string, num, start int) ([]jobsearch.OrganicResult, error)
}

// Service implements the advisor features. Any client may be nil, which
// switches the corresponding feature into its simulated or degraded
// mode.
type Service struct {
	Gemini TextGenerator
	Kimi   ChatCompleter
	Search LiveSearch
}

// NewService constructs a Service.
func NewService(gem TextGenerator, kimi ChatCompleter, search LiveSearch) *Service {
	return &Service{Gemini: gem, Kimi: kimi, Search: search}
}

// AnalyzeFit compares a resume against a job description.
func (s *Service) AnalyzeFit(ctx context.Context, resume, jd string) (map[string]any, error) {
	safeResume := util.SanitizeInput(resume, 10000)
	safeJD := util.SanitizeInput(jd, 8000)

	if s.Gemini == nil {
		return map[string]any{
			"matchPercentage": rand.Intn(20) + 75,
			"missingKeywords": []string{"Python", "Cloud Computing", "System Architecture"},
			"tailoringTips": []string{
				"Highlight your experience with 'Agile Methodologies'.",
				"Add a Gemini API Key to activate real-time intelligence.",
			},
			"calibratedResume": "Please add your Gemini API Key in the backend .env to see real suggestions.",
		}, nil
	}

	text, err := s.Gemini.GenerateContent(ctx, fitModel, fitPrompt(safeResume, safeJD), nil)
	if err != nil {
		return nil, err
	}
	parsed, ok := llm.CleanAndParseJSON(text)
	if !ok {
		telemetry.Warn("advisor.fit.invalid_json", map[string]any{"raw": util.Truncate(text, 200)})
		return nil, ErrInvalidResponse
	}
	return parsed, nil
}

// CoverLetter drafts a cover letter for one listing.
func (s *Service) CoverLetter(ctx context.Context, resume, jd, company, title string) (string, error) {
	if s.Gemini == nil {
		return "Cover Letter Engine simulated: [Professional letter would appear here]", nil
	}
	return s.Gemini.GenerateContent(ctx, fitModel, coverLetterPrompt(
		util.SanitizeInput(resume, 10000),
		util.SanitizeInput(jd, 8000),
		util.SanitizeInput(company, 200),
		util.SanitizeInput(title, 200),
	), nil)
}

// ATSAudit checks a resume for applicant-tracking-system compatibility.
func (s *Service) ATSAudit(ctx context.Context, resume string) (map[string]any, error) {
	if s.Gemini == nil {
		return map[string]any{
			"passed":   true,
			"score":    85,
			"findings": []string{"Simulated Audit: Structure looks clean."},
		}, nil
	}

	text, err := s.Gemini.GenerateContent(ctx, fitModel, atsAuditPrompt(util.SanitizeInput(resume, 10000)), nil)
	if err != nil {
		return nil, err
	}
	parsed, ok := llm.CleanAndParseJSON(text)
	if !ok {
		telemetry.Warn("advisor.ats.invalid_json", map[string]any{"raw": util.Truncate(text, 200)})
		return nil, ErrInvalidResponse
	}
	return parsed, nil
}

// ChatTurn is one prior exchange in the resume chat.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatReply is the coach's answer plus an optional set of field edits.
type ChatReply struct {
	Message    string `json:"message"`
	Suggestion any    `json:"suggestion"`
}

var simulatedChatReplies = []string{
	"Try adding more quantifiable achievements to your experience section. For example, 'Increased efficiency by 30%'.",
	"Your skills section could benefit from industry-specific keywords. Consider adding: Agile, CI/CD, Cloud Computing.",
	"A strong professional summary should be 2-3 sentences highlighting your value proposition.",
	"For ATS compatibility, use standard section headings like 'Work Experience', 'Education', 'Skills'.",
}

// Chat answers one resume-coach question with optional suggested edits.
func (s *Service) Chat(ctx context.Context, query, resumeContext string, history []ChatTurn) (ChatReply, error) {
	if s.Gemini == nil {
		return ChatReply{Message: simulatedChatReplies[rand.Intn(len(simulatedChatReplies))]}, nil
	}

	historyContext := ""
	if len(history) > 0 {
		var b strings.Builder
		b.WriteString("\n\nPrevious conversation:\n")
		for _, turn := range history {
			fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Content)
		}
		historyContext = b.String()
	}

	text, err := s.Gemini.GenerateContent(ctx, fitModel, chatPrompt(
		util.SanitizeInput(query, 2000),
		util.SanitizeInput(resumeContext, 8000),
		historyContext,
	), nil)
	if err != nil {
		return ChatReply{}, err
	}

	if parsed, ok := llm.CleanAndParseJSON(text); ok {
		if message, _ := parsed["message"].(string); message != "" {
			return ChatReply{Message: message, Suggestion: parsed["suggestion"]}, nil
		}
	}
	// Unstructured reply still has value; pass it through as-is.
	return ChatReply{Message: strings.TrimSpace(text)}, nil
}

// MarketFit produces a market analysis of the resume against live
// listings. Returns the degraded message and false when the analysis
// provider is not configured.
func (s *Service) MarketFit(ctx context.Context, resumeContext json.RawMessage, country string) (string, bool, error) {
	if s.Kimi == nil {
		return "To unlock Deep Market Analysis, please add your NVIDIA API Key to the backend .env file.", false, nil
	}
	safeCountry := util.SanitizeInput(country, 100)
	if safeCountry == "" {
		safeCountry = "India"
	}

	jobsContext := s.marketContext(ctx, resumeContext, safeCountry)
	if jobsContext == "" {
		jobsContext = "No live job data available. Provide general market advice based on the resume."
	}

	resumeJSON := util.Truncate(string(resumeContext), 3000)
	callCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
	defer cancel()
	analysis, err := s.Kimi.Complete(callCtx, []chatapi.Message{
		{Role: "system", Content: marketFitSystem},
		{Role: "user", Content: marketFitPrompt(resumeJSON, jobsContext)},
	}, 2000, 0.2)
	if err != nil {
		return "", false, err
	}
	return analysis, true, nil
}

func (s *Service) marketContext(ctx context.Context, resumeContext json.RawMessage, country string) string {
	if s.Search == nil {
		return ""
	}

	var fields struct {
		Title  string `json:"title"`
		Skills string `json:"skills"`
	}
	_ = json.Unmarshal(resumeContext, &fields)
	if fields.Title == "" {
		fields.Title = "software engineer"
	}
	topSkills := strings.Split(fields.Skills, ",")
	if len(topSkills) > 3 {
		topSkills = topSkills[:3]
	}
	query := strings.TrimSpace(fmt.Sprintf("internship %s %s", fields.Title, strings.Join(topSkills, " ")))

	code, ok := map[string]string{
		"India":          "in",
		"United States":  "us",
		"United Kingdom": "uk",
		"Canada":         "ca",
		"Australia":      "au",
		"Germany":        "de",
	}[country]
	if !ok {
		code = "in"
	}

	hits, err := s.Search.Search(ctx, fmt.Sprintf("%s internship %s", query, country), code, 5, 0)
	if err != nil {
		telemetry.Warn("advisor.market.search_failed", map[string]any{"error": err.Error()})
		return ""
	}

	parts := make([]string, 0, len(hits))
	for i, h := range hits {
		snippet := h.Snippet
		if snippet == "" {
			snippet = "N/A"
		}
		parts = append(parts, fmt.Sprintf("Job %d: %s\nURL: %s\nSnippet: %s", i+1, h.Title, h.Link, snippet))
	}
	return strings.Join(parts, "\n\n")
}

// TailorResult carries the tailored record plus an optional warning when
// no provider could be used.
type TailorResult struct {
	TailoredData any    `json:"tailoredData"`
	Warning      string `json:"warning,omitempty"`
}

// Tailor rewrites a resume for a specific listing, trying the vision
// provider's text mode first and falling back to the chat provider. With
// no credentials at all it returns the input unchanged plus a warning.
func (s *Service) Tailor(ctx context.Context, resumeData json.RawMessage, jd, title, company string) TailorResult {
	safeJD := util.SanitizeInput(jd, 8000)
	safeTitle := util.SanitizeInput(title, 200)
	safeCompany := util.SanitizeInput(company, 200)

	if s.Gemini != nil {
		prompt := tailorPrompt(safeTitle, safeCompany, util.Truncate(string(resumeData), 6000), safeJD)
		text, err := s.Gemini.GenerateContent(ctx, tailorModel, prompt, nil)
		if err == nil {
			if parsed, ok := llm.CleanAndParseJSON(text); ok && hasResumeFields(parsed) {
				return TailorResult{TailoredData: parsed}
			}
			telemetry.Warn("advisor.tailor.invalid_json", map[string]any{"provider": "gemini"})
		} else {
			telemetry.Warn("advisor.tailor.call_failed", map[string]any{
				"provider": "gemini",
				"error":    util.Truncate(err.Error(), 200),
			})
		}
	}

	if s.Kimi != nil {
		callCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
		defer cancel()
		content, err := s.Kimi.Complete(callCtx, []chatapi.Message{
			{Role: "system", Content: tailorFallbackSystem},
			{Role: "user", Content: tailorFallbackPrompt(util.Truncate(string(resumeData), 5000), util.Truncate(safeJD, 5000))},
		}, 4000, 0.2)
		if err == nil {
			if parsed, ok := llm.CleanAndParseJSON(content); ok && hasResumeFields(parsed) {
				return TailorResult{TailoredData: parsed}
			}
			telemetry.Warn("advisor.tailor.invalid_json", map[string]any{"provider": "kimi"})
		} else {
			telemetry.Warn("advisor.tailor.call_failed", map[string]any{
				"provider": "kimi",
				"error":    util.Truncate(err.Error(), 200),
			})
		}
	}

	var original any
	if err := json.Unmarshal(resumeData, &original); err != nil {
		original = string(resumeData)
	}
	return TailorResult{
		TailoredData: original,
		Warning:      "No AI API keys configured. Your original resume was returned unchanged. Add GEMINI_API_KEY or NVIDIA_API_KEY to .env to enable AI tailoring.",
	}
}

func hasResumeFields(parsed map[string]any) bool {
	for _, key := range []string{"name", "summary", "skills"} {
		if v, ok := parsed[key].(string); ok && v != "" {
			return true
		}
	}
	return false
}
