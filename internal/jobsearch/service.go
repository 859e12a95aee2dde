package jobsearch

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"internship-sniper-backend/internal/telemetry"
)

const resultsPerPlatform = 5

var platforms = []string{"unstop.com", "internshala.com", "linkedin.com/jobs"}

var countryCodes = map[string]string{
	"india":          "in",
	"united states":  "us",
	"united kingdom": "uk",
	"canada":         "ca",
	"germany":        "de",
	"australia":      "au",
	"singapore":      "sg",
	"uae":            "ae",
}

var (
	internshipTitleRe = regexp.MustCompile(`(?i)(.*) Internship`)
	salaryRe          = regexp.MustCompile(`₹[0-9,]+`)
	companySepRe      = regexp.MustCompile(`[|:\-]`)
	companyAtRe       = regexp.MustCompile(`(?i)at`)
	locationSepRe     = regexp.MustCompile(`(?i)in `)
	locationEndRe     = regexp.MustCompile(`[.,]`)
	skillSepRe        = regexp.MustCompile(`[,;|]+`)
)

// Job is one aggregated listing.
type Job struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Source      string `json:"source"`
	SourceType  string `json:"source_type"`
	Score       int    `json:"score"`
	Simulated   bool   `json:"simulated,omitempty"`
	URL         string `json:"url"`
	Salary      string `json:"salary"`
	Description string `json:"description"`
}

// Query is one aggregated search request.
type Query struct {
	Query      string
	UserSkills string
	Country    string
	Page       int
}

// Searcher is the slice of the Serper client the service needs.
type Searcher interface {
	Search(ctx context.Context, query, countryCode string, num, start int) ([]OrganicResult, error)
}

// Service fans one query out to every platform in parallel and merges
// the scored results. A nil client means no search credential is
// configured; the service then serves simulated listings.
type Service struct {
	Client Searcher
}

// NewService constructs a Service.
func NewService(client Searcher) *Service {
	return &Service{Client: client}
}

// Search returns aggregated listings for the query. Per-platform
// failures are logged and skipped; the merged result is never an error.
func (s *Service) Search(ctx context.Context, q Query) []Job {
	if s.Client == nil {
		return SimulatedJobs(q.Query)
	}

	if q.Query == "" {
		q.Query = "internship"
	}
	if q.Country == "" {
		q.Country = "India"
	}
	if q.Page < 1 {
		q.Page = 1
	}
	startOffset := (q.Page - 1) * resultsPerPlatform

	countryCode, ok := countryCodes[strings.ToLower(q.Country)]
	if !ok {
		countryCode = "us"
	}

	skills := parseSkills(q.UserSkills)

	// One goroutine per platform; each fills its own slot so the merged
	// order stays stable regardless of completion order.
	perPlatform := make([][]OrganicResult, len(platforms))
	g, gctx := errgroup.WithContext(ctx)
	for i, platform := range platforms {
		i, platform := i, platform
		g.Go(func() error {
			searchQuery := fmt.Sprintf("site:%s internship %s %s", platform, q.Query, q.Country)
			results, err := s.Client.Search(gctx, searchQuery, countryCode, resultsPerPlatform, startOffset)
			if err != nil {
				telemetry.Warn("jobsearch.platform_failed", map[string]any{
					"platform": platform,
					"error":    err.Error(),
				})
				return nil
			}
			perPlatform[i] = results
			return nil
		})
	}
	_ = g.Wait()

	var jobs []Job
	for _, results := range perPlatform {
		for _, r := range results {
			jobs = append(jobs, buildJob(r, q.Country, skills, len(jobs)))
		}
	}
	return jobs
}

func parseSkills(raw string) []string {
	var skills []string
	for _, s := range skillSepRe.Split(strings.ToLower(raw), -1) {
		if s = strings.TrimSpace(s); len(s) > 1 {
			skills = append(skills, s)
		}
	}
	return skills
}

func buildJob(r OrganicResult, country string, skills []string, globalIndex int) Job {
	rawTitle := r.Title
	if rawTitle == "" {
		rawTitle = "Internship Position"
	}
	title := rawTitle
	if m := internshipTitleRe.FindStringSubmatch(rawTitle); m != nil {
		title = strings.TrimSpace(m[1]) + " Intern"
	}

	salary := "Competitive Stipend"
	if m := salaryRe.FindString(r.Snippet); m != "" {
		salary = m + " /mo"
	}

	source := "LinkedIn India"
	switch {
	case strings.Contains(r.Link, "unstop"):
		source = "Unstop"
	case strings.Contains(r.Link, "internshala"):
		source = "Internshala"
	}

	location := country + " (Remote)"
	if strings.Contains(strings.ToLower(r.Snippet), "in ") {
		if parts := locationSepRe.Split(r.Snippet, 2); len(parts) > 1 {
			loc := strings.TrimSpace(locationEndRe.Split(parts[1], 2)[0])
			if len(loc) > 30 {
				loc = loc[:30]
			}
			if loc != "" {
				location = loc
			}
		}
	}

	idSource := r.Link
	if idSource == "" {
		idSource = strconv.Itoa(globalIndex)
	}
	sum := md5.Sum([]byte(idSource))
	id := hex.EncodeToString(sum[:])[:16]

	score := -1
	if len(skills) > 0 {
		haystack := strings.ToLower(rawTitle + " " + r.Snippet)
		matched := 0
		for _, skill := range skills {
			if strings.Contains(haystack, skill) {
				matched++
			}
		}
		score = int(float64(matched)/float64(len(skills))*100 + 0.5)
		// Small positional boost for top results, clamped to 5-100.
		boost := 5 - globalIndex
		if boost < 0 {
			boost = 0
		}
		score += boost
		if score > 100 {
			score = 100
		}
		if score < 5 {
			score = 5
		}
	}

	return Job{
		ID:          id,
		Title:       title,
		Company:     companyFromTitle(rawTitle),
		Location:    location,
		Source:      source,
		SourceType:  "Live Verification Ready",
		Score:       score,
		URL:         r.Link,
		Salary:      salary,
		Description: r.Snippet,
	}
}

func companyFromTitle(rawTitle string) string {
	if parts := companySepRe.Split(rawTitle, -1); len(parts) > 1 {
		if c := strings.TrimSpace(parts[1]); c != "" {
			return c
		}
	}
	if parts := companyAtRe.Split(rawTitle, 2); len(parts) > 1 {
		if c := strings.TrimSpace(parts[1]); c != "" {
			return c
		}
	}
	return "Company"
}

// SimulatedJobs returns sample listings for use when no search
// credential is configured.
func SimulatedJobs(query string) []Job {
	if query == "" {
		query = "internship"
	}
	sources := []string{"Unstop", "Internshala", "LinkedIn India"}
	locations := []string{"Bangalore", "Mumbai", "Delhi NCR", "Pune"}
	urls := []string{"https://unstop.com", "https://internshala.com", "https://linkedin.com/jobs"}

	jobs := make([]Job, 6)
	for i := range jobs {
		jobs[i] = Job{
			ID:          fmt.Sprintf("sim-%d", i),
			Title:       titleCase(query) + " Intern",
			Company:     "Sample Company",
			Location:    locations[i%len(locations)],
			Source:      sources[i%len(sources)],
			SourceType:  "Sample",
			Score:       -1,
			Simulated:   true,
			URL:         urls[i%len(urls)],
			Salary:      "Not specified",
			Description: fmt.Sprintf("Sample %s listing. Add your SERPER_API_KEY in .env to see real job results from multiple platforms.", query),
		}
	}
	return jobs
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
