package resume

import (
	"context"
	"regexp"
	"strings"

	"internship-sniper-backend/internal/util"
)

var (
	brokenEmailRe = regexp.MustCompile(`(?i)([a-z0-9._%+-])\s+@\s+([a-z0-9.-])`)
	multiBlankRe  = regexp.MustCompile(`\n{3,}`)

	emailRe    = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phoneRe    = regexp.MustCompile(`[+]?[(]?[0-9]{1,4}[)]?[-\s.]?[0-9]{3,}[-\s.]?[0-9]{3,}[-\s.]?[0-9]{2,}`)
	linkedinRe = regexp.MustCompile(`(?i)linkedin\.com/in/[\w-]+`)

	nameSepRe   = regexp.MustCompile(`[|,\t]|\s{3,}`)
	nameCityRe  = regexp.MustCompile(`(?i)\b(Hyderabad|Mumbai|Bangalore|Delhi|India|Pune|Chennai|UK|USA)\b`)
	locationRe  = regexp.MustCompile(`(?i)(?:Hyderabad|New York|London|Bangalore|Pune|Delhi)[^|\n]*`)
	degreeRe    = regexp.MustCompile(`(?i)(?:B\.Tech|Bachelor|M\.Tech|Master|B\.S\.|M\.S\.)[\s\w]*`)
	gradYearRe  = regexp.MustCompile(`\d{4}`)
	cgpaRe      = regexp.MustCompile(`\d\.\d`)
)

// Section title patterns, checked in this order against each line. A
// matching line shorter than 40 characters switches the current section
// and contributes no text itself.
var sectionHeaders = []struct {
	name string
	re   *regexp.Regexp
}{
	{"experience", regexp.MustCompile(`(?i)experience|work history|employment`)},
	{"education", regexp.MustCompile(`(?i)education|academic|qualification`)},
	{"skills", regexp.MustCompile(`(?i)skills|technical skills|competencies|technologies`)},
	{"projects", regexp.MustCompile(`(?i)projects|academic projects`)},
	{"summary", regexp.MustCompile(`(?i)summary|profile|about me|objective`)},
}

// RegexTier is the deterministic terminal fallback. It is pure and
// total: the same text always yields the same payload, and the attempt
// never reports anything but success.
type RegexTier struct{}

func (RegexTier) Name() string { return "regex" }

func (RegexTier) Attempt(ctx context.Context, run *Run) (map[string]any, Outcome) {
	text := run.Text(ctx)
	if nonSpaceCount(text) < minExtractableChars {
		return map[string]any{
			"summary": "Could not extract text. Please try a different file format.",
		}, OutcomeSuccess
	}
	return parseWithPatterns(text), OutcomeSuccess
}

// parseWithPatterns runs the sectional regex parse over raw document
// text and returns a payload in the same shape the AI tiers emit.
func parseWithPatterns(text string) map[string]any {
	normalized := brokenEmailRe.ReplaceAllString(text, "$1@$2")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	normalized = multiBlankRe.ReplaceAllString(normalized, "\n\n")

	var lines []string
	for _, l := range strings.Split(normalized, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}

	sections := map[string]string{"header": ""}
	active := "header"
	for _, line := range lines {
		isHeader := false
		for _, h := range sectionHeaders {
			if h.re.MatchString(line) && len(line) < 40 {
				active = h.name
				sections[active] = ""
				isHeader = true
				break
			}
		}
		if !isHeader {
			sections[active] += line + "\n"
		}
	}

	name := ""
	if len(lines) > 0 {
		name = lines[0]
	}
	if nameSepRe.MatchString(name) {
		name = strings.TrimSpace(nameSepRe.Split(name, 2)[0])
	}
	name = strings.TrimSpace(nameCityRe.ReplaceAllString(name, ""))

	linkedin := linkedinRe.FindString(normalized)
	if linkedin != "" {
		linkedin = "https://" + linkedin
	}

	education := sections["education"]
	experience := sections["experience"]

	payload := map[string]any{
		"name":        util.Truncate(name, 50),
		"email":       emailRe.FindString(normalized),
		"phone":       phoneRe.FindString(normalized),
		"title":       "",
		"location":    locationRe.FindString(normalized),
		"linkedin":    linkedin,
		"summary":     summaryFromSection(sections["summary"]),
		"degree":      degreeRe.FindString(education),
		"institution": firstLine(education),
		"gradYear":    gradYearRe.FindString(education),
		"cgpa":        cgpaRe.FindString(education),
		"skills":      util.Truncate(strings.ReplaceAll(sections["skills"], "\n", ", "), 800),
		"projects":    util.Truncate(sections["projects"], 2000),
	}
	if experience != "" {
		payload["experience"] = []any{map[string]any{
			"company":     firstLine(experience),
			"title":       "",
			"duration":    "",
			"description": util.Truncate(experience, 1500),
		}}
	}
	return payload
}

// summaryFromSection joins the first 3 lines of the summary section.
func summaryFromSection(s string) string {
	if s == "" {
		return ""
	}
	parts := strings.Split(s, "\n")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return util.Truncate(strings.Join(parts, " "), 500)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
