package resume

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ExperienceEntry is one position on a resume.
type ExperienceEntry struct {
	Company     string `json:"company"`
	Title       string `json:"title"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// Record is the canonical structured output of the extraction pipeline.
// Every field is always present, possibly empty; Experience always carries
// at least one entry so form-driven consumers have a row to bind to.
type Record struct {
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Phone       string            `json:"phone"`
	Title       string            `json:"title"`
	Location    string            `json:"location"`
	LinkedIn    string            `json:"linkedin"`
	Summary     string            `json:"summary"`
	Experience  []ExperienceEntry `json:"experience"`
	Degree      string            `json:"degree"`
	Institution string            `json:"institution"`
	GradYear    string            `json:"gradYear"`
	CGPA        string            `json:"cgpa"`
	Skills      string            `json:"skills"`
	Projects    string            `json:"projects"`
}

// EmptyRecord returns a structurally complete record whose summary carries
// a human-readable explanation of why extraction produced nothing.
func EmptyRecord(message string) Record {
	if strings.TrimSpace(message) == "" {
		message = "Please fill in your details manually."
	}
	return Record{
		Summary:    message,
		Experience: []ExperienceEntry{{}},
	}
}

// Normalize coerces a tier's raw success payload into the fixed Record
// schema. It is pure and total: missing or oddly-typed fields become empty
// strings, and the experience list always ends up with at least one entry.
func Normalize(raw map[string]any) Record {
	rec := Record{
		Name:        coerceString(raw["name"]),
		Email:       coerceString(raw["email"]),
		Phone:       coerceString(raw["phone"]),
		Title:       coerceString(raw["title"]),
		Location:    coerceString(raw["location"]),
		LinkedIn:    coerceString(raw["linkedin"]),
		Summary:     coerceString(raw["summary"]),
		Degree:      coerceString(raw["degree"]),
		Institution: coerceString(raw["institution"]),
		GradYear:    coerceString(raw["gradYear"]),
		CGPA:        coerceString(raw["cgpa"]),
		Skills:      coerceText(raw["skills"]),
		Projects:    coerceText(raw["projects"]),
		Experience:  coerceExperience(raw["experience"]),
	}
	if len(rec.Experience) == 0 {
		rec.Experience = []ExperienceEntry{{}}
	}
	return rec
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// coerceText accepts the free-text fields (skills, projects) that some
// providers return as arrays or objects instead of a single string.
func coerceText(v any) string {
	switch t := v.(type) {
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := coerceText(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	default:
		return coerceString(v)
	}
}

func coerceExperience(v any) []ExperienceEntry {
	switch t := v.(type) {
	case []any:
		entries := make([]ExperienceEntry, 0, len(t))
		for _, item := range t {
			switch e := item.(type) {
			case map[string]any:
				entries = append(entries, ExperienceEntry{
					Company:     coerceString(e["company"]),
					Title:       coerceString(e["title"]),
					Duration:    coerceString(e["duration"]),
					Description: coerceString(e["description"]),
				})
			case string:
				if strings.TrimSpace(e) != "" {
					entries = append(entries, ExperienceEntry{Description: e})
				}
			}
		}
		return entries
	case map[string]any:
		return []ExperienceEntry{{
			Company:     coerceString(t["company"]),
			Title:       coerceString(t["title"]),
			Duration:    coerceString(t["duration"]),
			Description: coerceString(t["description"]),
		}}
	default:
		return nil
	}
}
