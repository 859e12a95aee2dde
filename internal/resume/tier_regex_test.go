package resume

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"internship-sniper-backend/internal/document"
)

const janeDoeResume = "Jane Doe\njane.doe@example.com\n+1 415-555-0100\nEXPERIENCE\nAcme Corp — Engineer\nBuilt things.\nEDUCATION\nB.Tech Computer Science, MIT\n2022\nCGPA: 8.9\nSKILLS\nPython, Go\n"

func regexRun(text string) *Run {
	return &Run{
		Doc:    document.Document{FileName: "resume.txt", ContentType: "text/plain"},
		source: &stubTextSource{text: text},
	}
}

func TestRegexTierJaneDoe(t *testing.T) {
	raw, outcome := RegexTier{}.Attempt(context.Background(), regexRun(janeDoeResume))
	if outcome != OutcomeSuccess {
		t.Fatalf("outcome = %v", outcome)
	}
	rec := Normalize(raw)

	if rec.Name != "Jane Doe" {
		t.Errorf("name = %q", rec.Name)
	}
	if rec.Email != "jane.doe@example.com" {
		t.Errorf("email = %q", rec.Email)
	}
	if !strings.Contains(rec.Phone, "415") || !strings.Contains(rec.Phone, "0100") {
		t.Errorf("phone = %q", rec.Phone)
	}
	if !strings.HasPrefix(rec.Degree, "B.Tech") {
		t.Errorf("degree = %q", rec.Degree)
	}
	if !strings.Contains(rec.Institution, "MIT") {
		t.Errorf("institution = %q", rec.Institution)
	}
	if rec.GradYear != "2022" {
		t.Errorf("gradYear = %q", rec.GradYear)
	}
	if rec.CGPA != "8.9" {
		t.Errorf("cgpa = %q", rec.CGPA)
	}
	if !strings.Contains(rec.Skills, "Python, Go") {
		t.Errorf("skills = %q", rec.Skills)
	}
	if len(rec.Experience) == 0 || rec.Experience[0].Company != "Acme Corp — Engineer" {
		t.Errorf("experience = %+v", rec.Experience)
	}
}

func TestRegexTierDeterministic(t *testing.T) {
	first, _ := RegexTier{}.Attempt(context.Background(), regexRun(janeDoeResume))
	second, _ := RegexTier{}.Attempt(context.Background(), regexRun(janeDoeResume))
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same input produced different payloads:\n%v\n%v", first, second)
	}
}

func TestRegexTierShortText(t *testing.T) {
	raw, outcome := RegexTier{}.Attempt(context.Background(), regexRun("abc"))
	if outcome != OutcomeSuccess {
		t.Fatalf("outcome = %v", outcome)
	}
	rec := Normalize(raw)
	if rec.Summary == "" {
		t.Fatal("expected explanatory summary")
	}
	if rec.Name != "" || rec.Email != "" || rec.Skills != "" {
		t.Fatalf("expected empty fields, got %+v", rec)
	}
	if len(rec.Experience) != 1 {
		t.Fatalf("expected placeholder experience entry")
	}
}

func TestRegexTierRepairsBrokenEmail(t *testing.T) {
	raw, _ := RegexTier{}.Attempt(context.Background(), regexRun("John Smith\njohn @ example.com\nmore resume content here"))
	rec := Normalize(raw)
	if rec.Email != "john@example.com" {
		t.Fatalf("email = %q", rec.Email)
	}
}

func TestRegexTierNameSeparatorAndCityStrip(t *testing.T) {
	raw, _ := RegexTier{}.Attempt(context.Background(), regexRun("Asha Rao | Software Developer\nasha@example.com\nplenty of text follows"))
	rec := Normalize(raw)
	if rec.Name != "Asha Rao" {
		t.Fatalf("name = %q", rec.Name)
	}

	raw, _ = RegexTier{}.Attempt(context.Background(), regexRun("Ravi Kumar Hyderabad\nravi@example.com\nplenty of text follows"))
	rec = Normalize(raw)
	if rec.Name != "Ravi Kumar" {
		t.Fatalf("name = %q", rec.Name)
	}
}

func TestRegexTierLinkedInReconstructed(t *testing.T) {
	raw, _ := RegexTier{}.Attempt(context.Background(), regexRun("Jane Doe\nlinkedin.com/in/jane-doe\nmore resume content here"))
	rec := Normalize(raw)
	if rec.LinkedIn != "https://linkedin.com/in/jane-doe" {
		t.Fatalf("linkedin = %q", rec.LinkedIn)
	}
}
