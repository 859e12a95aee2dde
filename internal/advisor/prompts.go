package advisor

import "fmt"

const (
	fitModel    = "gemini-2.0-flash-lite"
	tailorModel = "gemini-2.0-flash"
)

func fitPrompt(resume, jd string) string {
	return fmt.Sprintf(`You are an elite career consultancy AI.
Analyze the following Resume against the Job Description.

RESUME:
%s

JOB DESCRIPTION:
%s

Provide a response in STRICT JSON format with the following keys:
- matchPercentage: (number 0-100)
- missingKeywords: (array of strings of keywords found in JD but not in Resume)
- tailoringTips: (array of 3 specific, actionable tips to improve the resume for this JD)
- calibratedResume: (a short 1-2 sentence executive summary of what to change)`, resume, jd)
}

func coverLetterPrompt(resume, jd, company, title string) string {
	return fmt.Sprintf(`Write a strategic, high-impact cover letter for an internship.
COMPANY: %s
ROLE: %s
JOB DESCRIPTION / LISTING PREVIEW: %s
NOTE: The job description above may be a brief search preview. Focus on the role title, company, and candidate skills rather than specific JD requirements if the description is short.
CANDIDATE RESUME: %s

TONE: Professional, ambitious, and deeply researched.
Keep it strictly under 300 words. Focus on how the candidate's specific skills solve the company's needs.`, company, title, jd, resume)
}

func atsAuditPrompt(resume string) string {
	return fmt.Sprintf(`Analyze this resume for ATS (Applicant Tracking System) compatibility.
RESUME: %s

Check for:
1. Presence of contact information.
2. Clear heading structure.
3. Absence of complex tables/graphics that break parsers.
4. Professional formatting.

Respond in STRICT JSON:
{
    "passed": boolean,
    "score": 0-100,
    "findings": ["finding 1", "finding 2"]
}`, resume)
}

func chatPrompt(query, resumeContext, historyContext string) string {
	return fmt.Sprintf(`You are a professional resume coach. The user is building their resume and has asked:
"%s"

Here is their current resume data (JSON):
%s
%s

Respond in STRICT JSON format:
{
    "message": "Your helpful 2-3 sentence response here. Be specific and actionable.",
    "suggestion": null
}

IMPORTANT about the "suggestion" field:
- If the user asks to CHANGE something specific (like summary, skills, experience),
  set "suggestion" to an object with the field name(s) as keys and new values.
  Example: {"summary": "New improved summary text here"}
  Example: {"skills": "React, Node.js, Python, Docker"}
- If the user is just asking a question or wants general advice, set "suggestion" to null.
- Only include fields that should be changed.`, query, resumeContext, historyContext)
}

const marketFitSystem = "You are an expert Career Strategist. Analyze market fit based on real job listings. Be concise and actionable."

func marketFitPrompt(resumeJSON, jobsContext string) string {
	return fmt.Sprintf(`Analyze this resume against these REAL job listings found online.

RESUME:
%s

LIVE JOB LISTINGS:
%s

Provide a strategic report in Markdown.
Structure:
### Market Fit Score: [Score]/100

### Critical Skill Gaps
- [Skill 1]
- [Skill 2]

### Estimated Market Value
[Salary Range based on listings]

### Strategic Advice
[2-3 actionable sentences]`, resumeJSON, jobsContext)
}

func tailorPrompt(title, company, resumeJSON, jd string) string {
	if title == "" {
		title = "Not specified"
	}
	if company == "" {
		company = "Not specified"
	}
	return fmt.Sprintf(`You are an expert Resume Strategist.
Tailor this resume for the following Job Description (JD).

TARGET ROLE: %s
TARGET COMPANY: %s

RESUME (JSON):
%s

JOB DESCRIPTION:
%s

INSTRUCTIONS:
1. Analyze the JD for keywords and required skills.
2. Rewrite the 'summary', 'experience' (description bullets), and 'skills' to align with the JD.
3. Do NOT invent false information. Only rephrase existing experience to highlight relevance.
4. Return the COMPLETE tailored resume as valid JSON.

Output strictly JSON.`, title, company, resumeJSON, jd)
}

const tailorFallbackSystem = "You are an expert Resume Strategist. Output ONLY valid JSON."

func tailorFallbackPrompt(resumeJSON, jd string) string {
	return fmt.Sprintf("Tailor this resume to the JD. Return JSON.\n\nRESUME: %s\nJD: %s", resumeJSON, jd)
}
