package resume

import (
	"fmt"

	"internship-sniper-backend/internal/llm/chatapi"
)

// recordTemplate is the JSON shape every provider is instructed to emit.
const recordTemplate = `{"name":"","email":"","phone":"","title":"","location":"","linkedin":"","summary":"","experience":[{"company":"","title":"","duration":"","description":""}],"degree":"","institution":"","gradYear":"","cgpa":"","skills":"","projects":""}`

const visionPrompt = `You are a resume parser. Extract ALL information from these resume page image(s) into JSON. There may be multiple pages. Combine all data into one JSON object.

Respond with ONLY valid JSON. No markdown, no code blocks.

` + recordTemplate + `

Fill every field you can see across all pages. Use "" for missing fields.`

func qwenMessages(text string) []chatapi.Message {
	return []chatapi.Message{
		{Role: "system", Content: "You are a resume parser. Respond with ONLY valid JSON."},
		{Role: "user", Content: fmt.Sprintf("Parse this resume into JSON:\n\n%s\n\nFormat:\n%s", text, recordTemplate)},
	}
}

func kimiMessages(text string) []chatapi.Message {
	return []chatapi.Message{
		{Role: "user", Content: fmt.Sprintf("You are a resume parser. Extract data from this resume text into JSON.\n\nText:\n%s\n\nOutput strictly this JSON structure:\n%s", text, recordTemplate)},
	}
}
