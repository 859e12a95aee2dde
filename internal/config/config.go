package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	Env             string

	SerperAPIKey string

	// Provider credentials for the extraction pipeline. Empty means the
	// corresponding tier is skipped.
	GeminiAPIKey string
	DOAPIKey     string
	NvidiaAPIKey string

	// External binaries for rasterization and OCR.
	PdftoppmPath  string
	TesseractPath string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	_ = godotenv.Load(".env", "../.env")

	env := normalizeEnv(getEnv("ENV", "dev"))

	return Config{
		Port:            getEnv("PORT", "5000"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		Env:             env,
		SerperAPIKey:    realKey(os.Getenv("SERPER_API_KEY"), "your_serper_api_key"),
		GeminiAPIKey:    realKey(os.Getenv("GEMINI_API_KEY"), "your_gemini_api_key"),
		DOAPIKey:        realKey(os.Getenv("DO_API_KEY"), "your_do_api_key"),
		NvidiaAPIKey:    realKey(os.Getenv("NVIDIA_API_KEY"), "your_nvidia_api_key"),
		PdftoppmPath:    getEnv("PDFTOPPM_PATH", "pdftoppm"),
		TesseractPath:   getEnv("TESSERACT_PATH", "tesseract"),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// realKey treats template placeholder values left in .env files as missing.
func realKey(val, placeholder string) string {
	val = strings.TrimSpace(val)
	if val == "" || strings.Contains(val, placeholder) {
		return ""
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	default:
		return "dev"
	}
}
