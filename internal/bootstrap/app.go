// Package bootstrap wires configuration into provider clients, services
// and the HTTP engine. A missing credential disables the corresponding
// capability instead of failing startup: the extraction pipeline skips
// that tier and the advisor features fall back to simulated responses.
package bootstrap

import (
	"time"

	"github.com/gin-gonic/gin"

	"internship-sniper-backend/internal/advisor"
	"internship-sniper-backend/internal/config"
	"internship-sniper-backend/internal/document"
	"internship-sniper-backend/internal/health"
	"internship-sniper-backend/internal/jobsearch"
	"internship-sniper-backend/internal/llm/chatapi"
	"internship-sniper-backend/internal/llm/gemini"
	"internship-sniper-backend/internal/resume"
	"internship-sniper-backend/internal/server"
	"internship-sniper-backend/internal/telemetry"
	"internship-sniper-backend/internal/uploads"
)

const (
	doInferenceURL = "https://inference.do-ai.run/v1/chat/completions"
	nvidiaURL      = "https://integrate.api.nvidia.com/v1/chat/completions"

	qwenModel = "alibaba-qwen3-32b"
	kimiModel = "moonshotai/kimi-k2.5"
)

// App holds the application's shared dependencies.
type App struct {
	Config   config.Config
	Router   *gin.Engine
	Health   *health.Service
	Pipeline *resume.Pipeline
	Jobs     *jobsearch.Service
	Advisor  *advisor.Service
}

// NewApp assembles the application from configuration.
func NewApp(cfg config.Config) *App {
	var gem *gemini.Client
	if cfg.GeminiAPIKey != "" {
		gem = gemini.New(cfg.GeminiAPIKey)
	}
	var qwen *chatapi.Client
	if cfg.DOAPIKey != "" {
		qwen = chatapi.New("do-qwen3", doInferenceURL, cfg.DOAPIKey, qwenModel, 45*time.Second)
	}
	var kimi *chatapi.Client
	if cfg.NvidiaAPIKey != "" {
		// The hard HTTP ceiling covers the slowest caller (market
		// analysis); tier and tailoring calls apply tighter per-call
		// context deadlines.
		kimi = chatapi.New("nvidia-kimi", nvidiaURL, cfg.NvidiaAPIKey, kimiModel, 120*time.Second)
	}

	pipeline := buildPipeline(cfg, gem, qwen, kimi)

	var serper *jobsearch.SerperClient
	if cfg.SerperAPIKey != "" {
		serper = jobsearch.NewSerperClient(cfg.SerperAPIKey)
	}
	jobsSvc := jobsearch.NewService(nil)
	var liveSearch advisor.LiveSearch
	if serper != nil {
		jobsSvc = jobsearch.NewService(serper)
		liveSearch = serper
	}

	var gemIface advisor.TextGenerator
	if gem != nil {
		gemIface = gem
	}
	var kimiIface advisor.ChatCompleter
	if kimi != nil {
		kimiIface = kimi
	}
	advisorSvc := advisor.NewService(gemIface, kimiIface, liveSearch)

	healthSvc := health.NewService()

	telemetry.Info("bootstrap.providers", map[string]any{
		"gemini": gem != nil,
		"qwen":   qwen != nil,
		"kimi":   kimi != nil,
		"serper": serper != nil,
	})

	router := server.NewEngine(cfg, server.Deps{
		Health:  healthSvc,
		Uploads: uploads.NewHandler(pipeline),
		Jobs:    jobsearch.NewHandler(jobsSvc),
		Advisor: advisor.NewHandler(advisorSvc),
	})

	return &App{
		Config:   cfg,
		Router:   router,
		Health:   healthSvc,
		Pipeline: pipeline,
		Jobs:     jobsSvc,
		Advisor:  advisorSvc,
	}
}

// buildPipeline assembles the tier chain from whichever provider
// credentials are present. The regex tier is always last and always
// succeeds.
func buildPipeline(cfg config.Config, gem *gemini.Client, qwen, kimi *chatapi.Client) *resume.Pipeline {
	var tiers []resume.Tier
	if gem != nil {
		tiers = append(tiers, resume.NewVisionTier(gem, document.NewRasterizer(cfg.PdftoppmPath)))
	}
	if qwen != nil {
		tiers = append(tiers, resume.NewQwenTier(qwen))
	}
	if kimi != nil {
		tiers = append(tiers, resume.NewKimiTier(kimi))
	}
	tiers = append(tiers, resume.RegexTier{})

	return resume.New(document.NewTextExtractor(cfg.TesseractPath), tiers...)
}
