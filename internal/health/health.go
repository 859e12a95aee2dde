// Package health reports process liveness.
package health

import "time"

// Version is set at build time via -ldflags.
var Version = "dev"

// Service encapsulates health-related checks.
type Service struct {
	started time.Time
}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{started: time.Now()}
}

// Status returns a simple health payload.
func (s *Service) Status() map[string]any {
	return map[string]any{
		"status":  "ok",
		"uptime":  time.Since(s.started).Round(time.Second).String(),
		"version": Version,
	}
}
