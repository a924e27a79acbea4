// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/advisor/internal/platform/constants"
	"github.com/taibuivan/advisor/internal/platform/respond"
)

// probeTimeout bounds each readiness probe independently of the request timeout.
const probeTimeout = 2 * time.Second

// HealthDependencies are the probes behind /ready. A nil probe is skipped.
type HealthDependencies struct {
	CheckDatabase func(context.Context) error
	CheckCache    func(context.Context) error
}

type probeResult struct {
	Name      string `json:"name"`
	OK        bool   `json:"ok"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// NewHealthHandlers returns the /health (process up) and /ready (dependencies
// reachable) handlers.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	probes := []struct {
		name  string
		check func(context.Context) error
	}{
		{"postgres", deps.CheckDatabase},
		{"redis", deps.CheckCache},
	}

	liveness = func(writer http.ResponseWriter, _ *http.Request) {
		respond.OK(writer, map[string]string{constants.FieldStatus: "ok"})
	}

	readiness = func(writer http.ResponseWriter, request *http.Request) {
		results := make([]probeResult, 0, len(probes))
		status, code := "ready", http.StatusOK

		for _, probe := range probes {
			if probe.check == nil {
				continue
			}
			result := runProbe(request.Context(), probe.name, probe.check)
			if !result.OK {
				status, code = "degraded", http.StatusServiceUnavailable
				logger.ErrorContext(request.Context(), "readiness_check_failed",
					slog.String("dependency", result.Name),
					slog.String("error", result.Error))
			}
			results = append(results, result)
		}

		respond.JSON(writer, code, respond.SuccessEnvelope{Data: map[string]any{
			constants.FieldStatus: status,
			constants.FieldChecks: results,
		}})
	}

	return liveness, readiness
}

func runProbe(ctx context.Context, name string, check func(context.Context) error) probeResult {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	started := time.Now()
	err := check(ctx)
	result := probeResult{Name: name, OK: err == nil, LatencyMS: time.Since(started).Milliseconds()}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}
