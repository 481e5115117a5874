package bootstrap

import "strings"

// logStartupReport logs one structured line per subsystem so a deployment's
// effective wiring is visible at startup.
func (a *App) logStartupReport() {
	a.Logger.Info("application started", map[string]interface{}{
		"name":        a.Cfg.Name,
		"version":     a.Cfg.Version,
		"environment": a.Cfg.Environment,
	})

	sources := "none"
	if len(a.sourceNames) > 0 {
		sources = strings.Join(a.sourceNames, ",")
	}
	a.Logger.Info("detection configured", map[string]interface{}{
		"sources":       sources,
		"scan_interval": a.Cfg.Detection.ScanInterval.String(),
	})

	a.Logger.Info("transcription configured", map[string]interface{}{
		"language":         a.Cfg.Transcription.Language,
		"threshold":        a.Cfg.Transcription.ConfidenceThreshold,
		"threshold_policy": string(a.Cfg.Transcription.ThresholdPolicy),
	})

	a.Logger.Info("generation configured", map[string]interface{}{
		"provider":            a.Cfg.Generation.Provider,
		"model":               a.Cfg.Generation.Model,
		"available":           strings.Join(a.Generation.Available(), ","),
		"stream_idle_timeout": a.Cfg.Summary.StreamIdleTimeout.String(),
	})

	a.Logger.Info("telemetry configured", map[string]interface{}{
		"enabled":  a.Cfg.Telemetry.Enabled,
		"endpoint": a.Cfg.Telemetry.Endpoint,
	})
}
