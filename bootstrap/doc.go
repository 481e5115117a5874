// Package bootstrap assembles the application from its parts: configuration,
// logging, telemetry, the in-memory repository, the meeting lifecycle
// manager, the transcription session manager, and the summary orchestrator.
//
//	app, err := bootstrap.New(ctx, "meetscribe",
//	    bootstrap.WithDetectionSources(src),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := app.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Run blocks until the context is cancelled or a termination signal arrives,
// then stops monitoring and flushes telemetry within the graceful timeout.
package bootstrap
