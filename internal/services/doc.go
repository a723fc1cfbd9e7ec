// Package services implements the read side of the catalog web view.
// It sits between the HTTP handlers and a completed pipeline run, so
// handlers only parse requests and render responses.
//
// ReportService exposes the sections of one immutable report and turns
// sections a run did not produce into not-found errors that carry the skip
// reason. HealthService reports process liveness and the run being served.
//
//	reports := services.NewReportService(state.Report(topGenres), logger)
//	genres, err := reports.Genres(ctx, 10)
package services
