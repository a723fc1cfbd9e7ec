// Package http implements the HTTP handlers of the catalog web view.
// Handlers are a thin layer over the services package: they parse query
// parameters, delegate, and render JSON with go-chi/render. Every failure goes
// through errors.ErrorHandler and reaches the client as RFC 7807 problem
// details.
//
// # Routes
//
//	GET /api/report            whole report
//	GET /api/report/summary    descriptive summary
//	GET /api/report/genres     genre frequency table, ?top=K for the first K
//	GET /api/report/temporal   temporal aggregates
//	GET /api/report/forecast   growth forecast, 404 when the run skipped it
//	GET /healthz               health with the served run
//	GET /healthz/live          liveness
//	GET /api/version           build information
//
// The router itself, including /metrics, is assembled in internal/app.
package http
