// Package http implements the HTTP handlers of the dashboard server.
// Handlers are a thin layer between chi routing and the services package:
// they parse the request, call the service and render JSON with go-chi/render.
//
// # Error Handling
//
// Every failure goes through errors.ErrorHandler and is answered with an
// RFC 7807 problem document:
//
//	{
//	    "type": "/errors/data/not-found",
//	    "title": "Data Not Found",
//	    "status": 404,
//	    "detail": "...",
//	    "missing": ["team_revenue_forecast.csv"],
//	    "trace_id": "..."
//	}
//
// # Routes
//
//	GET    /api/dashboard                  all panels, each degrading on its own
//	GET    /api/dashboard/{panel}          summary, forecast, teams, segments, models
//	GET    /api/dashboard/teams/detail.csv team detail table as CSV
//	GET    /api/dashboard/export.xlsx      every panel as an Excel workbook
//	GET    /api/artifacts                  artifact catalog
//	GET    /api/artifacts/{name}           raw rows of one dataset
//	DELETE /api/session                    drop the caller's session cache
package http
