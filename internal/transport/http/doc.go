// Package http exposes the dashboard REST surface: dataset access, KPI
// snapshots, filter and theme mutation, chart pages and export
// downloads. Handlers translate application errors to JSON through the
// shared taxonomy mapping.
package http
