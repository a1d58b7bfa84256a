// Package exporter turns filtered tables and rendered charts into
// downloadable artifacts: CSV, Excel workbooks with native charts, and
// PNG/PDF captures of the chart dashboard.
package exporter
