// Package exporter writes tabular QC output to delimited and spreadsheet
// files. It provides a buffered CSV writer with optional UTF-8 BOM for Excel
// compatibility, a streaming variant for large reports, and an xlsx workbook
// writer for the clean report.
package exporter
