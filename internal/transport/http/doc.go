// Package http exposes generated QC reports over a small REST surface:
// report listing and download, a health endpoint and Prometheus metrics.
package http
