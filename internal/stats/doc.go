// Package stats aggregates commit authorship statistics over a resolved time
// window and renders them as terminal bar charts.
package stats
