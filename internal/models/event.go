// Package models defines the data structures for recognition events.
package models

import "strings"

// Event is a single recognition hypothesis reported by a recognizer for a
// time window. Events are immutable once emitted; revisions arrive as new
// events for the same window.
type Event struct {
	Text             string  `json:"text"`
	IsFinal          bool    `json:"isFinal"`
	StartTime        float64 `json:"startTime"` // seconds into the stream's audio timeline
	Duration         float64 `json:"duration"`  // seconds
	AlternativeCount int     `json:"alternativeCount"`
	Locale           string  `json:"locale"` // recognizer language tag, e.g. "en-US"
	Source           string  `json:"source"` // audio origin, e.g. "local" or "remote"
}

// EndTime returns StartTime + Duration. Duration may be negative, in which
// case EndTime is before StartTime; callers treat that as an allowed input.
func (e Event) EndTime() float64 {
	return e.StartTime + e.Duration
}

// WordCount returns the number of whitespace-delimited words in Text.
func (e Event) WordCount() int {
	return len(strings.Fields(e.Text))
}

// StreamKey identifies the (locale, source) stream the event belongs to.
func (e Event) StreamKey() string {
	return e.Source + "/" + e.Locale
}
