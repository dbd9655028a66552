// Package models defines data structures for the lookup service.
package models

import "strings"

// TrackMetadata is the canonical result of a track lookup.
//
// The metric fields are typed `any` because the two source variants disagree
// on representation: the search API yields numbers (energy scaled to [0,100])
// while page scraping yields raw label text. A nil value marshals to JSON
// null, meaning the field could not be resolved for this track.
type TrackMetadata struct {
	Title        string  `json:"title"`
	Artist       string  `json:"artist"`
	BPM          any     `json:"bpm"`
	Key          any     `json:"key"`
	Camelot      any     `json:"camelot"`
	Energy       any     `json:"energy"`
	Danceability any     `json:"danceability"`
	Valence      any     `json:"valence"`
	InfoURL      string  `json:"info_url,omitempty"`
	Artwork      *string `json:"artwork,omitempty"`
}

// Query is an immutable title/artist lookup request.
type Query struct {
	Title  string
	Artist string
}

// Full returns the combined "title artist" search string.
func (q Query) Full() string {
	return strings.TrimSpace(strings.TrimSpace(q.Title) + " " + strings.TrimSpace(q.Artist))
}

// TitleOnly returns the less specific fallback search string.
func (q Query) TitleOnly() string {
	return strings.TrimSpace(q.Title)
}
