package source

import (
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-trackmeta/models"
	"github.com/aluiziolira/go-trackmeta/parser"
)

// scrapedLabels maps output fields to the exact label text shown on a detail
// page. The table is the single place the page vocabulary lives; the site
// calls valence "Happiness".
var scrapedLabels = map[string]string{
	"bpm":          "BPM",
	"key":          "Key",
	"camelot":      "Camelot",
	"energy":       "Energy",
	"danceability": "Danceability",
	"valence":      "Happiness",
}

// mapAPITrack converts a raw search-API item to the canonical record. The
// [0,1] feature floats are scaled to [0,100] integers, rounding half up.
func mapAPITrack(t apiTrack) *models.TrackMetadata {
	artwork := ""
	if len(t.CoverImages) > 0 {
		artwork = t.CoverImages[0].URL
	}

	return &models.TrackMetadata{
		Title:        t.Name,
		Artist:       strings.Join(t.Artists, ", "),
		BPM:          t.BPM,
		Key:          t.Key,
		Camelot:      t.Camelot,
		Energy:       scaleFeature(t.Energy),
		Danceability: scaleFeature(t.Danceability),
		Valence:      scaleFeature(t.Happiness),
		Artwork:      &artwork,
	}
}

// mapScrapedPage extracts each labeled metric from a detail page. Values are
// passed through as the raw text shown on the page; a missing label yields a
// null field, never an error.
func mapScrapedPage(doc *goquery.Document, infoURL string) *models.TrackMetadata {
	return &models.TrackMetadata{
		BPM:          labelValue(doc, scrapedLabels["bpm"]),
		Key:          labelValue(doc, scrapedLabels["key"]),
		Camelot:      labelValue(doc, scrapedLabels["camelot"]),
		Energy:       labelValue(doc, scrapedLabels["energy"]),
		Danceability: labelValue(doc, scrapedLabels["danceability"]),
		Valence:      labelValue(doc, scrapedLabels["valence"]),
		InfoURL:      infoURL,
	}
}

func labelValue(doc *goquery.Document, label string) any {
	if value, ok := parser.FindValueFollowingLabel(doc, label); ok {
		return value
	}
	return nil
}

func scaleFeature(v float64) int {
	return int(math.Round(v * 100))
}
