// Package content holds the pure text normalization helpers shared by the
// sync pipeline and the presentation layer: HTML cleanup for upstream
// descriptions, highlight extraction, and the coordinate parsing for the
// overloaded free-text address field.
package content

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxDescriptionLen = 1500
	minDescriptionLen = 20
	maxKeyFeatures    = 5
	maxHighlights     = 6
)

// Service-region bounding box. Coordinates outside it are treated as
// absent rather than stored.
const (
	latMin = 24.0
	latMax = 26.0
	lngMin = 54.0
	lngMax = 57.0
)

var (
	tagRegex        = regexp.MustCompile(`<[^>]*>`)
	scriptRegex     = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	multiSpaceRegex = regexp.MustCompile(`\s+`)

	minutesRegex = regexp.MustCompile(`(?i)(\d{1,3})\s*min(?:ute)?s?\s*(?:to|from)?\s*([A-Za-z][A-Za-z'& ]{1,40}?)(?:\s+and\s|[,.!;:]|$)`)
	roomsRegex   = regexp.MustCompile(`(?i)(\d{1,2})\s*[- ]?\s*(bedroom|bathroom|br|bhk)s?\b`)
	coordRegex   = regexp.MustCompile(`^\s*(-?\d{1,3}(?:\.\d+)?)\s*,\s*(-?\d{1,3}(?:\.\d+)?)\s*$`)
)

var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&rsquo;", "'",
	"&lsquo;", "'",
	"&ndash;", "-",
	"&mdash;", "-",
)

// Landmarks recognized by ExtractLocationHighlights. Matching is
// case-insensitive against the cleaned text.
var landmarks = []string{
	"Burj Khalifa",
	"Dubai Mall",
	"Dubai Marina",
	"Palm Jumeirah",
	"Downtown Dubai",
	"Business Bay",
	"Dubai International Airport",
	"Al Maktoum International Airport",
	"Sheikh Zayed Road",
	"Burj Al Arab",
	"Jumeirah Beach",
	"Dubai Creek Harbour",
	"Expo City",
	"Dubai Hills",
	"Mall of the Emirates",
	"Abu Dhabi",
}

// CleanHTMLContent strips script/style blocks, decodes HTML entities,
// removes remaining tags, and collapses whitespace. Empty input yields an
// empty string.
func CleanHTMLContent(text string) string {
	if text == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		// Parser failure degrades to a regex strip, never an error.
		text = scriptRegex.ReplaceAllString(text, " ")
		text = tagRegex.ReplaceAllString(text, " ")
		text = entityReplacer.Replace(text)
		return collapseWhitespace(text)
	}

	doc.Find("script, style").Remove()
	return collapseWhitespace(doc.Text())
}

func collapseWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = multiSpaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CleanPropertyDescription cleans the HTML and applies the description
// policy: results under 20 characters are treated as noise and dropped,
// anything over 1500 characters is truncated with an ellipsis marker.
func CleanPropertyDescription(text string) string {
	cleaned := CleanHTMLContent(text)
	runes := []rune(cleaned)
	if len(runes) < minDescriptionLen {
		return ""
	}
	if len(runes) > maxDescriptionLen {
		return strings.TrimSpace(string(runes[:maxDescriptionLen])) + "..."
	}
	return cleaned
}

// ExtractKeyFeatures scans cleaned text for travel-time and room-count
// phrases and returns up to 5 deduplicated short strings.
func ExtractKeyFeatures(text string) []string {
	cleaned := CleanHTMLContent(text)
	if cleaned == "" {
		return nil
	}

	var features []string
	seen := make(map[string]bool)

	add := func(f string) {
		f = strings.TrimSpace(f)
		key := strings.ToLower(f)
		if f == "" || seen[key] || len(features) >= maxKeyFeatures {
			return
		}
		seen[key] = true
		features = append(features, f)
	}

	for _, m := range minutesRegex.FindAllStringSubmatch(cleaned, -1) {
		place := strings.TrimSpace(strings.TrimRight(m[2], ". "))
		if place == "" {
			continue
		}
		add(m[1] + " minutes to " + place)
	}

	for _, m := range roomsRegex.FindAllStringSubmatch(cleaned, -1) {
		label := strings.ToLower(m[2])
		switch label {
		case "br":
			label = "BR"
		case "bhk":
			label = "BHK"
		case "bedroom":
			label = "bedroom"
		case "bathroom":
			label = "bathroom"
		}
		add(m[1] + " " + label)
	}

	return features
}

// ExtractLocationHighlights matches cleaned text against the known
// landmark list, preferring a "<N> minutes ... <landmark>" contextual
// phrase over the bare landmark name. Returns up to 6.
func ExtractLocationHighlights(text string) []string {
	cleaned := CleanHTMLContent(text)
	if cleaned == "" {
		return nil
	}
	lower := strings.ToLower(cleaned)

	var highlights []string
	seen := make(map[string]bool)

	for _, landmark := range landmarks {
		if len(highlights) >= maxHighlights {
			break
		}
		if !strings.Contains(lower, strings.ToLower(landmark)) {
			continue
		}

		highlight := landmark
		ctxRegex := regexp.MustCompile(`(?i)(\d{1,3})\s*min(?:ute)?s?[^.]{0,60}?` + regexp.QuoteMeta(landmark))
		if m := ctxRegex.FindStringSubmatch(cleaned); m != nil {
			highlight = m[1] + " minutes to " + landmark
		}

		key := strings.ToLower(highlight)
		if seen[key] {
			continue
		}
		seen[key] = true
		highlights = append(highlights, highlight)
	}

	return highlights
}

// ParseCoordinateFromAddress handles the upstream habit of stuffing a bare
// "lat,lng" pair into the free-text address field. It returns the
// requested axis ("lat" or "lng") when the address matches that exact
// pattern and both values fall inside the service-region bounding box,
// nil otherwise.
func ParseCoordinateFromAddress(address, axis string) *float64 {
	m := coordRegex.FindStringSubmatch(address)
	if m == nil {
		return nil
	}

	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	lng, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil
	}

	if lat < latMin || lat > latMax || lng < lngMin || lng > lngMax {
		return nil
	}

	switch axis {
	case "lat":
		return &lat
	case "lng":
		return &lng
	}
	return nil
}
