package content

import (
	"strings"
	"testing"
)

func TestCleanHTMLContent_Basic(t *testing.T) {
	got := CleanHTMLContent("<p>Hello <b>World</b></p>")
	if got != "Hello World" {
		t.Fatalf("expected %q, got %q", "Hello World", got)
	}
}

func TestCleanHTMLContent_Empty(t *testing.T) {
	if got := CleanHTMLContent(""); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestCleanHTMLContent_StripsScriptAndStyle(t *testing.T) {
	in := `<div>Luxury living<script>alert("x")</script><style>.a{color:red}</style> in Dubai</div>`
	got := CleanHTMLContent(in)
	if got != "Luxury living in Dubai" {
		t.Fatalf("expected script/style removed, got %q", got)
	}
}

func TestCleanHTMLContent_DecodesEntities(t *testing.T) {
	got := CleanHTMLContent("Beach&nbsp;&amp;&nbsp;Marina")
	if got != "Beach & Marina" {
		t.Fatalf("expected %q, got %q", "Beach & Marina", got)
	}
}

func TestCleanHTMLContent_CollapsesWhitespace(t *testing.T) {
	got := CleanHTMLContent("<p>one</p>\n\n<p>  two\tthree  </p>")
	if got != "one two three" {
		t.Fatalf("expected %q, got %q", "one two three", got)
	}
}

func TestCleanPropertyDescription_TooShort(t *testing.T) {
	if got := CleanPropertyDescription("<p>Nice flat</p>"); got != "" {
		t.Fatalf("expected short description dropped, got %q", got)
	}
}

func TestCleanPropertyDescription_Truncates(t *testing.T) {
	long := strings.Repeat("a", 2000)
	got := CleanPropertyDescription(long)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis suffix, got tail %q", got[len(got)-10:])
	}
	if len([]rune(got)) != 1503 {
		t.Fatalf("expected 1503 runes, got %d", len([]rune(got)))
	}
}

func TestCleanPropertyDescription_PassThrough(t *testing.T) {
	in := "A spacious waterfront apartment with full marina views."
	if got := CleanPropertyDescription(in); got != in {
		t.Fatalf("expected unchanged description, got %q", got)
	}
}

func TestExtractKeyFeatures(t *testing.T) {
	text := "Just 10 minutes to Downtown and 15 minutes to the airport. Offers 3 bedroom and 2 bathroom layouts."
	features := ExtractKeyFeatures(text)
	if len(features) != 4 {
		t.Fatalf("expected 4 features, got %d: %v", len(features), features)
	}
	if features[0] != "10 minutes to Downtown" {
		t.Fatalf("unexpected first feature %q", features[0])
	}
	if features[1] != "15 minutes to the airport" {
		t.Fatalf("unexpected second feature %q", features[1])
	}
	found := false
	for _, f := range features {
		if f == "3 bedroom" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %q in %v", "3 bedroom", features)
	}
}

func TestExtractKeyFeatures_CapAndDedup(t *testing.T) {
	text := strings.Repeat("5 minutes to Marina. ", 10) +
		"1 bedroom 2 bedroom 3 bedroom 4 bedroom 5 bedroom 6 bedroom"
	features := ExtractKeyFeatures(text)
	if len(features) != 5 {
		t.Fatalf("expected cap of 5, got %d: %v", len(features), features)
	}
}

func TestExtractKeyFeatures_Empty(t *testing.T) {
	if features := ExtractKeyFeatures(""); features != nil {
		t.Fatalf("expected nil, got %v", features)
	}
}

func TestExtractLocationHighlights_Bare(t *testing.T) {
	highlights := ExtractLocationHighlights("Stunning views of the Burj Khalifa from every residence.")
	if len(highlights) != 1 || highlights[0] != "Burj Khalifa" {
		t.Fatalf("expected [Burj Khalifa], got %v", highlights)
	}
}

func TestExtractLocationHighlights_Contextual(t *testing.T) {
	highlights := ExtractLocationHighlights("Located just 12 minutes from Dubai Mall and close to Business Bay.")
	want := map[string]bool{
		"12 minutes to Dubai Mall": false,
		"Business Bay":             false,
	}
	for _, h := range highlights {
		if _, ok := want[h]; ok {
			want[h] = true
		}
	}
	for k, ok := range want {
		if !ok {
			t.Fatalf("missing %q in %v", k, highlights)
		}
	}
}

func TestExtractLocationHighlights_CaseInsensitive(t *testing.T) {
	highlights := ExtractLocationHighlights("walking distance to PALM JUMEIRAH beachfront")
	if len(highlights) != 1 || highlights[0] != "Palm Jumeirah" {
		t.Fatalf("expected canonical landmark name, got %v", highlights)
	}
}

func TestParseCoordinateFromAddress(t *testing.T) {
	lat := ParseCoordinateFromAddress("25.2,55.3", "lat")
	if lat == nil || *lat != 25.2 {
		t.Fatalf("expected lat 25.2, got %v", lat)
	}
	lng := ParseCoordinateFromAddress("25.2, 55.3", "lng")
	if lng == nil || *lng != 55.3 {
		t.Fatalf("expected lng 55.3, got %v", lng)
	}
}

func TestParseCoordinateFromAddress_OutOfBounds(t *testing.T) {
	if got := ParseCoordinateFromAddress("40.7,-74.0", "lat"); got != nil {
		t.Fatalf("expected nil for coordinates outside the service region, got %v", *got)
	}
}

func TestParseCoordinateFromAddress_NotCoordinates(t *testing.T) {
	if got := ParseCoordinateFromAddress("Sheikh Zayed Road, Dubai", "lat"); got != nil {
		t.Fatalf("expected nil for a street address, got %v", *got)
	}
	if got := ParseCoordinateFromAddress("", "lat"); got != nil {
		t.Fatalf("expected nil for empty address, got %v", *got)
	}
}

func TestParseCoordinateFromAddress_UnknownAxis(t *testing.T) {
	if got := ParseCoordinateFromAddress("25.2,55.3", "alt"); got != nil {
		t.Fatalf("expected nil for unknown axis, got %v", *got)
	}
}
