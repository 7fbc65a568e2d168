package render

import (
	"bytes"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"misinfoguard/internal/credibility"
	"misinfoguard/internal/models"
	"misinfoguard/internal/scan"
)

func climateClaim() models.ClaimAnalysis {
	return models.ClaimAnalysis{
		Claim:       "Climate change is a hoax",
		Verdict:     models.VerdictMisinformation,
		Confidence:  0.87,
		Explanation: "This contradicts **overwhelming** evidence.",
	}
}

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func TestMisinformationBannerAndConfidence(t *testing.T) {
	r := New()
	var buf bytes.Buffer
	if err := r.HTML(&buf, climateClaim()); err != nil {
		t.Fatalf("render: %v", err)
	}
	doc := parse(t, buf.String())
	banner := doc.Find(".verdict")
	if !banner.HasClass("misinformation") {
		t.Fatalf("want misinformation class, got %q", banner.AttrOr("class", ""))
	}
	if got := strings.TrimSpace(banner.Text()); got != GlyphWarning+" MISINFORMATION" {
		t.Fatalf("unexpected banner %q", got)
	}
	if got := doc.Find(".confidence-label").Text(); got != "87%" {
		t.Fatalf("want 87%%, got %q", got)
	}
	if style := doc.Find(".confidence-fill").AttrOr("style", ""); !strings.Contains(style, "87%") {
		t.Fatalf("fill not proportional: %q", style)
	}
	if doc.Find(".explanation strong").Text() != "overwhelming" {
		t.Fatal("explanation not rendered as markdown")
	}
	if doc.Find(".cache-indicator").Length() != 0 {
		t.Fatal("cache indicator shown for uncached claim")
	}
	if doc.Find(".evidence").Length() != 0 {
		t.Fatal("evidence list shown without evidence")
	}
}

func TestVerdictVariants(t *testing.T) {
	r := New()
	cases := []struct {
		verdict models.Verdict
		class   string
		label   string
		glyph   string
	}{
		{"", "misinformation", "MISINFORMATION", GlyphWarning},
		{models.VerdictVerified, "verified", "VERIFIED", GlyphCheck},
		{models.VerdictUncertain, "uncertain", "UNCERTAIN", ""},
	}
	for _, tc := range cases {
		c := r.Card(models.ClaimAnalysis{Verdict: tc.verdict})
		if c.VerdictClass != tc.class || c.Verdict != tc.label || c.Glyph != tc.glyph {
			t.Fatalf("verdict %q: got %+v", tc.verdict, c)
		}
	}
}

func TestEvidenceTopThreeWithFallbacks(t *testing.T) {
	claim := climateClaim()
	claim.Evidence = []models.Evidence{
		{URL: "https://www.reuters.com/a", Title: "Reuters", Snippet: "snippet one"},
		{Title: "No URL"},
		{URL: "https://blog.example.com/b"},
		{URL: "https://four.example.com", Title: "Four"},
		{URL: "https://five.example.com", Title: "Five"},
	}
	r := New()
	var buf bytes.Buffer
	if err := r.HTML(&buf, claim); err != nil {
		t.Fatal(err)
	}
	doc := parse(t, buf.String())
	items := doc.Find(".evidence li")
	if items.Length() != 3 {
		t.Fatalf("want 3 evidence items, got %d", items.Length())
	}
	want := []struct{ href, label, snippet string }{
		{"https://www.reuters.com/a", "Reuters", "snippet one"},
		{"#", "No URL", ""},
		{"https://blog.example.com/b", "Source 3", ""},
	}
	items.Each(func(i int, s *goquery.Selection) {
		a := s.Find("a")
		if a.AttrOr("href", "") != want[i].href || a.Text() != want[i].label {
			t.Fatalf("item %d: got href=%q label=%q", i, a.AttrOr("href", ""), a.Text())
		}
		if got := s.Find(".snippet").Text(); got != want[i].snippet {
			t.Fatalf("item %d: want snippet %q, got %q", i, want[i].snippet, got)
		}
	})
	card := r.Card(claim)
	if card.Evidence[0].Credibility != credibility.TierHigh || card.Evidence[2].Credibility != credibility.TierLow {
		t.Fatalf("unexpected credibility %+v", card.Evidence)
	}
}

func TestUnsafeEvidenceURLFallsBack(t *testing.T) {
	r := New()
	c := r.Card(models.ClaimAnalysis{Evidence: []models.Evidence{{URL: "javascript:alert(1)", Title: "x"}}})
	if c.Evidence[0].Href != "#" {
		t.Fatalf("want placeholder href, got %q", c.Evidence[0].Href)
	}
}

func TestCacheIndicatorFollowsClaimFlag(t *testing.T) {
	r := New()
	claim := climateClaim()
	claim.Cached = true
	var buf bytes.Buffer
	_ = r.HTML(&buf, claim)
	if parse(t, buf.String()).Find(".cache-indicator").Length() != 1 {
		t.Fatal("cache indicator missing for cached claim")
	}
}

func TestPercentClamps(t *testing.T) {
	cases := map[float64]int{0: 0, 0.874: 87, 0.875: 88, 1: 100, 1.5: 100, -0.2: 0, math.NaN(): 0}
	for in, want := range cases {
		if got := Percent(in); got != want {
			t.Fatalf("Percent(%v) = %d, want %d", in, got, want)
		}
	}
}

func TestCardIsSafeForConcurrentUse(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c := r.Card(climateClaim()); c.Percent != 87 {
				t.Errorf("want 87, got %d", c.Percent)
			}
		}()
	}
	wg.Wait()
}

func TestPageStates(t *testing.T) {
	r := New()
	cases := []struct {
		view  scan.View
		check func(*goquery.Document) bool
	}{
		{scan.Idle{}, func(d *goquery.Document) bool { return d.Find(".error,.info,.claim-card").Length() == 0 }},
		{scan.Loading{Topic: "x"}, func(d *goquery.Document) bool {
			_, disabled := d.Find("button").Attr("disabled")
			return disabled && d.Find(`meta[http-equiv="refresh"]`).Length() == 1
		}},
		{scan.Failed{Kind: scan.HTTPError, Message: "Failed to analyze topic (500)"}, func(d *goquery.Document) bool {
			return d.Find(".error").Text() == "Failed to analyze topic (500)"
		}},
		{scan.Empty{Message: scan.MsgNoClaims}, func(d *goquery.Document) bool {
			return d.Find(".info").Text() == scan.MsgNoClaims && d.Find(".scan-meta").Length() == 0
		}},
		{scan.Results{
			Topic:  "Climate Change",
			Claims: []models.ClaimAnalysis{climateClaim(), climateClaim()},
			Meta:   models.ScanMetadata{ProcessingTime: 1.5, TraceID: "abc123"},
		}, func(d *goquery.Document) bool {
			return d.Find(".claim-card").Length() == 2 &&
				strings.Contains(d.Find(".trace-id").Text(), "abc123") &&
				d.Find(".processing-time").Text() == "1.50s" &&
				d.Find(".scan-cached").Length() == 0
		}},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		if err := r.Page(&buf, tc.view, PageOptions{RefreshSeconds: 2}); err != nil {
			t.Fatalf("%s: %v", tc.view.State(), err)
		}
		doc := parse(t, buf.String())
		if doc.Find("main").AttrOr("data-state", "") != tc.view.State() {
			t.Fatalf("%s: wrong data-state", tc.view.State())
		}
		if !tc.check(doc) {
			t.Fatalf("%s: unexpected page:\n%s", tc.view.State(), buf.String())
		}
	}
}

func TestTextOutput(t *testing.T) {
	r := New()
	claim := climateClaim()
	claim.Cached = true
	claim.Evidence = []models.Evidence{{URL: "https://apnews.com/x", Snippet: "s"}}
	var buf bytes.Buffer
	err := r.ViewText(&buf, scan.Results{Topic: "t", Claims: []models.ClaimAnalysis{claim}, Meta: models.ScanMetadata{TraceID: "tr"}})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"trace tr", GlyphWarning + " MISINFORMATION", "87%", "(cached)", "overwhelming", "1. Source 1 <https://apnews.com/x> [high]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}
