package render

import (
	"fmt"
	"html/template"
	"io"
	"math"
	"strings"

	"misinfoguard/internal/credibility"
	"misinfoguard/internal/models"
	"misinfoguard/internal/richtext"
)

const (
	MaxEvidence = 3

	GlyphWarning = "⚠️"
	GlyphCheck   = "✅"

	fallbackHref = "#"
)

type EvidenceLink struct {
	Href        string           `json:"href"`
	Label       string           `json:"label"`
	Snippet     string           `json:"snippet,omitempty"`
	Credibility credibility.Tier `json:"credibility"`
}

// Card is the visual summary of one claim.
type Card struct {
	Claim        string         `json:"claim"`
	Verdict      string         `json:"verdict"`
	VerdictClass string         `json:"verdictClass"`
	Glyph        string         `json:"glyph,omitempty"`
	Percent      int            `json:"percent"`
	FillWidth    string         `json:"fillWidth"`
	Explanation  template.HTML  `json:"explanation"`
	Evidence     []EvidenceLink `json:"evidence,omitempty"`
	Cached       bool           `json:"cached"`
}

// Renderer maps claims to cards. It holds no per-claim state and is safe
// for concurrent use.
type Renderer struct {
	rt   *richtext.Renderer
	cred *credibility.Assessor
	tmpl *template.Template
}

func New() *Renderer {
	return &Renderer{
		rt:   richtext.New(),
		cred: credibility.New(),
		tmpl: template.Must(template.New("render").Parse(templates)),
	}
}

func (r *Renderer) Card(c models.ClaimAnalysis) Card {
	label := string(c.Verdict)
	if label == "" {
		label = string(models.VerdictMisinformation)
	}
	card := Card{
		Claim:        c.Claim,
		Verdict:      label,
		VerdictClass: strings.ToLower(label),
		Glyph:        glyphFor(label),
		Percent:      Percent(c.Confidence),
		Explanation:  r.rt.Markdown(c.Explanation),
		Cached:       c.Cached,
	}
	card.FillWidth = fmt.Sprintf("%d%%", card.Percent)

	for i, ev := range c.Evidence {
		if i == MaxEvidence {
			break
		}
		link := EvidenceLink{
			Href:        r.rt.SafeURL(ev.URL),
			Label:       strings.TrimSpace(ev.Title),
			Snippet:     strings.TrimSpace(ev.Snippet),
			Credibility: r.cred.Assess(ev.URL).Tier,
		}
		if link.Href == "" {
			link.Href = fallbackHref
		}
		if link.Label == "" {
			link.Label = fmt.Sprintf("Source %d", i+1)
		}
		card.Evidence = append(card.Evidence, link)
	}
	return card
}

// Percent converts a [0,1] confidence to a whole percentage. Out-of-range
// values are clamped and NaN counts as 0.
func Percent(confidence float64) int {
	if math.IsNaN(confidence) || confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return int(math.Round(confidence * 100))
}

func glyphFor(verdict string) string {
	switch models.Verdict(verdict) {
	case models.VerdictMisinformation:
		return GlyphWarning
	case models.VerdictVerified:
		return GlyphCheck
	}
	return ""
}

// HTML writes one claim card.
func (r *Renderer) HTML(w io.Writer, c models.ClaimAnalysis) error {
	return r.tmpl.ExecuteTemplate(w, "card", r.Card(c))
}

// Text writes one claim card for a terminal.
func (r *Renderer) Text(w io.Writer, c models.ClaimAnalysis) error {
	card := r.Card(c)
	banner := strings.TrimSpace(card.Glyph + " " + card.Verdict)
	line := fmt.Sprintf("%s  %s %d%%", banner, bar(card.Percent, 20), card.Percent)
	if card.Cached {
		line += "  (cached)"
	}
	var b strings.Builder
	fmt.Fprintln(&b, line)
	fmt.Fprintf(&b, "Claim: %s\n", card.Claim)
	if txt := richtext.PlainText(card.Explanation); txt != "" {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, txt)
	}
	if len(card.Evidence) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "Sources:")
		for i, ev := range card.Evidence {
			fmt.Fprintf(&b, "  %d. %s <%s> [%s]\n", i+1, ev.Label, ev.Href, ev.Credibility)
			if ev.Snippet != "" {
				fmt.Fprintf(&b, "     %s\n", ev.Snippet)
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func bar(percent, width int) string {
	filled := int(math.Round(float64(percent) * float64(width) / 100))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}
