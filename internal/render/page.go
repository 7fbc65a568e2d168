package render

import (
	"fmt"
	"io"
	"strings"

	"misinfoguard/internal/models"
	"misinfoguard/internal/scan"
)

type PageOptions struct {
	Title string
	// seconds between automatic reloads while a scan is loading; 0 disables
	RefreshSeconds int
	ScanPath       string
}

type pageModel struct {
	PageOptions
	State   string
	Topic   string
	Message string
	Cards   []Card
	Meta    *models.ScanMetadata
	Elapsed string
	Refresh bool
}

func (r *Renderer) model(v scan.View, opts PageOptions) pageModel {
	if opts.Title == "" {
		opts.Title = "MisinfoGuard"
	}
	if opts.ScanPath == "" {
		opts.ScanPath = "/scan"
	}
	m := pageModel{PageOptions: opts, State: v.State()}
	switch v := v.(type) {
	case scan.Loading:
		m.Topic = v.Topic
		m.Refresh = opts.RefreshSeconds > 0
	case scan.Results:
		m.Topic = v.Topic
		meta := v.Meta
		m.Meta = &meta
		m.Elapsed = fmt.Sprintf("%.2fs", meta.ProcessingTime)
		m.Cards = make([]Card, 0, len(v.Claims))
		for _, c := range v.Claims {
			m.Cards = append(m.Cards, r.Card(c))
		}
	case scan.Empty:
		m.Topic = v.Topic
		m.Message = v.Message
	case scan.Failed:
		m.Message = v.Message
	}
	return m
}

// Page writes the full HTML document for the current view.
func (r *Renderer) Page(w io.Writer, v scan.View, opts PageOptions) error {
	return r.tmpl.ExecuteTemplate(w, "page", r.model(v, opts))
}

// ViewText writes the current view for a terminal.
func (r *Renderer) ViewText(w io.Writer, v scan.View) error {
	switch v := v.(type) {
	case scan.Idle:
		return nil
	case scan.Loading:
		_, err := fmt.Fprintf(w, "Scanning %q...\n", v.Topic)
		return err
	case scan.Empty:
		_, err := fmt.Fprintf(w, "ℹ️  %s\n", v.Message)
		return err
	case scan.Failed:
		_, err := fmt.Fprintf(w, "❌ %s\n", v.Message)
		return err
	case scan.Results:
		parts := []string{
			fmt.Sprintf("%d claim(s) for %q", len(v.Claims), v.Topic),
			fmt.Sprintf("processed in %.2fs", v.Meta.ProcessingTime),
		}
		if v.Meta.Cached {
			parts = append(parts, "cached")
		}
		if v.Meta.TraceID != "" {
			parts = append(parts, "trace "+v.Meta.TraceID)
		}
		if _, err := fmt.Fprintln(w, strings.Join(parts, " · ")); err != nil {
			return err
		}
		for _, c := range v.Claims {
			if _, err := fmt.Fprintln(w, strings.Repeat("─", 40)); err != nil {
				return err
			}
			if err := r.Text(w, c); err != nil {
				return err
			}
		}
	}
	return nil
}
