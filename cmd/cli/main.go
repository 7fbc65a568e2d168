package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"misinfoguard/internal/client"
	"misinfoguard/internal/config"
	"misinfoguard/internal/ioformats"
	"misinfoguard/internal/render"
	"misinfoguard/internal/scan"
	"misinfoguard/pkg/logger"
)

func main() {
	cfgPath := flag.String("config", "", "optional JSON config file")
	apiURL := flag.String("api", "", "analysis API base url (overrides config)")
	topic := flag.String("topic", "", "topic to scan")
	in := flag.String("input", "", "batch input file (csv with 'topic' column or ndjson)")
	out := flag.String("output", "", "output file for batch NDJSON (default stdout)")
	format := flag.String("format", "text", "single-scan output: text, json or html")
	health := flag.Bool("health", false, "print backend health and exit")
	metrics := flag.Bool("metrics", false, "print backend metrics and exit")
	memory := flag.Bool("memory", false, "print backend memory bank stats and exit")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}
	if *apiURL != "" {
		cfg.API.BaseURL = *apiURL
		if err := config.Validate(cfg); err != nil {
			fmt.Fprintln(os.Stderr, "config:", err)
			os.Exit(2)
		}
	}
	l := logger.NewWith(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.NewHTTPClient(cfg.API.BaseURL, cfg.API.DialTimeout(), cfg.API.MaxResponseBytes)

	switch {
	case *health:
		h, err := api.Health(ctx)
		exitOn("health", err)
		printJSON(os.Stdout, h)
		return
	case *metrics:
		m, err := api.Metrics(ctx)
		exitOn("metrics", err)
		printJSON(os.Stdout, m)
		return
	case *memory:
		m, err := api.MemoryStats(ctx)
		exitOn("memory stats", err)
		printJSON(os.Stdout, m)
		return
	}

	rnd := render.New()

	if *in != "" {
		os.Exit(runBatch(ctx, api, l, *in, *out))
	}

	ctrl := scan.New(api, scan.WithLogger(l), scan.WithObserver(func(v scan.View) {
		if _, ok := v.(scan.Loading); ok && *format == "text" {
			_ = rnd.ViewText(os.Stderr, v)
		}
	}))
	v, _ := ctrl.Scan(ctx, *topic)

	switch *format {
	case "json":
		printJSON(os.Stdout, scan.SnapshotOf(v))
	case "html":
		exitOn("render", rnd.Page(os.Stdout, v, render.PageOptions{}))
	default:
		exitOn("render", rnd.ViewText(os.Stdout, v))
	}
	if _, failed := v.(scan.Failed); failed {
		os.Exit(1)
	}
}

type outRec struct {
	Topic string        `json:"topic"`
	View  scan.Snapshot `json:"view"`
}

// runBatch scans topics one after another through a single controller.
func runBatch(ctx context.Context, api scan.Analyzer, l *logger.Logger, in, out string) int {
	topics, err := ioformats.ReadTopics(in)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read input:", err)
		return 1
	}

	ctrl := scan.New(api, scan.WithLogger(l))
	results := make([]outRec, 0, len(topics))
	for _, t := range topics {
		if ctx.Err() != nil {
			break
		}
		v, _ := ctrl.Scan(ctx, t)
		results = append(results, outRec{Topic: t, View: scan.SnapshotOf(v)})
	}

	var w *os.File
	if out == "" {
		w = os.Stdout
	} else {
		f, err := os.Create(out)
		if err != nil {
			fmt.Fprintln(os.Stderr, "create output:", err)
			return 1
		}
		defer f.Close()
		w = f
	}
	if err := ioformats.WriteNDJSON(w, results); err != nil {
		fmt.Fprintln(os.Stderr, "write output:", err)
		return 1
	}
	return 0
}

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func exitOn(what string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", what, err)
		os.Exit(1)
	}
}
