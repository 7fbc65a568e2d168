package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"misinfoguard/internal/client"
	"misinfoguard/internal/config"
	"misinfoguard/internal/render"
	"misinfoguard/internal/scan"
	"misinfoguard/internal/web"
	"misinfoguard/pkg/logger"
)

func main() {
	cfgPath := flag.String("config", "", "optional JSON config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	apiURL := flag.String("api", "", "analysis API base url (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *apiURL != "" {
		cfg.API.BaseURL = *apiURL
		if err := config.Validate(cfg); err != nil {
			fmt.Fprintln(os.Stderr, "config:", err)
			os.Exit(2)
		}
	}

	l := logger.NewWith(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// cancelled on shutdown so an in-flight scan does not outlive the server
	scanCtx, cancelScans := context.WithCancel(context.Background())
	defer cancelScans()

	api := client.NewHTTPClient(cfg.API.BaseURL, cfg.API.DialTimeout(), cfg.API.MaxResponseBytes)
	ctrl := scan.New(api, scan.WithLogger(l.With("component", "scan")))
	srvWeb := web.New(scanCtx, ctrl, api, render.New(), l.With("component", "web"), render.PageOptions{
		RefreshSeconds: cfg.Server.RefreshSeconds,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srvWeb.Router(cfg.Server),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(l.With("component", "http").Slog().Handler(), slog.LevelError),
	}

	go func() {
		l.Infof("server listening on %s (api %s)", cfg.Server.Addr, api.BaseURL())
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			l.Errorf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	l.Infof("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	cancelScans()
	_ = ctrl.Wait(ctx)
	l.Infof("bye")
}
