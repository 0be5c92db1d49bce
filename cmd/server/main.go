package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gnemet/DeckForge/internal/config"
	"github.com/gnemet/DeckForge/internal/di"
	"github.com/gnemet/DeckForge/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.Application.LogLevel, os.Stderr)
	hook := logging.NewChanHook(256)
	logger.AddHook(hook)
	recent := logging.NewRecent(200)
	go recent.Drain(hook.C)
	log := logrus.NewEntry(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	c, err := di.BuildContainer(ctx, cfg, log, di.Options{Registerer: reg})
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer c.Close()

	a := &app{
		cfg:      cfg,
		log:      log.WithField("component", "http"),
		tmpl:     parseTemplates(),
		themes:   c.Themes,
		builder:  c.Builder,
		modelErr: c.ModelErr,
		recent:   recent,
		gatherer: reg,
	}
	if c.Ledger != nil {
		a.history = c.Ledger
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		Handler:           a.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Infof("%s starting on http://%s", cfg.Application.Name, srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
