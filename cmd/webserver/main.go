package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"studyquiz"

	"github.com/gorilla/securecookie"
	"golang.org/x/sync/errgroup"
)

// config is read from the environment
type config struct {
	Port          string
	SessionKey    []byte
	TemplatesPath string
	RateLimit     float64
	RateBurst     int
	Verbose       bool
}

func loadConfig() (config, error) {
	cfg := config{
		Port:          os.Getenv("PORT"),
		SessionKey:    []byte(os.Getenv("SESSION_KEY")),
		TemplatesPath: os.Getenv("STUDYQUIZ_TEMPLATES"),
		RateLimit:     5,
		RateBurst:     10,
	}
	if cfg.Port == "" {
		cfg.Port = "8180"
	}

	if v := os.Getenv("STUDYQUIZ_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil || rate <= 0 {
			return config{}, fmt.Errorf("invalid STUDYQUIZ_RATE %q", v)
		}
		cfg.RateLimit = rate
	}
	if v := os.Getenv("STUDYQUIZ_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil || burst <= 0 {
			return config{}, fmt.Errorf("invalid STUDYQUIZ_BURST %q", v)
		}
		cfg.RateBurst = burst
	}
	if v := os.Getenv("STUDYQUIZ_VERBOSE"); v != "" {
		verbose, err := strconv.ParseBool(v)
		if err != nil {
			return config{}, fmt.Errorf("invalid STUDYQUIZ_VERBOSE %q", v)
		}
		cfg.Verbose = verbose
	}
	return cfg, nil
}

func main() {
	if err := run(); err != nil {
		studyquiz.Logger().Fatalf("Server failed: %v", err)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	studyquiz.SetVerbose(cfg.Verbose)
	logger := studyquiz.Logger()

	if len(cfg.SessionKey) == 0 {
		logger.Warnf("SESSION_KEY not set, using a random key; settings will not survive restarts")
		cfg.SessionKey = securecookie.GenerateRandomKey(32)
	}

	var opts []studyquiz.Option
	if cfg.TemplatesPath != "" {
		t, err := studyquiz.LoadTemplatesFile(cfg.TemplatesPath)
		if err != nil {
			return fmt.Errorf("failed to load templates: %w", err)
		}
		opts = append(opts, studyquiz.WithTemplates(t))
	}

	server, err := NewServer(cfg, studyquiz.NewQuizGenerator(opts...))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("Starting server on port %s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Infof("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
