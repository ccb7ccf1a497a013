package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adamani-ai/rag"
	"github.com/adamani-ai/rag/api"
	ragjson "github.com/adamani-ai/rag/json"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

const defaultAPIURL = "http://localhost:8000"

// config is the resolved command-line configuration. Values come from
// flags, which fall back to RAG_* environment variables.
type config struct {
	apiURL    string
	token     string
	ingest    rag.PollPolicy
	query     rag.PollPolicy
	streaming bool
	k         int
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "api-url",
			Usage:   "Base URL of the RAG service",
			Value:   defaultAPIURL,
			Sources: cli.EnvVars("RAG_API_URL"),
		},
		&cli.StringFlag{
			Name:    "token",
			Usage:   "Bearer token sent with every request",
			Sources: cli.EnvVars("RAG_TOKEN"),
		},
		&cli.DurationFlag{
			Name:    "ingest-interval",
			Usage:   "Delay between ingestion status checks",
			Value:   rag.DefaultIngestPolicy.Interval,
			Sources: cli.EnvVars("RAG_INGEST_INTERVAL"),
		},
		&cli.IntFlag{
			Name:    "ingest-attempts",
			Usage:   "Maximum ingestion status checks",
			Value:   rag.DefaultIngestPolicy.MaxAttempts,
			Sources: cli.EnvVars("RAG_INGEST_ATTEMPTS"),
		},
		&cli.DurationFlag{
			Name:    "query-interval",
			Usage:   "Delay between query status checks",
			Value:   rag.DefaultQueryPolicy.Interval,
			Sources: cli.EnvVars("RAG_QUERY_INTERVAL"),
		},
		&cli.IntFlag{
			Name:    "query-attempts",
			Usage:   "Maximum query status checks",
			Value:   rag.DefaultQueryPolicy.MaxAttempts,
			Sources: cli.EnvVars("RAG_QUERY_ATTEMPTS"),
		},
		&cli.BoolFlag{
			Name:    "stream",
			Usage:   "Prefer the streaming endpoint for questions",
			Value:   true,
			Sources: cli.EnvVars("RAG_STREAM"),
		},
		&cli.IntFlag{
			Name:    "top-k",
			Aliases: []string{"k"},
			Usage:   "Number of excerpts to retrieve per question",
			Value:   rag.DefaultTopK,
			Sources: cli.EnvVars("RAG_TOP_K"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level: debug, info, warn, error",
			Value:   "warn",
			Sources: cli.EnvVars("RAG_LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "Log format: text, json",
			Value:   "text",
			Sources: cli.EnvVars("RAG_LOG_FORMAT"),
		},
	}
}

func configFrom(cmd *cli.Command) (config, error) {
	cfg := config{
		apiURL:    cmd.String("api-url"),
		token:     cmd.String("token"),
		ingest:    rag.PollPolicy{Interval: cmd.Duration("ingest-interval"), MaxAttempts: int(cmd.Int("ingest-attempts"))},
		query:     rag.PollPolicy{Interval: cmd.Duration("query-interval"), MaxAttempts: int(cmd.Int("query-attempts"))},
		streaming: cmd.Bool("stream"),
		k:         int(cmd.Int("top-k")),
	}
	u, err := url.Parse(cfg.apiURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return config{}, fmt.Errorf("api url %q: must be an absolute http(s) URL: %w", cfg.apiURL, rag.ErrValidation)
	}
	if err := cfg.ingest.Validate(); err != nil {
		return config{}, fmt.Errorf("ingest policy: %w", err)
	}
	if err := cfg.query.Validate(); err != nil {
		return config{}, fmt.Errorf("query policy: %w", err)
	}
	if cfg.k < 1 {
		return config{}, fmt.Errorf("k must be positive, got %d: %w", cfg.k, rag.ErrValidation)
	}
	return cfg, nil
}

// header builds the credential headers sent with every request.
func (c config) header() http.Header {
	h := make(http.Header)
	if c.token != "" {
		h.Set("Authorization", "Bearer "+c.token)
	}
	return h
}

func (c config) client(logger *slog.Logger) *api.Client {
	return api.New(c.apiURL, api.WithHeader(c.header()), api.WithLogger(logger))
}

func (c config) assistant(client *api.Client, logger *slog.Logger, observe func(rag.Attempt)) *rag.Assistant {
	opts := []rag.Option{
		rag.WithIngestPolicy(c.ingest),
		rag.WithQueryPolicy(c.query),
		rag.WithStreaming(c.streaming),
		rag.WithLogger(logger),
	}
	if observe != nil {
		opts = append(opts, rag.WithPollObserver(observe))
	}
	return rag.NewAssistant(client, client, opts...)
}

func loggerFrom(cmd *cli.Command, w io.Writer) (*slog.Logger, error) {
	return newLogger(w, cmd.String("log-level"), cmd.String("log-format"))
}

// loadEnv loads variables from an optional .env file without overriding
// the environment. A missing file is not an error.
func loadEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// loadOrCreateSession loads the session at path. A missing file or an
// empty path yields a fresh session.
func loadOrCreateSession(path string, now time.Time) (rag.Session, error) {
	if path != "" {
		s, err := ragjson.Load(path)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return rag.Session{}, fmt.Errorf("load session: %w", err)
		}
	}
	return rag.Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func defaultSessionPath(id string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".rag", "sessions", id+".json")
}
