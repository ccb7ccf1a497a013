package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/adamani-ai/rag"
	bt "github.com/adamani-ai/rag/bubbletea"
	"github.com/adamani-ai/rag/fs"
	"github.com/adamani-ai/rag/goldmark"
	ragjson "github.com/adamani-ai/rag/json"
	"github.com/urfave/cli/v3"
)

const renderWidth = 80

// resolve reads the configuration and builds the logger.
func (a *app) resolve(cmd *cli.Command) (config, *slog.Logger, error) {
	cfg, err := configFrom(cmd)
	if err != nil {
		return config{}, nil, err
	}
	logger, err := loggerFrom(cmd, a.stderr)
	if err != nil {
		return config{}, nil, err
	}
	return cfg, logger, nil
}

func (a *app) ingest(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("ingest: at least one file or glob is required: %w", rag.ErrValidation)
	}
	paths, err := fs.Expand(cmd.Args().Slice())
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	cfg, logger, err := a.resolve(cmd)
	if err != nil {
		return err
	}

	var current string
	assistant := cfg.assistant(cfg.client(logger), logger, func(at rag.Attempt) {
		var state string
		switch {
		case errors.Is(at.Err, rag.ErrNotFound):
			state = "not registered"
		case at.Err != nil:
			state = "lookup failed"
		default:
			state = string(at.Snapshot.Status())
		}
		fmt.Fprintf(a.stderr, "  %s: %s (attempt %d/%d)\n", current, state, at.N, at.MaxAttempts)
	})

	var (
		errs   []error
		chunks int
		done   int
	)
	for _, p := range paths {
		current = p
		doc, err := fs.LoadDocument(p, cmd.Bool("ocr"))
		if err != nil {
			errs = append(errs, err)
			fmt.Fprintf(a.stdout, "✗ %s: %v\n", p, err)
			continue
		}
		res, err := assistant.Ingest(ctx, doc)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			errs = append(errs, fmt.Errorf("%s: %w", p, err))
			fmt.Fprintf(a.stdout, "✗ %s: %v\n", p, err)
			continue
		}
		done++
		chunks += res.ChunksCreated
		fmt.Fprintf(a.stdout, "✓ %s: %d chunks\n", p, res.ChunksCreated)
	}

	fmt.Fprintf(a.stdout, "Ingested %d of %d files (%d chunks)\n", done, len(paths), chunks)
	return errors.Join(errs...)
}

func (a *app) ask(ctx context.Context, cmd *cli.Command) error {
	question := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("ask: a question is required: %w", rag.ErrValidation)
	}

	cfg, logger, err := a.resolve(cmd)
	if err != nil {
		return err
	}
	if cmd.Bool("no-stream") {
		cfg.streaming = false
	}
	assistant := cfg.assistant(cfg.client(logger), logger, nil)

	sessionPath := cmd.String("session")
	session, err := loadOrCreateSession(sessionPath, a.now())
	if err != nil {
		return err
	}

	raw := cmd.Bool("raw")
	var onEvent func(rag.Event)
	if raw {
		onEvent = func(e rag.Event) {
			if t, ok := e.(rag.EventToken); ok {
				fmt.Fprint(a.stdout, goldmark.Sanitize(t.Token))
			}
		}
	}

	askedAt := a.now()
	ans, askErr := assistant.Ask(ctx, rag.Query{Question: question, SessionID: session.ID, K: cfg.k}, onEvent)

	if raw {
		fmt.Fprintln(a.stdout)
		for i, src := range ans.Sources {
			fmt.Fprintf(a.stdout, "[%d] %s\n", i+1, goldmark.Sanitize(src.Label("excerpt")))
		}
	} else if ans.Text != "" || len(ans.Sources) > 0 {
		fmt.Fprintln(a.stdout, goldmark.RenderAnswer(ans, renderWidth, rag.DefaultTheme(), int(cmd.Int("excerpt"))))
	}

	if sessionPath != "" {
		session.Record(question, ans, askErr, askedAt)
		if err := ragjson.Save(sessionPath, session); err != nil {
			return errors.Join(askErr, fmt.Errorf("save session: %w", err))
		}
	}
	return askErr
}

func (a *app) chat(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := a.resolve(cmd)
	if err != nil {
		return err
	}
	assistant := cfg.assistant(cfg.client(logger), logger, nil)

	sessionPath := cmd.String("session")
	session, err := loadOrCreateSession(sessionPath, a.now())
	if err != nil {
		return err
	}
	if sessionPath == "" {
		sessionPath = defaultSessionPath(session.ID)
	}

	save := func(s *rag.Session) error {
		return ragjson.Save(sessionPath, *s)
	}
	m := bt.New(assistant.Ask, &session, rag.DefaultTheme(), bt.WithTopK(cfg.k), bt.WithTurnHook(save))
	if _, err := bt.Run(ctx, m); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}

	if len(session.Turns) > 0 {
		fmt.Fprintf(a.stderr, "Session saved to %s\n", sessionPath)
	}
	return nil
}

func (a *app) texts(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("texts: at least one text is required: %w", rag.ErrValidation)
	}
	cfg, logger, err := a.resolve(cmd)
	if err != nil {
		return err
	}

	source := cmd.String("source")
	texts := make([]rag.Text, 0, cmd.Args().Len())
	for _, s := range cmd.Args().Slice() {
		t := rag.Text{Content: s}
		if source != "" {
			t.Metadata = map[string]any{"source": source}
		}
		texts = append(texts, t)
	}

	res, err := cfg.client(logger).AddTexts(ctx, texts)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Added %d texts (%d chunks)\n", res.DocumentsAdded, res.ChunksCreated)
	return nil
}

func (a *app) forget(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	all := cmd.Bool("all")
	switch {
	case all && id != "":
		return fmt.Errorf("forget: pass either a session id or --all: %w", rag.ErrValidation)
	case !all && id == "":
		return fmt.Errorf("forget: a session id is required: %w", rag.ErrValidation)
	}
	cfg, logger, err := a.resolve(cmd)
	if err != nil {
		return err
	}
	if all {
		msg, err := cfg.client(logger).ForgetAllSessions(ctx)
		if err != nil {
			return err
		}
		if msg == "" {
			msg = "Forgot all sessions"
		}
		fmt.Fprintln(a.stdout, goldmark.Sanitize(msg))
		return nil
	}
	if err := cfg.client(logger).ForgetSession(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Forgot session %s\n", id)
	return nil
}

func (a *app) clear(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("yes") {
		return fmt.Errorf("clear: pass --yes to remove every indexed document: %w", rag.ErrValidation)
	}
	cfg, logger, err := a.resolve(cmd)
	if err != nil {
		return err
	}
	if err := cfg.client(logger).ClearKnowledgeBase(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Knowledge base cleared")
	return nil
}

func (a *app) invoices(ctx context.Context, cmd *cli.Command) error {
	page := rag.InvoicePage{Skip: int(cmd.Int("skip")), Limit: int(cmd.Int("limit"))}
	if err := page.Validate(); err != nil {
		return fmt.Errorf("invoices: %w", err)
	}
	cfg, logger, err := a.resolve(cmd)
	if err != nil {
		return err
	}
	invoices, err := cfg.client(logger).ListInvoices(ctx, page)
	if err != nil {
		return err
	}
	if len(invoices) == 0 {
		fmt.Fprintln(a.stdout, "No invoices")
		return nil
	}
	fmt.Fprintln(a.stdout, renderInvoices(invoices))
	return nil
}
