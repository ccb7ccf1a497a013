// Command rag is a client for a retrieval-augmented question answering
// service.
//
// Usage:
//
//	rag [global flags] ingest [--ocr] FILE|GLOB...
//	rag [global flags] ask [--session FILE] [--no-stream] QUESTION
//	rag [global flags] chat [--session FILE]
//	rag [global flags] texts [--source NAME] TEXT...
//	rag [global flags] forget SESSION_ID | --all
//	rag [global flags] invoices [--skip N] [--limit N]
//	rag [global flags] clear --yes
//
// Global flags fall back to RAG_* environment variables, which may be set
// in a .env file in the working directory.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adamani-ai/rag"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "rag: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if err := loadEnv(".env"); err != nil {
		return err
	}
	return newApp(stdout, stderr).command().Run(ctx, args)
}

// app holds the process-level collaborators shared by all commands.
type app struct {
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr, now: time.Now}
}

func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:      "rag",
		Usage:     "Ingest documents into and ask questions of a RAG service",
		Writer:    a.stdout,
		ErrWriter: a.stderr,
		Flags:     globalFlags(),
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Upload documents and wait until they are indexed",
				ArgsUsage: "FILE|GLOB...",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "ocr",
						Usage: "Force OCR on PDF files",
					},
				},
				Action: a.ingest,
			},
			{
				Name:      "ask",
				Usage:     "Ask a single question",
				ArgsUsage: "QUESTION",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "session",
						Usage: "Session file to continue and update",
					},
					&cli.BoolFlag{
						Name:  "no-stream",
						Usage: "Submit and poll instead of streaming",
					},
					&cli.BoolFlag{
						Name:  "raw",
						Usage: "Print answer tokens as they arrive without markdown rendering",
					},
					&cli.IntFlag{
						Name:  "excerpt",
						Usage: "Characters of each source excerpt to show (0 hides excerpts)",
						Value: 160,
					},
				},
				Action: a.ask,
			},
			{
				Name:  "chat",
				Usage: "Start an interactive chat",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "session",
						Usage: "Session file to resume (default: ~/.rag/sessions/ID.json)",
					},
				},
				Action: a.chat,
			},
			{
				Name:      "texts",
				Usage:     "Index raw text passages",
				ArgsUsage: "TEXT...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "source",
						Usage: "Source name recorded in each passage's metadata",
					},
				},
				Action: a.texts,
			},
			{
				Name:      "forget",
				Usage:     "Clear the server-side memory of a conversation",
				ArgsUsage: "SESSION_ID",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Clear the memory of every conversation",
					},
				},
				Action: a.forget,
			},
			{
				Name:  "invoices",
				Usage: "List the invoices extracted for your account",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "skip",
						Usage: "Number of invoices to skip",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of invoices to list",
						Value: rag.DefaultInvoiceLimit,
					},
				},
				Action: a.invoices,
			},
			{
				Name:  "clear",
				Usage: "Remove every indexed document",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Confirm removal",
					},
				},
				Action: a.clear,
			},
		},
	}
}
