package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/threatlens/threatlens/internal/app"
	"github.com/threatlens/threatlens/internal/config"
	"github.com/threatlens/threatlens/internal/core/domain"
	"github.com/threatlens/threatlens/internal/core/services/export"
	"github.com/threatlens/threatlens/internal/telemetry"
)

func main() {
	// Setup Structured Logging
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// load config
	cfg := config.Load()

	// Initialize Tracing
	shutdownTracer, err := telemetry.InitTracer()
	if err != nil {
		slog.Error("Failed to init tracer", "error", err)
	} else {
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				slog.Error("Failed to shutdown tracer", "error", err)
			}
		}()
	}

	// Initialize Application
	application, err := app.New(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := application.Close(); err != nil {
			slog.Error("Failed to close storage", "error", err)
		}
	}()

	// Root Context with cancellation on Interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, application, cfg); err != nil {
		slog.Error("Command failed", "command", cfg.Command, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, application *app.Application, cfg *config.Config) error {
	switch cfg.Command {
	case "search":
		return runSearch(ctx, application, cfg.Args)
	case "fetch":
		return runFetch(ctx, application, cfg.Args)
	case "watchlist":
		return runWatchlist(application, cfg.Args)
	case "note":
		return runNote(application, cfg.Args)
	case "export":
		return runExport(ctx, application, cfg.Args)
	case "cache":
		return runCache(application, cfg.Args)
	case "settings":
		return runSettings(application, cfg.Args)
	case "", "help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", cfg.Command)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: threatlens [flags] <command> [args]

Commands:
  search <keyword> [page] [pageSize]   search vulnerabilities by keyword or CVE id
  fetch <CVE-ID>                       fetch a single record by identifier
  watchlist add|remove|list [CVE-ID]   manage the tracked identifier list
  note <CVE-ID> [text]                 show or set the note for a CVE
  export csv|json|pdf <keyword> [out]  export search results to a file
  cache clear|count                    manage the response cache
  settings [key value]                 show or change stored settings

Flags are listed by 'threatlens -h'.`)
}

func runSearch(ctx context.Context, application *app.Application, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("search needs a keyword or CVE identifier")
	}

	query := buildQuery(args)
	result, err := application.Source.Search(ctx, query)
	if err != nil {
		return err
	}

	printResult(result)
	return nil
}

func buildQuery(args []string) domain.SearchQuery {
	query := domain.SearchQuery{PageSize: 20}

	term := args[0]
	if domain.LooksLikeCVEID(term) {
		query.CVEID = domain.NormalizeCVEID(term)
	} else {
		query.Keyword = term
	}

	if len(args) > 1 {
		if page, err := strconv.Atoi(args[1]); err == nil && page > 1 {
			query.Offset = (page - 1) * query.PageSize
		}
	}
	if len(args) > 2 {
		if size, err := strconv.Atoi(args[2]); err == nil && size > 0 {
			query.PageSize = size
			if query.Offset > 0 {
				query.Offset = query.Offset / 20 * size
			}
		}
	}

	return query
}

func printResult(result *domain.SearchResult) {
	switch result.Status {
	case domain.StatusCache:
		slog.Info("Serving cached results")
	case domain.StatusDemo:
		slog.Info("Demo mode: serving bundled dataset")
	case domain.StatusDegraded:
		slog.Warn("Upstream unavailable: serving bundled dataset")
	}

	fmt.Printf("%d results (showing %d from offset %d)\n\n", result.TotalResults, len(result.Records), result.Offset)
	for _, rec := range result.Records {
		score := "  - "
		if rec.CVSS.Score != nil {
			score = fmt.Sprintf("%4.1f", *rec.CVSS.Score)
		}
		desc := rec.Description
		if len(desc) > 100 {
			desc = desc[:97] + "..."
		}
		fmt.Printf("%-18s %-8s %s  %s\n", rec.ID, rec.Severity, score, desc)
	}
}

func runFetch(ctx context.Context, application *app.Application, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("fetch needs a CVE identifier")
	}

	record, err := application.Source.FetchByID(ctx, args[0])
	if err != nil {
		return err
	}
	if record == nil {
		fmt.Printf("%s not found\n", domain.NormalizeCVEID(args[0]))
		return nil
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(record)
}

func runWatchlist(application *app.Application, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}

	switch args[0] {
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("watchlist add needs a CVE identifier")
		}
		if err := application.Watchlist.Add(args[1]); err != nil {
			return err
		}
		fmt.Printf("Tracking %s\n", domain.NormalizeCVEID(args[1]))
		return nil
	case "remove":
		if len(args) < 2 {
			return fmt.Errorf("watchlist remove needs a CVE identifier")
		}
		if err := application.Watchlist.Remove(args[1]); err != nil {
			return err
		}
		fmt.Printf("Stopped tracking %s\n", domain.NormalizeCVEID(args[1]))
		return nil
	case "list":
		items, err := application.Watchlist.List()
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("Watchlist is empty")
			return nil
		}
		for _, item := range items {
			fmt.Printf("%-18s added %s\n", item.CVEID, item.AddedAt.Format("2006-01-02"))
		}
		return nil
	default:
		return fmt.Errorf("unknown watchlist action %q", args[0])
	}
}

func runNote(application *app.Application, args []string) error {
	if len(args) == 0 {
		notes, err := application.Watchlist.AllNotes()
		if err != nil {
			return err
		}
		if len(notes) == 0 {
			fmt.Println("No notes")
			return nil
		}
		for _, note := range notes {
			fmt.Printf("%-18s %s\n", note.CVEID, note.Body)
		}
		return nil
	}

	if len(args) == 1 {
		note, err := application.Watchlist.Note(args[0])
		if err != nil {
			return err
		}
		if note == nil {
			fmt.Printf("No note for %s\n", domain.NormalizeCVEID(args[0]))
			return nil
		}
		fmt.Println(note.Body)
		return nil
	}

	body := strings.Join(args[1:], " ")
	note, err := application.Watchlist.SaveNote(args[0], body)
	if err != nil {
		return err
	}
	fmt.Printf("Saved note for %s\n", note.CVEID)
	return nil
}

func runExport(ctx context.Context, application *app.Application, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("export needs a format (csv, json, pdf) and a keyword")
	}
	format := args[0]
	query := buildQuery(args[1:2])
	query.PageSize = 200

	result, err := application.Source.Search(ctx, query)
	if err != nil {
		return err
	}

	outPath := fmt.Sprintf("threatlens-export-%s.%s", time.Now().Format("20060102-150405"), format)
	if len(args) > 2 {
		outPath = args[2]
	}

	switch format {
	case "csv", "json":
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if format == "csv" {
			err = export.ExportCSV(f, result.Records)
		} else {
			err = export.ExportJSON(f, result.Records)
		}
		if err != nil {
			return err
		}
	case "pdf":
		summary := domain.Summarize(result.Records)
		data, err := application.PDFExporter.ExportReport("ThreatLens Vulnerability Report", summary, result.Records)
		if err != nil {
			return err
		}
		if err := os.WriteFile(outPath, data, 0644); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown export format %q", format)
	}

	fmt.Printf("Wrote %d records to %s\n", len(result.Records), filepath.Clean(outPath))
	return nil
}

func runCache(application *app.Application, args []string) error {
	if len(args) == 0 {
		args = []string{"count"}
	}

	switch args[0] {
	case "clear":
		application.Cache.Clear()
		fmt.Println("Cache cleared")
		return nil
	case "count":
		fmt.Printf("%d cached responses\n", application.Cache.Count())
		return nil
	default:
		return fmt.Errorf("unknown cache action %q", args[0])
	}
}

func runSettings(application *app.Application, args []string) error {
	store := application.UserData.Settings()

	settings, err := store.Load()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		key := "(not set)"
		if settings.APIKey != "" {
			key = "****" + lastN(settings.APIKey, 4)
		}
		fmt.Printf("api-key:   %s\ndemo-mode: %t\n", key, settings.DemoMode)
		return nil
	}
	if len(args) < 2 {
		return fmt.Errorf("settings needs a key and a value")
	}

	switch args[0] {
	case "api-key":
		settings.APIKey = args[1]
	case "demo-mode":
		v, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("demo-mode wants true or false: %w", err)
		}
		settings.DemoMode = v
	default:
		return fmt.Errorf("unknown setting %q", args[0])
	}

	if err := store.Save(settings); err != nil {
		return err
	}
	fmt.Printf("Saved %s\n", args[0])
	return nil
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
