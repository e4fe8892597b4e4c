package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-matcher/internal/config"
	"github.com/jonathan/resume-matcher/internal/fetch"
	"github.com/jonathan/resume-matcher/internal/ingestion"
	"github.com/jonathan/resume-matcher/internal/llm"
	"github.com/jonathan/resume-matcher/internal/observability"
	"github.com/jonathan/resume-matcher/internal/parsing"
	"github.com/jonathan/resume-matcher/internal/ranking"
	"github.com/jonathan/resume-matcher/internal/schemas"
	"github.com/jonathan/resume-matcher/internal/similarity"
	"github.com/jonathan/resume-matcher/internal/types"
)

// globalOptions are the persistent root flags
type globalOptions struct {
	configPath string
	verbose    bool
}

// app is what a command needs once configuration is loaded
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	out     io.Writer
	printer *observability.Printer // nil unless verbose
}

func (o *globalOptions) load(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if o.verbose {
		cfg.Verbose = true
	}
	applyEnvFallbacks(cfg)

	a := &app{
		cfg:    cfg,
		logger: cfg.NewLogger(cmd.ErrOrStderr()),
		out:    cmd.OutOrStdout(),
	}
	if cfg.Verbose {
		a.printer = observability.NewPrinter(cmd.ErrOrStderr())
	}
	slog.SetDefault(a.logger)
	return a, nil
}

// applyEnvFallbacks fills unset values from the conventional unprefixed variables
func applyEnvFallbacks(cfg *config.Config) {
	fallback := func(dst *string, name string) {
		if *dst == "" {
			*dst = os.Getenv(name)
		}
	}
	fallback(&cfg.DatabaseURL, "DATABASE_URL")
	fallback(&cfg.GeminiAPIKey, "GEMINI_API_KEY")
	fallback(&cfg.AMQPURL, "RABBITMQ_URL")
}

// newMatcher builds the matcher, backed by Gemini embeddings when configured.
// The returned func releases the embedding client.
func (a *app) newMatcher(ctx context.Context, recorder ranking.Recorder) (*ranking.Matcher, func(), error) {
	var embedder similarity.Embedder
	cleanup := func() {}

	if a.cfg.UseGeminiEmbeddings {
		gemini, err := llm.NewGeminiEmbedder(ctx, llm.DefaultConfig().WithModel(a.cfg.EmbeddingModel), a.cfg.GeminiAPIKey)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create embedder: %w", err)
		}
		embedder = gemini
		cleanup = func() { _ = gemini.Close() }
	}

	engine := similarity.NewEngine(embedder)
	a.logger.Debug("similarity engine ready", "embedder", engine.EmbedderName())

	opts := []ranking.Option{ranking.WithLogger(a.logger)}
	if recorder != nil {
		opts = append(opts, ranking.WithRecorder(recorder))
	}
	return ranking.NewMatcher(engine, opts...), cleanup, nil
}

func (a *app) fetchOptions() *fetch.JobOptions {
	httpOpts := fetch.DefaultOptions()
	if a.cfg.FetchTimeoutSeconds > 0 {
		httpOpts.Timeout = time.Duration(a.cfg.FetchTimeoutSeconds) * time.Second
	}
	return &fetch.JobOptions{HTTP: httpOpts, UseBrowser: a.cfg.UseBrowser, Logger: a.logger}
}

// jobDescription reads the job description from exactly one of a file or a URL
func (a *app) jobDescription(ctx context.Context, extractor *ingestion.Extractor, path, url string) (string, error) {
	switch {
	case path != "" && url != "":
		return "", fmt.Errorf("--job and --job-url are mutually exclusive")
	case path != "":
		return extractor.ExtractText(ctx, path)
	case url != "":
		a.logger.Info("fetching job posting", "url", url, "platform", fetch.DetectPlatform(url))
		return fetch.JobDescription(ctx, url, a.fetchOptions())
	default:
		return "", fmt.Errorf("either --job or --job-url is required")
	}
}

// readResume loads a resume from a document (path or s3://) or from parsed-resume JSON.
// It returns the structured resume and the text used for free-text heuristics.
func readResume(ctx context.Context, extractor *ingestion.Extractor, path, jsonPath string) (*types.ParsedResume, string, error) {
	switch {
	case path != "" && jsonPath != "":
		return nil, "", fmt.Errorf("--resume and --resume-json are mutually exclusive")
	case jsonPath != "":
		data, err := os.ReadFile(jsonPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read resume JSON: %w", err)
		}
		if err := schemas.ValidateParsedResume(data); err != nil {
			return nil, "", fmt.Errorf("resume JSON is invalid: %w", err)
		}
		return parsing.LoadResume(data)
	case path != "":
		if strings.EqualFold(filepath.Ext(path), ".json") {
			return readResume(ctx, extractor, "", path)
		}
		text, err := extractor.ExtractText(ctx, path)
		if err != nil {
			return nil, "", err
		}
		return parsing.ParseResumeStructure(text), text, nil
	default:
		return nil, "", fmt.Errorf("either --resume or --resume-json is required")
	}
}

// newExtractor returns an extractor, pointed at an S3-compatible endpoint when one is given
func newExtractor(ctx context.Context, s3Endpoint string) (*ingestion.Extractor, error) {
	if s3Endpoint == "" {
		return ingestion.NewExtractor(), nil
	}
	client, err := ingestion.NewS3Client(ctx, s3Endpoint)
	if err != nil {
		return nil, err
	}
	return ingestion.NewExtractor(ingestion.WithS3Client(client)), nil
}

// writeJSON writes v as indented JSON to outPath, or to the command output when empty
func (a *app) writeJSON(outPath string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')

	return a.writeOutput(outPath, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// writeOutput runs render against outPath, or against the command output when empty
func (a *app) writeOutput(outPath string, render func(io.Writer) error) error {
	if outPath == "" {
		return render(a.out)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := render(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	a.logger.Info("output written", "path", outPath)
	return nil
}

// checkFormat rejects an output format outside allowed
func checkFormat(format string, allowed ...string) error {
	for _, f := range allowed {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("unsupported --format %q (want one of %s)", format, strings.Join(allowed, ", "))
}
