package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/corpushq/embedctl/internal/config"
	"github.com/corpushq/embedctl/internal/corpus"
	"github.com/corpushq/embedctl/internal/embeddings"
	"github.com/corpushq/embedctl/internal/store"
)

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	embedCmd := flag.NewFlagSet("embed", flag.ExitOnError)
	embedDir := embedCmd.String("dir", "", "Corpus directory (overrides config)")
	embedExt := embedCmd.String("ext", "", "File extension to load (overrides config)")
	embedModel := embedCmd.String("model", "", "Embedding model (overrides config)")
	embedFormat := embedCmd.String("format", "json", "Output format: json or csv")
	embedOutput := embedCmd.String("output", "", "Output file (default stdout)")

	corpusCmd := flag.NewFlagSet("corpus", flag.ExitOnError)
	corpusDir := corpusCmd.String("dir", "", "Corpus directory (overrides config)")
	corpusExt := corpusCmd.String("ext", "", "File extension to load (overrides config)")
	corpusFormat := corpusCmd.String("format", "json", "Output format: json or csv")
	corpusOutput := corpusCmd.String("output", "", "Output file (default stdout)")
	corpusRecursive := corpusCmd.Bool("recursive", false, "Scan subdirectories too")
	corpusSave := corpusCmd.Bool("save", false, "Snapshot the corpus into the local store")
	corpusChanged := corpusCmd.Bool("changed", false, "Only documents that differ from the snapshot")

	watchCmd := flag.NewFlagSet("watch", flag.ExitOnError)
	watchDir := watchCmd.String("dir", "", "Corpus directory (overrides config)")
	watchExt := watchCmd.String("ext", "", "File extension to watch (overrides config)")

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "embed":
			embedCmd.Parse(os.Args[2:])
			return runEmbed(*embedDir, *embedExt, *embedModel, *embedFormat, *embedOutput)
		case "corpus":
			corpusCmd.Parse(os.Args[2:])
			return runCorpus(corpusOptions{
				dir:       *corpusDir,
				ext:       *corpusExt,
				format:    *corpusFormat,
				output:    *corpusOutput,
				recursive: *corpusRecursive,
				save:      *corpusSave,
				changed:   *corpusChanged,
			})
		case "watch":
			watchCmd.Parse(os.Args[2:])
			return runWatch(*watchDir, *watchExt)
		case "config":
			return runConfigInit()
		case "version", "-v", "--version":
			fmt.Printf("embedctl %s (commit: %s, built: %s)\n", version, commit, date)
			return nil
		case "help", "-h", "--help":
			printUsage()
			return nil
		}
	}

	printUsage()
	return nil
}

func printUsage() {
	fmt.Println(`embedctl - Load text corpora and embed them

Usage:
  embedctl embed       Load the corpus and print its embeddings
  embedctl corpus      Load the corpus and print it
  embedctl watch       Watch the corpus directory and print changes
  embedctl config      Initialize config file
  embedctl version     Show version info
  embedctl help        Show this help

Common options:
  -dir string          Corpus directory (overrides config)
  -ext string          File extension to load (overrides config)
  -format string       Output format: json or csv (default json)
  -output string       Output file (default stdout)

Corpus options:
  -recursive           Scan subdirectories too
  -save                Snapshot the corpus into the local store
  -changed             Only print documents that differ from the snapshot

Examples:
  embedctl embed -dir ./notes                  # Embed ./notes/*.txt
  embedctl embed -ext md -format csv           # Embed *.md, CSV to stdout
  embedctl corpus -dir ./notes -save           # Load and snapshot
  embedctl corpus -changed                     # Print what changed since the snapshot
  embedctl watch -dir ./notes                  # Print change events`)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyOverrides folds command-line flags into the loaded config.
func applyOverrides(cfg *config.Config, dir, ext, model string) {
	if dir != "" {
		cfg.Corpus.Dir = dir
	}
	if ext != "" {
		cfg.Corpus.Ext = strings.TrimPrefix(ext, ".")
	}
	if model != "" {
		cfg.Embeddings.Model = model
	}
}

// newClient builds the embedding client for the configured provider. The
// OpenAI provider reads its credential from the JSON secrets file.
func newClient(cfg *config.Config) (embeddings.Client, error) {
	switch cfg.Embeddings.Provider {
	case "openai":
		key, err := config.LoadSecretKey(cfg.Secrets.File)
		if err != nil {
			return nil, err
		}
		return embeddings.NewOpenAIClient(cfg.Embeddings.OpenAIURL, key), nil
	case "ollama":
		return embeddings.NewOllamaClient(cfg.Embeddings.OllamaURL), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Embeddings.Provider)
	}
}

// openOutput returns the writer export goes to. Empty path means stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return os.Stdout, nil
	}
	return os.Create(path)
}

func runEmbed(dir, ext, model, format, output string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyOverrides(cfg, dir, ext, model)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	docs, err := corpus.Load(cfg.Corpus.Dir, cfg.Corpus.Ext)
	if err != nil {
		return err
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	resp, err := embeddings.EmbedDocuments(ctx, client, docs.Texts(), cfg.Embeddings.Model)
	if err != nil {
		return err
	}

	w, err := openOutput(output)
	if err != nil {
		return fmt.Errorf("opening output: %w", err)
	}
	if w != os.Stdout {
		defer w.Close()
	}

	switch format {
	case "json":
		return exportEmbeddingsJSON(w, docs, resp)
	case "csv":
		return exportEmbeddingsCSV(w, docs, resp)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

type corpusOptions struct {
	dir       string
	ext       string
	format    string
	output    string
	recursive bool
	save      bool
	changed   bool
}

func runCorpus(opts corpusOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyOverrides(cfg, opts.dir, opts.ext, "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var docs corpus.Corpus
	if opts.recursive {
		scanner := corpus.NewScanner(corpus.ScanConfig{
			Paths:      []string{cfg.Corpus.Dir},
			Extensions: []string{cfg.Corpus.Ext},
			Ignore:     cfg.Corpus.Ignore,
		})
		docs, err = scanner.LoadPaths(ctx)
	} else {
		docs, err = corpus.Load(cfg.Corpus.Dir, cfg.Corpus.Ext)
	}
	if err != nil {
		return err
	}

	if opts.save || opts.changed {
		snapshotPath, err := cfg.SnapshotPath()
		if err != nil {
			return fmt.Errorf("resolving snapshot path: %w", err)
		}
		db, err := store.Open(snapshotPath)
		if err != nil {
			return err
		}
		defer db.Close()

		if opts.changed {
			docs, err = db.Changed(ctx, docs)
			if err != nil {
				return err
			}
		}
		if opts.save {
			if err := db.Save(ctx, docs, cfg.Corpus.Dir); err != nil {
				return err
			}
		}
	}

	w, err := openOutput(opts.output)
	if err != nil {
		return fmt.Errorf("opening output: %w", err)
	}
	if w != os.Stdout {
		defer w.Close()
	}

	switch opts.format {
	case "json":
		return exportCorpusJSON(w, docs)
	case "csv":
		return exportCorpusCSV(w, docs)
	default:
		return fmt.Errorf("unknown format: %s", opts.format)
	}
}

func runWatch(dir, ext string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyOverrides(cfg, dir, ext, "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := corpus.NewWatcher(cfg.Corpus.Dir, cfg.Corpus.Ext)
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Start(ctx)
	}()

	fmt.Printf("watching %s for *.%s changes (ctrl-c to stop)\n", cfg.Corpus.Dir, cfg.Corpus.Ext)
	for ev := range watcher.Events() {
		switch ev.Op {
		case corpus.OpChanged:
			fmt.Printf("changed\t%s\t%s\n", ev.ID, ev.Path)
		case corpus.OpRemoved:
			fmt.Printf("removed\t%s\t%s\n", ev.ID, ev.Path)
		}
	}

	return <-errCh
}

func runConfigInit() error {
	cfg := config.Default()
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	path, _ := config.ConfigPath()
	fmt.Printf("wrote %s\n", path)
	return nil
}
