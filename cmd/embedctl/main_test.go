package main

import (
	"os"
	"strings"
	"testing"

	"github.com/corpushq/embedctl/internal/config"
	"github.com/corpushq/embedctl/internal/embeddings"
)

func TestVersionVariables(t *testing.T) {
	// Build-time variables should have default values when not injected.
	if version != "dev" {
		t.Errorf("version = %q, want 'dev'", version)
	}
	if commit != "none" {
		t.Errorf("commit = %q, want 'none'", commit)
	}
	if date != "unknown" {
		t.Errorf("date = %q, want 'unknown'", date)
	}
}

func TestPrintUsage(t *testing.T) {
	// Capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	printUsage()

	w.Close()
	os.Stdout = old

	buf := make([]byte, 4096)
	n, _ := r.Read(buf)
	output := string(buf[:n])

	expectedSubstrings := []string{
		"embedctl embed",
		"embedctl corpus",
		"embedctl watch",
		"embedctl config",
		"embedctl version",
		"embedctl help",
	}

	for _, s := range expectedSubstrings {
		if !strings.Contains(output, s) {
			t.Errorf("printUsage() output missing %q", s)
		}
	}
}

func TestApplyOverrides(t *testing.T) {
	tests := []struct {
		name      string
		dir       string
		ext       string
		model     string
		wantDir   string
		wantExt   string
		wantModel string
	}{
		{
			name:      "no overrides keeps config",
			wantDir:   "/cfg/dir",
			wantExt:   "txt",
			wantModel: "cfg-model",
		},
		{
			name:      "all overrides",
			dir:       "/cli/dir",
			ext:       "md",
			model:     "cli-model",
			wantDir:   "/cli/dir",
			wantExt:   "md",
			wantModel: "cli-model",
		},
		{
			name:      "dotted ext is normalized",
			ext:       ".md",
			wantDir:   "/cfg/dir",
			wantExt:   "md",
			wantModel: "cfg-model",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Corpus.Dir = "/cfg/dir"
			cfg.Corpus.Ext = "txt"
			cfg.Embeddings.Model = "cfg-model"

			applyOverrides(cfg, tt.dir, tt.ext, tt.model)

			if cfg.Corpus.Dir != tt.wantDir {
				t.Errorf("Dir = %q, want %q", cfg.Corpus.Dir, tt.wantDir)
			}
			if cfg.Corpus.Ext != tt.wantExt {
				t.Errorf("Ext = %q, want %q", cfg.Corpus.Ext, tt.wantExt)
			}
			if cfg.Embeddings.Model != tt.wantModel {
				t.Errorf("Model = %q, want %q", cfg.Embeddings.Model, tt.wantModel)
			}
		})
	}
}

func TestNewClientOllama(t *testing.T) {
	cfg := config.Default()
	cfg.Embeddings.Provider = "ollama"

	client, err := newClient(cfg)
	if err != nil {
		t.Fatalf("newClient() error = %v", err)
	}
	if _, ok := client.(*embeddings.OllamaClient); !ok {
		t.Errorf("expected *embeddings.OllamaClient, got %T", client)
	}
}

func TestNewClientOpenAIRequiresSecret(t *testing.T) {
	cfg := config.Default()
	cfg.Embeddings.Provider = "openai"
	cfg.Secrets.File = "/does/not/exist.json"

	_, err := newClient(cfg)
	if err == nil {
		t.Fatal("expected error when secrets file is missing")
	}
}

func TestNewClientUnknownProvider(t *testing.T) {
	cfg := config.Default()
	cfg.Embeddings.Provider = "mystery"

	_, err := newClient(cfg)
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestOpenOutputStdout(t *testing.T) {
	w, err := openOutput("")
	if err != nil {
		t.Fatalf("openOutput() error = %v", err)
	}
	if w != os.Stdout {
		t.Error("empty path should map to stdout")
	}
}

func TestOpenOutputFile(t *testing.T) {
	path := t.TempDir() + "/out.json"
	w, err := openOutput(path)
	if err != nil {
		t.Fatalf("openOutput() error = %v", err)
	}
	defer w.Close()

	if _, err := w.Write([]byte("data")); err != nil {
		t.Errorf("writing to output: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output file not created: %v", err)
	}
}
