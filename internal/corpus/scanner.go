package corpus

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ScanConfig configures the file scanner.
type ScanConfig struct {
	Paths      []string
	Extensions []string
	Ignore     []string
}

// Scanner walks directories recursively and returns matching files. It is the
// multi-path, recursive counterpart to Load.
type Scanner struct {
	config ScanConfig
	extMap map[string]bool
}

// FileInfo describes a file found by a scan.
type FileInfo struct {
	Path       string
	ModifiedAt int64 // Unix timestamp
	Size       int64
}

// NewScanner creates a new file scanner.
func NewScanner(config ScanConfig) *Scanner {
	extMap := make(map[string]bool, len(config.Extensions))
	for _, ext := range config.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extMap[strings.ToLower(ext)] = true
	}

	return &Scanner{
		config: config,
		extMap: extMap,
	}
}

// Scan walks all configured paths and sends file info to the returned channel.
func (s *Scanner) Scan(ctx context.Context) (<-chan FileInfo, <-chan error) {
	files := make(chan FileInfo, 100)
	errs := make(chan error, 10)

	go func() {
		defer close(files)
		defer close(errs)

		for _, basePath := range s.config.Paths {
			path := expandPath(basePath)

			info, err := os.Stat(path)
			if err != nil {
				if !os.IsNotExist(err) {
					select {
					case errs <- err:
					case <-ctx.Done():
						return
					}
				}
				continue
			}

			if !info.IsDir() {
				// Single file
				if s.matchesExtension(path) {
					select {
					case files <- FileInfo{
						Path:       path,
						ModifiedAt: info.ModTime().Unix(),
						Size:       info.Size(),
					}:
					case <-ctx.Done():
						return
					}
				}
				continue
			}

			err = filepath.WalkDir(path, func(filePath string, d fs.DirEntry, err error) error {
				if err != nil {
					return nil // Skip inaccessible files
				}

				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}

				if d.IsDir() {
					if s.shouldIgnore(filePath, d.Name()) {
						return filepath.SkipDir
					}
					return nil
				}

				if !s.matchesExtension(filePath) {
					return nil
				}

				if s.shouldIgnore(filePath, d.Name()) {
					return nil
				}

				info, err := d.Info()
				if err != nil {
					return nil // Skip files we can't stat
				}

				select {
				case files <- FileInfo{
					Path:       filePath,
					ModifiedAt: info.ModTime().Unix(),
					Size:       info.Size(),
				}:
				case <-ctx.Done():
					return ctx.Err()
				}

				return nil
			})

			if err != nil && err != context.Canceled {
				select {
				case errs <- err:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return files, errs
}

// MatchesPath reports whether a path is included by this scanner's config.
func (s *Scanner) MatchesPath(path string) bool {
	filePath := normalizePath(path)
	if filePath == "" {
		return false
	}

	if !s.matchesExtension(filePath) {
		return false
	}

	if s.shouldIgnore(filePath, filepath.Base(filePath)) {
		return false
	}

	for _, p := range s.config.Paths {
		if pathWithin(filePath, normalizePath(expandPath(p))) {
			return true
		}
	}

	return false
}

// LoadPaths drains a full scan into a Corpus. Each file becomes one document
// with its base name (without extension) as ID. PDF files are routed through
// text extraction; everything else is read as UTF-8 text.
func (s *Scanner) LoadPaths(ctx context.Context) (Corpus, error) {
	// Cancel the scan if we bail out early so its goroutine doesn't linger.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	files, errs := s.Scan(ctx)

	docs := Corpus{}
	for file := range files {
		var text string
		var err error
		if strings.EqualFold(filepath.Ext(file.Path), ".pdf") {
			text, err = LoadPDF(file.Path)
		} else {
			text, err = readDocument(file.Path)
		}
		if err != nil {
			return nil, err
		}

		name := filepath.Base(file.Path)
		docs = append(docs, Document{
			ID:   strings.TrimSuffix(name, filepath.Ext(name)),
			Text: text,
		})
	}

	if err := <-errs; err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *Scanner) matchesExtension(path string) bool {
	if len(s.extMap) == 0 {
		return true // No filter means all files
	}
	ext := strings.ToLower(filepath.Ext(path))
	return s.extMap[ext]
}

func (s *Scanner) shouldIgnore(path, name string) bool {
	for _, pattern := range s.config.Ignore {
		// Check exact name match
		if name == pattern {
			return true
		}
		// Check if pattern matches path component
		if strings.Contains(path, string(filepath.Separator)+pattern+string(filepath.Separator)) {
			return true
		}
		// Check glob pattern
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

func normalizePath(path string) string {
	if path == "" {
		return ""
	}
	path = filepath.Clean(path)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path
}

func pathWithin(path, base string) bool {
	if path == "" || base == "" {
		return false
	}
	if path == base {
		return true
	}
	return strings.HasPrefix(path, base+string(filepath.Separator))
}

// expandPath expands ~ to home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
