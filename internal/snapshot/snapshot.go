// Package snapshot archives page captures on disk for later debugging:
// the raw HTML, a sanitized copy, the structure payload, the generated
// prompt, and a metadata record tying them together.
package snapshot

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// Metadata describes one archived capture.
type Metadata struct {
	TaskID    string    `json:"task_id"`
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`
	HTMLFile  string    `json:"html_file,omitempty"`
	CleanFile string    `json:"clean_file,omitempty"`
	DOMFile   string    `json:"dom_file,omitempty"`
}

// Writer stores captures under a base directory, one subdirectory per
// capture named task_{id}_{timestamp}.
type Writer struct {
	baseDir   string
	sanitizer *bluemonday.Policy
	logger    *slog.Logger
}

func NewWriter(baseDir string, logger *slog.Logger) *Writer {
	return &Writer{
		baseDir:   baseDir,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger,
	}
}

// Capture is the material to archive for one step. Empty fields are
// skipped.
type Capture struct {
	TaskID    string
	URL       string
	HTML      string
	Structure json.RawMessage
	Prompt    string
}

// Save writes the capture to disk and returns the directory it landed
// in. Archiving is best-effort; callers treat errors as non-fatal.
func (w *Writer) Save(c Capture) (string, error) {
	now := time.Now().UTC()
	dir := filepath.Join(w.baseDir, fmt.Sprintf("task_%s_%s", c.TaskID, now.Format("20060102_150405")))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	meta := Metadata{
		TaskID:    c.TaskID,
		URL:       c.URL,
		Timestamp: now,
	}

	if c.HTML != "" {
		if err := os.WriteFile(filepath.Join(dir, "page.html"), []byte(c.HTML), 0o644); err != nil {
			return "", fmt.Errorf("write html: %w", err)
		}
		meta.HTMLFile = "page.html"

		clean := w.sanitizer.Sanitize(c.HTML)
		if err := os.WriteFile(filepath.Join(dir, "page_clean.html"), []byte(clean), 0o644); err != nil {
			return "", fmt.Errorf("write sanitized html: %w", err)
		}
		meta.CleanFile = "page_clean.html"
	}

	if len(c.Structure) > 0 {
		if err := os.WriteFile(filepath.Join(dir, "structure.json"), c.Structure, 0o644); err != nil {
			return "", fmt.Errorf("write structure: %w", err)
		}
		meta.DOMFile = "structure.json"
	}

	if c.Prompt != "" {
		if err := os.WriteFile(filepath.Join(dir, "prompt.txt"), []byte(c.Prompt), 0o644); err != nil {
			return "", fmt.Errorf("write prompt: %w", err)
		}
	}

	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "metadata.json"), metaBytes, 0o644); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}

	w.logger.Debug("snapshot saved", "task_id", c.TaskID, "dir", dir)
	return dir, nil
}
