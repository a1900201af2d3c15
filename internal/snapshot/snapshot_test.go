package snapshot

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testWriter(t *testing.T) *Writer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewWriter(t.TempDir(), logger)
}

func TestWriter_SaveFullCapture(t *testing.T) {
	w := testWriter(t)

	dir, err := w.Save(Capture{
		TaskID:    "T1",
		URL:       "https://example.com",
		HTML:      `<p>hello</p><script>alert(1)</script>`,
		Structure: json.RawMessage(`{"0":{"tagName":"body"}}`),
		Prompt:    "Task: test",
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.Contains(filepath.Base(dir), "task_T1_") {
		t.Errorf("dir name = %q", dir)
	}

	for _, name := range []string{"page.html", "page_clean.html", "structure.json", "prompt.txt", "metadata.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	clean, err := os.ReadFile(filepath.Join(dir, "page_clean.html"))
	if err != nil {
		t.Fatalf("read sanitized copy: %v", err)
	}
	if strings.Contains(string(clean), "<script") {
		t.Error("sanitized copy still contains script tags")
	}
	if !strings.Contains(string(clean), "hello") {
		t.Error("sanitized copy lost the text content")
	}

	metaBytes, err := os.ReadFile(filepath.Join(dir, "metadata.json"))
	if err != nil {
		t.Fatalf("read metadata: %v", err)
	}
	var meta Metadata
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		t.Fatalf("decode metadata: %v", err)
	}
	if meta.TaskID != "T1" || meta.URL != "https://example.com" {
		t.Errorf("metadata = %+v", meta)
	}
	if meta.HTMLFile != "page.html" || meta.CleanFile != "page_clean.html" || meta.DOMFile != "structure.json" {
		t.Errorf("metadata file refs = %+v", meta)
	}
}

func TestWriter_SaveSkipsEmptyFields(t *testing.T) {
	w := testWriter(t)

	dir, err := w.Save(Capture{TaskID: "T2", URL: "https://example.com"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	for _, name := range []string{"page.html", "page_clean.html", "structure.json", "prompt.txt"} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("%s should not exist: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "metadata.json")); err != nil {
		t.Errorf("metadata.json always written: %v", err)
	}
}
