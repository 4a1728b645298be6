package storage

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/IshaanNene/sportscard/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var testPosts = []types.Post{
	{
		Index:       1,
		Item:        types.MustNewsItem("손흥민 <멀티골>", "토트넘 승리.", "Naver Sports", "https://sports.news.naver.com/a?x=1&y=2"),
		Caption:     "골, 골!",
		ImagePath:   "post_1.jpg",
		CaptionPath: "post_1.txt",
	},
	{
		Index:       2,
		Item:        types.MustNewsItem("Lakers win", types.SummaryUnavailable, "ESPN", ""),
		Caption:     "line one\nline two",
		ImagePath:   "post_2.jpg",
		CaptionPath: "post_2.txt",
	},
}

func TestJSONManifest(t *testing.T) {
	dir := t.TempDir()
	s, err := NewManifest("json", dir, testLogger)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := WriteAll(s, testPosts); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got []map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0]["title"] != "손흥민 <멀티골>" || got[0]["url"] != "https://sports.news.naver.com/a?x=1&y=2" {
		t.Errorf("unexpected first entry %v", got[0])
	}
	if got[1]["index"] != float64(2) || got[1]["summary"] != types.SummaryUnavailable {
		t.Errorf("unexpected second entry %v", got[1])
	}
}

func TestJSONLManifest(t *testing.T) {
	dir := t.TempDir()
	s, err := NewManifest("jsonl", dir, testLogger)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := WriteAll(s, testPosts); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "manifest.jsonl"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var lines int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("line %d: %v", lines+1, err)
		}
		if entry["image"] != testPosts[lines].ImagePath {
			t.Errorf("line %d: image %v", lines+1, entry["image"])
		}
		lines++
	}
	if lines != 2 {
		t.Errorf("expected 2 lines, got %d", lines)
	}
}

func TestCSVManifest(t *testing.T) {
	dir := t.TempDir()
	s, err := NewManifest("csv", dir, testLogger)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := WriteAll(s, testPosts); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "manifest.csv"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "index" || rows[0][7] != "caption_file" {
		t.Errorf("unexpected header %v", rows[0])
	}
	if rows[2][5] != "line one\nline two" {
		t.Errorf("multi-line caption not preserved: %q", rows[2][5])
	}
}

func TestNoneManifestWritesNothing(t *testing.T) {
	dir := t.TempDir()
	s, err := NewManifest("none", dir, testLogger)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := WriteAll(s, testPosts); err != nil {
		t.Fatalf("write: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("expected empty dir, got %d entries", len(entries))
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := NewManifest("parquet", t.TempDir(), testLogger); err == nil {
		t.Error("expected error for unsupported format")
	}
}

type failingStorage struct{}

func (failingStorage) Store([]types.Post) error { return errors.New("disk full") }
func (failingStorage) Close() error             { return nil }
func (failingStorage) Name() string             { return "failing" }

func TestWriteAllWrapsErrors(t *testing.T) {
	err := WriteAll(failingStorage{}, testPosts)
	var storageErr *types.StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("expected StorageError, got %v", err)
	}
	if storageErr.Backend != "failing" {
		t.Errorf("unexpected backend %q", storageErr.Backend)
	}
}
