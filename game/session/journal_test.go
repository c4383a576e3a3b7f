package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFileJournal(t *testing.T) {
	dir := t.TempDir()
	start := time.Unix(1700000000, 0)

	j, err := OpenFileJournal(filepath.Join(dir, "journals"), "ab/c d", start)
	if err != nil {
		t.Fatalf("Failed to open journal: %v", err)
	}

	t.Run("path uses sanitized code and unix time", func(t *testing.T) {
		name := filepath.Base(j.Path())
		if name != "ab_c_d-1700000000.jsonl" {
			t.Errorf("Unexpected journal name %s", name)
		}
	})

	frames := []string{
		connected,
		"{truncated",
		`{"type":4,"counter":3}`,
	}
	for _, f := range frames {
		if err := j.Record([]byte(f)); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Errorf("Second close should be a no-op, got %v", err)
	}
	if err := j.Record([]byte("{}")); err == nil {
		t.Error("Expected error recording to a closed journal")
	}

	t.Run("read back", func(t *testing.T) {
		entries, err := ReadJournal(j.Path())
		if err != nil {
			t.Fatalf("ReadJournal failed: %v", err)
		}
		if len(entries) != len(frames) {
			t.Fatalf("Expected %d entries, got %d", len(frames), len(entries))
		}
		if entries[1].Raw != "{truncated" || len(entries[1].Frame) != 0 {
			t.Errorf("Malformed frame should be kept raw, got %+v", entries[1])
		}
		if string(entries[2].Bytes()) != frames[2] {
			t.Errorf("Expected %s, got %s", frames[2], entries[2].Bytes())
		}
		if entries[0].At.IsZero() {
			t.Error("Expected entry timestamp")
		}
	})

	t.Run("replay through a session", func(t *testing.T) {
		entries, _ := ReadJournal(j.Path())
		sess := New(Options{})
		defer sess.Close()
		for _, e := range entries {
			sess.HandleFrame(e.Bytes())
		}
		snap := sess.Snapshot()
		if snap.Me == nil || snap.Match.StartCountdown != 3 {
			t.Errorf("Unexpected replayed state: %+v", snap)
		}
		if sess.Stats().Engine.Dropped != 1 {
			t.Errorf("Expected 1 dropped frame, got %d", sess.Stats().Engine.Dropped)
		}
	})

	t.Run("list journals", func(t *testing.T) {
		os.WriteFile(filepath.Join(dir, "journals", "notes.txt"), []byte("x"), 0644)
		paths, err := ListJournals(filepath.Join(dir, "journals"))
		if err != nil {
			t.Fatalf("ListJournals failed: %v", err)
		}
		if len(paths) != 1 || !strings.HasSuffix(paths[0], ".jsonl") {
			t.Errorf("Unexpected journals: %v", paths)
		}
	})
}

func TestReadJournalErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := ReadJournal(filepath.Join(dir, "missing.jsonl")); err == nil {
		t.Error("Expected error for missing journal")
	}

	bad := filepath.Join(dir, "bad.jsonl")
	os.WriteFile(bad, []byte("{\"at\":\"2024-01-01T00:00:00Z\",\"frame\":{}}\nnot json\n"), 0644)
	if _, err := ReadJournal(bad); err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("Expected line 2 parse error, got %v", err)
	}
}

func TestOpenFileJournalEmptyCode(t *testing.T) {
	j, err := OpenFileJournal(t.TempDir(), "", time.Unix(5, 0))
	if err != nil {
		t.Fatalf("Failed to open journal: %v", err)
	}
	defer j.Close()

	if filepath.Base(j.Path()) != "nocode-5.jsonl" {
		t.Errorf("Unexpected journal name %s", j.Path())
	}
}
