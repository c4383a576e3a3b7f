package session

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const journalExt = ".jsonl"

// Journal records inbound frames
type Journal interface {
	Record(frame []byte) error
	Close() error
}

// JournalEntry is one recorded frame. Frames that are not valid JSON are
// kept verbatim in Raw.
type JournalEntry struct {
	At    time.Time       `json:"at"`
	Frame json.RawMessage `json:"frame,omitempty"`
	Raw   string          `json:"raw,omitempty"`
}

// Bytes returns the frame as received.
func (e JournalEntry) Bytes() []byte {
	if len(e.Frame) > 0 {
		return e.Frame
	}
	return []byte(e.Raw)
}

// FileJournal appends entries to a JSON lines file
type FileJournal struct {
	mu   sync.Mutex
	path string
	file *os.File
	enc  *json.Encoder
	now  func() time.Time
}

// OpenFileJournal creates dir if needed and opens a new journal for the
// room code.
func OpenFileJournal(dir, code string, now time.Time) (*FileJournal, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	if code == "" {
		code = "nocode"
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%d%s", sanitize(code), now.Unix(), journalExt))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	return &FileJournal{
		path: path,
		file: f,
		enc:  json.NewEncoder(f),
		now:  time.Now,
	}, nil
}

// Path returns the journal file path.
func (j *FileJournal) Path() string {
	return j.path
}

// Record appends frame with the current time.
func (j *FileJournal) Record(frame []byte) error {
	entry := JournalEntry{At: j.now().UTC()}
	if json.Valid(frame) {
		entry.Frame = append(json.RawMessage(nil), frame...)
	} else {
		entry.Raw = string(frame)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return fmt.Errorf("journal %s is closed", j.path)
	}
	if err := j.enc.Encode(entry); err != nil {
		return fmt.Errorf("failed to write journal entry: %w", err)
	}
	return nil
}

// Close flushes and closes the file. Closing twice is a no-op.
func (j *FileJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	if err != nil {
		return fmt.Errorf("failed to close journal: %w", err)
	}
	return nil
}

// ReadJournal loads every entry of a journal file.
func ReadJournal(path string) ([]JournalEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	var entries []JournalEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var entry JournalEntry
		if err := json.Unmarshal([]byte(text), &entry); err != nil {
			return nil, fmt.Errorf("failed to parse journal line %d: %w", line, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	return entries, nil
}

// ListJournals returns the journal files in dir, oldest name first.
func ListJournals(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), journalExt) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func sanitize(code string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, code)
}
