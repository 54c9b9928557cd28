package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// openAll returns one fresh store of every kind.
func openAll(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	file, err := OpenFile(filepath.Join(dir, "record.txt"))
	if err != nil {
		t.Fatalf("OpenFile() failed: %v", err)
	}
	db, err := OpenSQLite(filepath.Join(dir, "record.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return map[string]Store{
		KindFile:   file,
		KindMemory: NewMemory(0),
		KindSQLite: db,
	}
}

func TestStoreFreshBestIsZero(t *testing.T) {
	ctx := context.Background()
	for kind, s := range openAll(t) {
		t.Run(kind, func(t *testing.T) {
			best, err := s.Best(ctx)
			if err != nil {
				t.Fatalf("Best() failed: %v", err)
			}
			if best != 0 {
				t.Errorf("Best() = %d, expected 0", best)
			}
		})
	}
}

func TestStoreReportKeepsMax(t *testing.T) {
	pairs := [][2]int{{0, 0}, {3, 7}, {7, 3}, {5, 5}, {0, 12}, {40, 1}}
	ctx := context.Background()

	for _, p := range pairs {
		for kind, s := range openAll(t) {
			first, err := s.Report(ctx, p[0])
			if err != nil {
				t.Fatalf("%s: Report(%d) failed: %v", kind, p[0], err)
			}
			if first != p[0] {
				t.Errorf("%s: Report(%d) = %d, expected %d", kind, p[0], first, p[0])
			}

			second, err := s.Report(ctx, p[1])
			if err != nil {
				t.Fatalf("%s: Report(%d) failed: %v", kind, p[1], err)
			}
			expected := max(p[0], p[1])
			if second != expected {
				t.Errorf("%s: Report(%d) then Report(%d) = %d, expected %d", kind, p[0], p[1], second, expected)
			}

			best, _ := s.Best(ctx)
			if best != expected {
				t.Errorf("%s: Best() = %d after %v, expected %d", kind, best, p, expected)
			}
		}
	}
}

func TestStoreReportIdempotent(t *testing.T) {
	ctx := context.Background()
	for kind, s := range openAll(t) {
		t.Run(kind, func(t *testing.T) {
			if _, err := s.Report(ctx, 10); err != nil {
				t.Fatal(err)
			}
			for i := 0; i < 2; i++ {
				got, err := s.Report(ctx, 4)
				if err != nil {
					t.Fatal(err)
				}
				if got != 10 {
					t.Errorf("Report(4) #%d = %d, expected 10", i+1, got)
				}
			}
		})
	}
}

func TestStoreRejectsNegative(t *testing.T) {
	ctx := context.Background()
	for kind, s := range openAll(t) {
		t.Run(kind, func(t *testing.T) {
			s.Report(ctx, 6)

			_, err := s.Report(ctx, -1)
			if !errors.Is(err, ErrInvalidRecord) {
				t.Errorf("Report(-1) error = %v, expected ErrInvalidRecord", err)
			}
			if best, _ := s.Best(ctx); best != 6 {
				t.Errorf("Best() = %d after rejected report, expected 6", best)
			}
		})
	}
}

func TestParseSeconds(t *testing.T) {
	tests := []struct {
		raw      string
		expected int
		ok       bool
	}{
		{"0", 0, true},
		{"7", 7, true},
		{"3600", 3600, true},
		{"", 0, false},
		{"042", 0, false},
		{"+5", 0, false},
		{"-1", 0, false},
		{"1.5", 0, false},
		{" 1", 0, false},
		{"99999999999999999999999", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseSeconds(tt.raw)
		if tt.ok && (err != nil || got != tt.expected) {
			t.Errorf("ParseSeconds(%q) = %d, %v, expected %d", tt.raw, got, err, tt.expected)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidRecord) {
			t.Errorf("ParseSeconds(%q) error = %v, expected ErrInvalidRecord", tt.raw, err)
		}
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "record.txt")

	s, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() failed: %v", err)
	}
	if _, err := s.Report(ctx, 42); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("record file not written: %v", err)
	}
	if string(data) != "42\n" {
		t.Errorf("record file = %q, expected %q", data, "42\n")
	}

	reopened, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() reopen failed: %v", err)
	}
	if best, _ := reopened.Best(ctx); best != 42 {
		t.Errorf("Best() after reopen = %d, expected 42", best)
	}
}

func TestFileStoreSeededValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.txt")
	if err := os.WriteFile(path, []byte(" 17 \n"), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() failed: %v", err)
	}
	if best, _ := s.Best(context.Background()); best != 17 {
		t.Errorf("Best() = %d, expected file-seeded 17", best)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.txt")
	if err := os.WriteFile(path, []byte("lots"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := OpenFile(path); !errors.Is(err, ErrStorage) {
		t.Errorf("OpenFile(corrupt) error = %v, expected ErrStorage", err)
	}
}

func TestFileStoreUnreadableMedium(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "record.txt")

	s, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	// A directory in place of the file makes every read fail
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Best(ctx); !errors.Is(err, ErrStorage) {
		t.Errorf("Best() error = %v, expected ErrStorage", err)
	}
	if _, err := s.Report(ctx, 3); !errors.Is(err, ErrStorage) {
		t.Errorf("Report() error = %v, expected ErrStorage", err)
	}
}

func TestSQLiteHistory(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "record.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	defer s.Close()

	s.Report(WithSessionID(ctx, "first"), 5)
	s.Report(ctx, 9)
	s.Report(WithSessionID(ctx, "third"), 2)

	entries, err := s.History(ctx, 10)
	if err != nil {
		t.Fatalf("History() failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("History() returned %d entries, expected 3", len(entries))
	}

	// Newest first
	if entries[0].SessionID != "third" || entries[0].Seconds != 2 || entries[0].BestAfter != 9 {
		t.Errorf("entries[0] = %+v, expected third/2/9", entries[0])
	}
	if entries[1].SessionID == "" {
		t.Error("untagged report should get a generated session id")
	}
	if entries[2].SessionID != "first" || entries[2].BestAfter != 5 {
		t.Errorf("entries[2] = %+v, expected first/5", entries[2])
	}

	limited, _ := s.History(ctx, 1)
	if len(limited) != 1 {
		t.Errorf("History(1) returned %d entries", len(limited))
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "record.db")

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Report(ctx, 31)
	s.Close()

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	if best, _ := reopened.Best(ctx); best != 31 {
		t.Errorf("Best() after reopen = %d, expected 31", best)
	}
}

func TestOpenKinds(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		kind    string
		path    string
		wantErr bool
	}{
		{KindFile, filepath.Join(dir, "a.txt"), false},
		{"", filepath.Join(dir, "b.txt"), false},
		{KindMemory, "", false},
		{KindSQLite, filepath.Join(dir, "c.db"), false},
		{"redis", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.kind, func(t *testing.T) {
			s, err := Open(tc.kind, tc.path)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Open(%q) error = %v, wantErr %v", tc.kind, err, tc.wantErr)
			}
			if s != nil {
				s.Close()
			}
		})
	}
}
