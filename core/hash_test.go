package core

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")
	content := []byte("Revenue increased 12% year over year.")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	h1, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile() error = %v", err)
	}
	h2, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile() error = %v", err)
	}

	if h1 != h2 {
		t.Errorf("HashFile() not deterministic: %s vs %s", h1, h2)
	}
	if len(h1) != 64 {
		t.Errorf("HashFile() length = %d, want 64 hex chars", len(h1))
	}
	if h1 != HashBytes(content) {
		t.Errorf("HashFile() = %s, want %s from HashBytes", h1, HashBytes(content))
	}
}

func TestHashFile_ContentSensitive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")

	if err := os.WriteFile(path, []byte("original content"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	before, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile() error = %v", err)
	}

	if err := os.WriteFile(path, []byte("modified content"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	after, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile() error = %v", err)
	}

	if before == after {
		t.Errorf("HashFile() produced same hash for different content")
	}
}

func TestHashFile_LargerThanBlock(t *testing.T) {
	// Spans several read blocks so the streaming path is exercised.
	content := bytes.Repeat([]byte("0123456789abcdef"), 1024) // 16 KiB
	dir := t.TempDir()
	path := filepath.Join(dir, "large.txt")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile() error = %v", err)
	}
	if got != HashBytes(content) {
		t.Errorf("streamed hash differs from single-shot hash")
	}
}

func TestHashFile_Missing(t *testing.T) {
	_, err := HashFile(filepath.Join(t.TempDir(), "no-such-file.txt"))
	if err == nil {
		t.Errorf("HashFile() error = nil, want error for missing file")
	}
}

func TestHashReader(t *testing.T) {
	content := "annual report text"
	got, err := HashReader(strings.NewReader(content))
	if err != nil {
		t.Fatalf("HashReader() error = %v", err)
	}
	if got != HashBytes([]byte(content)) {
		t.Errorf("HashReader() = %s, want %s", got, HashBytes([]byte(content)))
	}
}

func TestIndexRef(t *testing.T) {
	tests := []struct {
		name string
		id   DocumentID
		hash string
		want string
	}{
		{
			name: "long hash is truncated",
			id:   7,
			hash: "abcdef0123456789abcdef0123456789",
			want: "vector_store/7/abcdef012345",
		},
		{
			name: "short hash kept whole",
			id:   1,
			hash: "abc",
			want: "vector_store/1/abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IndexRef(tt.id, tt.hash); got != tt.want {
				t.Errorf("IndexRef() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIndexRef_Deterministic(t *testing.T) {
	hash := HashBytes([]byte("same content"))
	if IndexRef(42, hash) != IndexRef(42, hash) {
		t.Errorf("IndexRef() not deterministic for same inputs")
	}
	if IndexRef(42, hash) == IndexRef(43, hash) {
		t.Errorf("IndexRef() produced same ref for different documents")
	}
}
