package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestWalkFiles(t *testing.T) {
	// Arrange
	tempDir := t.TempDir()
	for _, name := range []string{"b.jpg", "a.png", "notes.txt", "c_processed.png", "d.webp"} {
		if err := os.WriteFile(filepath.Join(tempDir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("creating fixture %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(tempDir, "sub.png"), 0755); err != nil {
		t.Fatalf("creating fixture dir: %v", err)
	}

	files := make(chan string, 10)
	errChan := make(chan error, 10)

	// Act
	walkFiles(context.Background(), tempDir, files, errChan)
	close(files)
	close(errChan)

	// Assert
	var got []string
	for f := range files {
		got = append(got, filepath.Base(f))
	}
	want := []string{"a.png", "b.jpg", "d.webp"}
	if len(got) != len(want) {
		t.Fatalf("expected files %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %s at position %d, got %s", want[i], i, got[i])
		}
	}
	for err := range errChan {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestWalkFiles_MissingDirectory(t *testing.T) {
	files := make(chan string, 1)
	errChan := make(chan error, 1)

	walkFiles(context.Background(), filepath.Join(t.TempDir(), "nope"), files, errChan)
	close(files)
	close(errChan)

	if err := <-errChan; err == nil {
		t.Errorf("expected error for missing directory, got none")
	}
	if f, ok := <-files; ok {
		t.Errorf("expected no files, got %s", f)
	}
}

func TestIsImageFile(t *testing.T) {
	testCases := []struct {
		name string
		want bool
	}{
		{"chat.png", true},
		{"chat.JPG", true},
		{"chat.jpeg", true},
		{"chat.webp", true},
		{"chat.bmp", true},
		{"chat.tiff", true},
		{"chat.gif", false},
		{"chat.pdf", false},
		{"chat", false},
	}

	for _, tc := range testCases {
		if got := isImageFile(tc.name); got != tc.want {
			t.Errorf("isImageFile(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}
