package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsImageFile(t *testing.T) {
	for _, name := range []string{"a.jpg", "B.JPEG", "c.png", "d.webp", "e.bmp"} {
		if !IsImageFile(name) {
			t.Errorf("%s should be an image file", name)
		}
	}
	for _, name := range []string{"notes.txt", "archive", "model.h5"} {
		if IsImageFile(name) {
			t.Errorf("%s should not be an image file", name)
		}
	}
}

func TestReadImageFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mole.png")
	if err := os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n0000"), 0644); err != nil {
		t.Fatal(err)
	}

	file, err := ReadImageFile(path)
	if err != nil {
		t.Fatalf("ReadImageFile failed: %v", err)
	}
	if file.Name != "mole.png" {
		t.Errorf("Expected name mole.png, got %s", file.Name)
	}
	if file.ContentType != "image/png" {
		t.Errorf("Expected image/png, got %s", file.ContentType)
	}
	if file.Size() != 12 {
		t.Errorf("Expected 12 bytes, got %d", file.Size())
	}
}

func TestReadImageFileSniffsWithoutExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upload")
	if err := os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n0000"), 0644); err != nil {
		t.Fatal(err)
	}

	file, err := ReadImageFile(path)
	if err != nil {
		t.Fatalf("ReadImageFile failed: %v", err)
	}
	if file.ContentType != "image/png" {
		t.Errorf("Expected sniffed image/png, got %s", file.ContentType)
	}
}

func TestReadImageFileMissing(t *testing.T) {
	if _, err := ReadImageFile(filepath.Join(t.TempDir(), "missing.jpg")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	if FileExists(dir) {
		t.Error("Directory should not count as a file")
	}
	path := filepath.Join(dir, "x.jpg")
	os.WriteFile(path, nil, 0644)
	if !FileExists(path) {
		t.Error("Expected file to exist")
	}
}

func TestSanitizeFilename(t *testing.T) {
	if got := SanitizeFilename(" ../evil:name?.jpg "); got != "_evil_name_.jpg" {
		t.Errorf("Unexpected sanitized name %q", got)
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := map[int64]string{
		512:      "512 B",
		2048:     "2.0 KB",
		16 << 20: "16.0 MB",
	}
	for in, want := range tests {
		if got := FormatFileSize(in); got != want {
			t.Errorf("FormatFileSize(%d) = %s, want %s", in, got, want)
		}
	}
}
