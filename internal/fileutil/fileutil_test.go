package fileutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFileVerifiedRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	dst := filepath.Join(dir, "dst.jpg")
	payload := bytes.Repeat([]byte{0xCA, 0xFE}, 4096)
	if err := os.WriteFile(src, payload, 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	if err := CopyFileVerified(src, dst); err != nil {
		t.Fatalf("CopyFileVerified: %v", err)
	}

	copied, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read copy: %v", err)
	}
	if !bytes.Equal(copied, payload) {
		t.Fatal("copied bytes differ from source")
	}
	// Source must still exist; archiving copies, never moves.
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source missing after copy: %v", err)
	}
}

func TestCopyFileCreatesParentDirectories(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "nested", "deeper", "dst.bin")
	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("stat destination: %v", err)
	}
}

func TestMoveFileRenames(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.jpg")
	dst := filepath.Join(dir, "out", "001.jpg")
	if err := os.WriteFile(src, []byte("photo"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	if err := MoveFile(src, dst); err != nil {
		t.Fatalf("MoveFile: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("source should be gone, err=%v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(data) != "photo" {
		t.Fatalf("destination content = %q", data)
	}
}

func TestCopyFileVerifiedMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := CopyFileVerified(filepath.Join(dir, "absent"), filepath.Join(dir, "dst")); err == nil {
		t.Fatal("expected error for missing source")
	}
}
