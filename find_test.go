package littlefs

import (
	"errors"
	"testing"
)

func TestGetMissingFileReturnsErrNotFound(t *testing.T) {
	h := newTestFS(t)
	if _, err := h.Get("/nope.txt"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetDirectoryAsFileReturnsErrValueExpected(t *testing.T) {
	h := newTestFS(t)
	if err := h.Mkdir("/d"); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if _, err := h.Get("/d"); !errors.Is(err, ErrValueExpected) {
		t.Fatalf("expected ErrValueExpected, got %v", err)
	}
}

func TestSetThroughFileReturnsErrDictionaryExpected(t *testing.T) {
	h := newTestFS(t)
	if err := h.Set("/f", []byte("x")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := h.Set("/f/child", []byte("x")); !errors.Is(err, ErrDictionaryExpected) {
		t.Fatalf("expected ErrDictionaryExpected, got %v", err)
	}
}
