package storage

import (
	"errors"
	"path/filepath"
	"testing"
)

func exerciseLocal(t *testing.T, s Local) {
	t.Helper()

	if _, ok, err := s.GetItem("mini-website-position"); ok || err != nil {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := s.SetItem("mini-website-position", `{"x":10,"y":20}`); err != nil {
		t.Fatalf("SetItem: %v", err)
	}
	if err := s.SetItem("mini-website-position", `{"x":30,"y":40}`); err != nil {
		t.Fatalf("SetItem overwrite: %v", err)
	}
	v, ok, err := s.GetItem("mini-website-position")
	if err != nil || !ok {
		t.Fatalf("GetItem: ok=%v err=%v", ok, err)
	}
	if v != `{"x":30,"y":40}` {
		t.Errorf("value = %q", v)
	}
	if err := s.RemoveItem("mini-website-position"); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if err := s.RemoveItem("never-set"); err != nil {
		t.Fatalf("RemoveItem missing: %v", err)
	}
	if _, ok, _ := s.GetItem("mini-website-position"); ok {
		t.Error("expected key removed")
	}
}

func TestMemory(t *testing.T) {
	exerciseLocal(t, NewMemory())
}

func TestSQLite(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "local.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer s.Close()
	exerciseLocal(t, s)
}

func TestSQLite_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := s.SetItem("k", "v"); err != nil {
		t.Fatalf("SetItem: %v", err)
	}
	_ = s.Close()

	again, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer again.Close()
	v, ok, err := again.GetItem("k")
	if err != nil || !ok || v != "v" {
		t.Errorf("GetItem after reopen = %q, %v, %v", v, ok, err)
	}
}

func TestSQLite_Closed(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	_ = s.Close()
	if err := s.SetItem("k", "v"); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestInterfaces(t *testing.T) {
	var _ Local = (*Memory)(nil)
	var _ Local = (*SQLite)(nil)
}
