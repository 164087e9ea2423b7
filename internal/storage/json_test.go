package storage

import (
	"path/filepath"
	"testing"
	"time"

	"rectest/internal/domain"

	"github.com/google/go-cmp/cmp"
)

func TestJSONStorage_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	store := NewJSONStorage(filepath.Join(dir, ".rectest", "results.json"))

	outcomes := []domain.Outcome{
		{Case: domain.TestCase{Path: "tests/a.in"}, Status: domain.StatusPass, Command: "prog tests/a.in", Duration: 12 * time.Millisecond},
		{
			Case:     domain.TestCase{Path: "tests/b.in"},
			Status:   domain.StatusFail,
			Reason:   "output mismatch",
			Command:  "prog tests/b.in",
			Expected: []byte("want\n"),
			Actual:   []byte("got\n"),
		},
		{Case: domain.TestCase{Path: "tests/c.in"}, Status: domain.StatusSkip, Reason: "record missing: tests/c.rec"},
	}
	sum := domain.RunSummary{Pass: 1, Fail: 1, Skip: 1, Total: 3, Elapsed: 100 * time.Millisecond}

	saved := BuildRunRecord("verify", "prog @", []string{"tests"}, outcomes, sum, 2)
	if saved.Meta.ID == "" {
		t.Fatal("expected a run id")
	}
	if err := store.Save(saved); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(saved, loaded); diff != "" {
		t.Errorf("round trip mismatch (-saved +loaded):\n%s", diff)
	}

	if loaded.Meta.Failed != 1 || loaded.Meta.Total != 3 {
		t.Errorf("unexpected meta: %+v", loaded.Meta)
	}
	if loaded.Cases[1].Expected != "want\n" || loaded.Cases[1].Actual != "got\n" {
		t.Errorf("failure detail lost: %+v", loaded.Cases[1])
	}
	if loaded.Cases[0].Expected != "" {
		t.Error("passing cases must not drag output along")
	}

	paths := loaded.FailedPaths()
	if len(paths) != 1 || paths[0] != "tests/b.in" {
		t.Errorf("expected failed paths [tests/b.in], got %v", paths)
	}
}

func TestJSONStorage_LoadMissing(t *testing.T) {
	store := NewJSONStorage(filepath.Join(t.TempDir(), "absent.json"))
	if _, err := store.Load(); err == nil {
		t.Error("expected error for missing results file")
	}
}

func TestJSONStorage_SaveReplaces(t *testing.T) {
	store := NewJSONStorage(filepath.Join(t.TempDir(), "results.json"))

	first := BuildRunRecord("verify", "prog @", []string{"a"}, nil, domain.RunSummary{}, 1)
	second := BuildRunRecord("update", "prog @", []string{"b"}, nil, domain.RunSummary{}, 1)

	if err := store.Save(first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Save(second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Meta.ID != second.Meta.ID || loaded.Meta.Mode != "update" {
		t.Errorf("expected the second run, got %+v", loaded.Meta)
	}
}
