package scanner

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCleanOldEvidence(t *testing.T) {
	root := t.TempDir()
	now := time.Now()

	oldDir := filepath.Join(root, "guild_1", "user_1", "before")
	newDir := filepath.Join(root, "guild_1", "user_2", "after")
	for _, d := range []string{oldDir, newDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	oldFile := filepath.Join(oldDir, "step_1.png")
	newFile := filepath.Join(newDir, "step_1.png")
	for _, f := range []string{oldFile, newFile} {
		if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	old := now.Add(-40 * 24 * time.Hour)
	if err := os.Chtimes(oldFile, old, old); err != nil {
		t.Fatal(err)
	}

	deleted, err := CleanOldEvidence(root, 30, now)
	if err != nil {
		t.Fatalf("CleanOldEvidence: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}
	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Errorf("old file still present")
	}
	if _, err := os.Stat(newFile); err != nil {
		t.Errorf("new file removed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "guild_1", "user_1")); !os.IsNotExist(err) {
		t.Errorf("empty user directory not pruned")
	}
}

func TestCleanOldEvidenceDisabled(t *testing.T) {
	deleted, err := CleanOldEvidence("/does/not/exist", 0, time.Now())
	if err != nil || deleted != 0 {
		t.Fatalf("got %d, %v", deleted, err)
	}
}
