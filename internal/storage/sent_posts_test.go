package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Ivan1990Nik/telegram-it-bot/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init(false)
	os.Exit(m.Run())
}

func TestSentPostStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sent_posts.json")

	s := NewSentPostStore(path, 100)
	for _, id := range []string{"u1", "u2", "u3"} {
		if err := s.SaveSentPost(id); err != nil {
			t.Fatalf("SaveSentPost(%s): %v", id, err)
		}
	}

	reloaded := NewSentPostStore(path, 100)
	for _, id := range []string{"u1", "u2", "u3"} {
		if !reloaded.IsSent(id) {
			t.Errorf("reloaded store lost %s", id)
		}
	}
	if reloaded.IsSent("u4") {
		t.Error("u4 was never saved")
	}
	if reloaded.Len() != 3 {
		t.Errorf("Len = %d, want 3", reloaded.Len())
	}
}

func TestSentPostStore_SaveIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sent_posts.json")
	s := NewSentPostStore(path, 100)

	if err := s.SaveSentPost("u1"); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveSentPost("u1"); err != nil {
		t.Fatal(err)
	}

	if s.Len() != 1 {
		t.Errorf("Len = %d after double save, want 1", s.Len())
	}
	if !s.IsSent("u1") {
		t.Error("membership lost after double save")
	}
}

func TestSentPostStore_MissingFileMeansEmpty(t *testing.T) {
	s := NewSentPostStore(filepath.Join(t.TempDir(), "absent.json"), 100)
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestSentPostStore_MalformedFileMeansEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sent_posts.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewSentPostStore(path, 100)
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0 for malformed file", s.Len())
	}
	// The store must still be writable afterwards.
	if err := s.SaveSentPost("u1"); err != nil {
		t.Fatalf("SaveSentPost after malformed load: %v", err)
	}
}

func TestSentPostStore_RetentionEvictsOldest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sent_posts.json")
	s := NewSentPostStore(path, 5)

	for i := 0; i < 8; i++ {
		if err := s.SaveSentPost(fmt.Sprintf("u%d", i)); err != nil {
			t.Fatal(err)
		}
	}

	if s.Len() != 5 {
		t.Fatalf("Len = %d, want 5", s.Len())
	}
	if s.IsSent("u0") || s.IsSent("u2") {
		t.Error("oldest ids must be evicted")
	}
	if !s.IsSent("u7") {
		t.Error("newest id must remain a member")
	}

	// File holds only the retained window.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var saved []string
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("file is not a JSON string array: %v", err)
	}
	if len(saved) != 5 {
		t.Errorf("file holds %d ids, want 5", len(saved))
	}
}
