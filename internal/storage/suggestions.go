package storage

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// SuggestionLog is the append-only freeform log of user-submitted resource
// suggestions.
type SuggestionLog struct {
	mu   sync.Mutex
	path string
}

func NewSuggestionLog(path string) *SuggestionLog {
	return &SuggestionLog{path: path}
}

// Append records one suggestion with author and timestamp.
func (l *SuggestionLog) Append(author, text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := fmt.Sprintf("От: %s\nТекст: %s\nДата: %s\n---\n",
		author, text, time.Now().Format(time.RFC3339))

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open suggestions log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("append suggestion: %w", err)
	}
	return nil
}

// Tail returns the last maxBytes of the log, or an error when there are no
// suggestions yet.
func (l *SuggestionLog) Tail(maxBytes int) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if err != nil {
		return "", err
	}
	if len(data) > maxBytes {
		data = data[len(data)-maxBytes:]
	}
	return string(data), nil
}
