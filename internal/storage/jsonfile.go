// Package storage persists bot state in flat JSON files.
//
// Every store here follows the same lifecycle: load once at startup
// (a missing or malformed file means "empty", never an error the caller
// has to handle), flush after every mutation.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Ivan1990Nik/telegram-it-bot/internal/logger"
)

// loadJSON reads path into v. Missing, empty or malformed files leave v
// untouched and only produce a warn log.
func loadJSON(path string, v any) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("⚠️ не удалось прочитать файл состояния", "path", path, "err", err)
		}
		return
	}
	if len(data) == 0 {
		return
	}
	if err := json.Unmarshal(data, v); err != nil {
		logger.Warn("⚠️ файл состояния повреждён, начинаем с пустого", "path", path, "err", err)
	}
}

// saveJSONAtomic writes v as indented JSON via a temp file + rename, so a
// crash mid-write leaves either the old or the new content on disk.
func saveJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp for %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
