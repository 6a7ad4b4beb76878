// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tfctl/rpgdex/internal/log"
)

const (
	// EnvDir overrides the cache base directory.
	EnvDir = "RPGDEX_CACHE_DIR"
	// EnvEnabled disables caching when set to "0" or "false".
	EnvEnabled = "RPGDEX_CACHE"
)

// Entry is a cached dataset body on disk. Key is the clear-text key and
// EncodedKey the hashed file name.
type Entry struct {
	Key        string
	EncodedKey string
	Path       string
	Data       []byte
}

// Key joins clear-text key parts, e.g. bucket, object key and ETag.
func Key(parts ...string) string {
	return strings.Join(parts, "/")
}

// Dir resolves the base cache directory.
// Precedence:
//  1. RPGDEX_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/rpgdex
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv(EnvDir); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "rpgdex"), true
	}
	return "", false
}

// Enabled returns true unless RPGDEX_CACHE is "0" or "false".
func Enabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(EnvEnabled)))
	return v != "0" && v != "false"
}

// EnsureBaseDir creates the base cache directory if caching is enabled and a
// base path can be resolved. It returns the path, whether it is usable and
// any creation error.
func EnsureBaseDir() (string, bool, error) {
	if !Enabled() {
		return "", false, nil
	}

	base, ok := Dir()
	if !ok {
		return "", false, nil
	}

	if err := os.MkdirAll(base, 0o755); err != nil { //nolint:mnd
		return base, false, fmt.Errorf("failed to create cache base directory: %w", err)
	}
	return base, true, nil
}

// EntryPath returns where the entry for clearKey beneath subdirs lives, and
// whether a file currently exists there.
func EntryPath(subdirs []string, clearKey string) (string, bool) {
	base, ok := Dir()
	if !ok {
		return "", false
	}
	p := filepath.Join(append([]string{base}, append(subdirs, encodeKey(clearKey))...)...)
	if info, err := os.Stat(p); err == nil && !info.IsDir() {
		return p, true
	}
	return p, false
}

// Purge removes entries older than hours. hours <= 0 disables purging.
func Purge(hours int) error {
	if hours <= 0 {
		log.Debug("cache purge disabled")
		return nil
	}

	base, ok := Dir()
	if !ok {
		return nil
	}

	maxAge := time.Duration(hours) * time.Hour
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			// Removed between listing and stat.
			return nil
		}
		if time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(path); err != nil {
				log.WithError(err).Warnf("failed to remove cache file %s", path)
			} else {
				log.Debugf("removed cache file %s", path)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}

// Read returns the cached entry for clearKey. Data is returned byte for byte;
// cached bodies may be binary SQLite files.
func Read(subdirs []string, clearKey string) (*Entry, bool) {
	if !Enabled() {
		return nil, false
	}
	p, ok := EntryPath(subdirs, clearKey)
	if !ok {
		return nil, false
	}
	b, err := os.ReadFile(p)
	if err != nil {
		log.WithError(err).Warnf("unreadable cache file %s", p)
		return nil, false
	}
	log.Debugf("cache hit: key=%s", clearKey)
	return &Entry{
		Key:        clearKey,
		EncodedKey: encodeKey(clearKey),
		Path:       p,
		Data:       b,
	}, true
}

// Write stores data for clearKey beneath subdirs and returns the file path.
// With caching disabled it does nothing and returns "".
func Write(subdirs []string, clearKey string, data []byte) (string, error) {
	if !Enabled() {
		return "", nil
	}
	base, ok := Dir()
	if !ok {
		return "", nil
	}

	dir := filepath.Join(append([]string{base}, subdirs...)...)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	// Write then rename so a concurrent reader never sees a partial body.
	p := filepath.Join(dir, encodeKey(clearKey))
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to write to cache: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write to cache: %w", err)
	}

	log.Debugf("cache write: key=%s, bytes=%d", clearKey, len(data))
	return p, nil
}

// encodeKey returns the hex sha256 of input.
func encodeKey(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
