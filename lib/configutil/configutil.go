// Package configutil loads json5 configuration files. A file <name>.json5
// may sit next to an optional <name>.local.json5 whose values override it,
// which keeps machine-local data directories out of the committed config.
package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

func localName(path string) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s.local%s", strings.TrimSuffix(path, ext), ext)
}

// Read loads path and merges its .local sibling over it. It returns
// os.ErrNotExist when neither file is present.
func Read[T any](path string) (T, error) {
	var out T
	found := false

	base, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(base) > 0 {
		err = json5.Unmarshal(base, &out)
		if err != nil {
			return out, fmt.Errorf("parse %s: %w", path, err)
		}
		found = true
	}

	localPath := localName(path)
	local, err := os.ReadFile(localPath)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(local) > 0 {
		var override T
		err = json5.Unmarshal(local, &override)
		if err != nil {
			return out, fmt.Errorf("parse %s: %w", localPath, err)
		}
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return out, err
		}
		slog.Info("merged local config overrides", "local", localPath)
		found = true
	}

	if !found {
		return out, os.ErrNotExist
	}
	return out, nil
}

// FindAndRead walks from the working directory toward the filesystem root
// until it finds a config file matching name, then reads it with Read.
func FindAndRead[T any](name string) (T, error) {
	var zero T

	current, err := os.Getwd()
	if err != nil {
		return zero, err
	}

	for {
		out, err := Read[T](filepath.Join(current, name))
		if err == nil {
			return out, nil
		}
		if !os.IsNotExist(err) {
			return zero, err
		}

		parent := filepath.Dir(current)
		if parent == current {
			return zero, os.ErrNotExist
		}
		current = parent
	}
}
