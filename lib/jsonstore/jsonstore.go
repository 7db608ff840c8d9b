// Package jsonstore reads and writes the one-record-per-file JSON documents
// every entity persists to. Save always overwrites the whole document; there
// is no merging and no version field. Compatibility with older documents is
// carried by the record types themselves: a field added to a record must
// tolerate being absent on load, which in Go falls out of zero values.
package jsonstore

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Save marshals record and atomically replaces the document at path.
func Save(path string, record any) error {
	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".store-*")
	if err != nil {
		return err
	}
	_, err = tmp.Write(data)
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	err = tmp.Close()
	if err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Load reads the document at path into a fresh T.
func Load[T any](path string) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	record := new(T)
	err = json.Unmarshal(data, record)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// List enumerates the persisted documents under dir in filesystem order.
// The order is not guaranteed stable across platforms and nothing above
// this layer is allowed to depend on it.
func List(dir string) ([]string, error) {
	return filepath.Glob(filepath.Join(dir, "*.json"))
}
