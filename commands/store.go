package commands

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/josephlewis42/seashell/core/vos"
	"github.com/spf13/afero"
)

// flatStore is a line oriented key/value file. Each line starts with a key
// followed by sep and the value.
type flatStore struct {
	fs   vos.VFS
	path string
	sep  string
}

type flatRecord struct {
	Key   string
	Value string
}

func (r flatRecord) line(sep string) string {
	return r.Key + sep + r.Value
}

// openStore opens the named store in the configuration directory of the
// process.
func openStore(virtOS vos.VOS, name, sep string) *flatStore {
	return &flatStore{
		fs:   virtOS,
		path: virtOS.Config().DataPath(name),
		sep:  sep,
	}
}

// Records reads every record in file order. A missing file has no records.
func (s *flatStore) Records() ([]flatRecord, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, nil
	case err != nil:
		return nil, err
	}

	var out []flatRecord
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		split := strings.SplitN(line, s.sep, 2)
		rec := flatRecord{Key: split[0]}
		if len(split) > 1 {
			rec.Value = split[1]
		}
		out = append(out, rec)
	}
	return out, scanner.Err()
}

// Get returns the value of the last record with the key.
func (s *flatStore) Get(key string) (string, bool, error) {
	records, err := s.Records()
	if err != nil {
		return "", false, err
	}

	value, found := "", false
	for _, rec := range records {
		if rec.Key == key {
			value, found = rec.Value, true
		}
	}
	return value, found, nil
}

// Set replaces any existing record with the key and appends the new one.
func (s *flatStore) Set(key, value string) error {
	records, err := s.Records()
	if err != nil {
		return err
	}
	records = withoutKey(records, key)
	return s.write(append(records, flatRecord{Key: key, Value: value}))
}

// Delete removes every record with the key.
func (s *flatStore) Delete(key string) error {
	records, err := s.Records()
	if err != nil {
		return err
	}
	return s.write(withoutKey(records, key))
}

// Clear removes every record.
func (s *flatStore) Clear() error {
	return s.write(nil)
}

// write replaces the store through a temporary file so readers never observe
// a partially written store.
func (s *flatStore) write(records []flatRecord) error {
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}

	var buf bytes.Buffer
	for _, rec := range records {
		fmt.Fprintln(&buf, rec.line(s.sep))
	}

	tmp := filepath.Join(filepath.Dir(s.path), "temp"+filepath.Base(s.path))
	if err := afero.WriteFile(s.fs, tmp, buf.Bytes(), 0600); err != nil {
		return err
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}

func withoutKey(records []flatRecord, key string) []flatRecord {
	var out []flatRecord
	for _, rec := range records {
		if rec.Key != key {
			out = append(out, rec)
		}
	}
	return out
}
