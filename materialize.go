// Copyright (c) 2023-2024, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package todogen

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileAction represents the type of change a file would undergo during materialization
type FileAction string

const (
	FileActionAdd    FileAction = "add"
	FileActionUpdate FileAction = "update"
	FileActionEqual  FileAction = "equal"
	// FileActionKeep is a placeholder that will not replace an existing file
	FileActionKeep FileAction = "keep"
)

// PlannedFile represents a file and the action that would be taken on it
type PlannedFile struct {
	Path   string
	Action FileAction
}

// Materializer writes file sets below a root directory
type Materializer struct {
	log          Logger
	changedFiles []string
}

// NewMaterializer creates a materializer, log may be nil
func NewMaterializer(log Logger) *Materializer {
	return &Materializer{log: log}
}

func containedInDir(path string, dir string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}

// target resolves the on disk location of a relative slash path and ensures it is below root
func target(root string, rel string) (string, error) {
	out := filepath.Join(root, filepath.FromSlash(rel))

	absOut, err := filepath.Abs(out)
	if err != nil {
		return "", err
	}

	if absOut == root || !containedInDir(absOut, root) {
		return "", fmt.Errorf("%s is not in target directory %s", rel, root)
	}

	return absOut, nil
}

// Materialize writes every file in files below root, in sorted path order, creating parent
// directories as needed. Existing files are truncated, placeholders never replace an existing
// file. The first failure stops the run and is returned as an *IOError, files written before
// it stay on disk.
func (m *Materializer) Materialize(root string, files FileSet) error {
	m.changedFiles = nil

	root, err := filepath.Abs(root)
	if err != nil {
		return &IOError{Path: root, Err: err}
	}

	for _, rel := range files.Paths() {
		f := files[rel]

		out, err := target(root, rel)
		if err != nil {
			return &IOError{Path: rel, Err: err}
		}

		if f.Placeholder {
			_, err := os.Lstat(out)
			switch {
			case err == nil:
				if m.log != nil {
					m.log.Debugf("Keeping existing %s", out)
				}
				continue

			case !errors.Is(err, fs.ErrNotExist):
				return &IOError{Path: out, Err: err}
			}
		}

		err = os.MkdirAll(filepath.Dir(out), 0755)
		if err != nil {
			return &IOError{Path: out, Err: err}
		}

		err = os.WriteFile(out, []byte(f.Content), 0644)
		if err != nil {
			return &IOError{Path: out, Err: err}
		}

		m.changedFiles = append(m.changedFiles, rel)

		if m.log != nil {
			m.log.Infof("Wrote %s", out)
		}
	}

	return nil
}

// ChangedFiles returns the files written during the most recent Materialize call. Paths are
// relative to the root and always use forward slashes as separators.
func (m *Materializer) ChangedFiles() []string {
	return m.changedFiles
}

func sha256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// Plan compares files against root without writing anything and reports the action
// Materialize would take for every path, sorted by path.
func (m *Materializer) Plan(root string, files FileSet) ([]PlannedFile, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var result []PlannedFile
	for _, rel := range files.Paths() {
		f := files[rel]

		out, err := target(root, rel)
		if err != nil {
			return nil, err
		}

		_, statErr := os.Stat(out)
		switch {
		case os.IsNotExist(statErr):
			result = append(result, PlannedFile{Path: rel, Action: FileActionAdd})

		case statErr != nil:
			return nil, statErr

		case f.Placeholder:
			result = append(result, PlannedFile{Path: rel, Action: FileActionKeep})

		default:
			realHash, err := sha256File(out)
			if err != nil {
				return nil, err
			}

			if realHash == fmt.Sprintf("%x", sha256.Sum256([]byte(f.Content))) {
				result = append(result, PlannedFile{Path: rel, Action: FileActionEqual})
			} else {
				result = append(result, PlannedFile{Path: rel, Action: FileActionUpdate})
			}
		}
	}

	return result, nil
}
