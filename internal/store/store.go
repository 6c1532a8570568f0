// Package store persists repository collections as one JSON file per
// repository.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hal/contrib/internal/log"
	"github.com/hal/contrib/internal/model"
)

// Store writes collections into a directory, one file per repository,
// named owner-name.json.
type Store struct {
	dir string
}

// New creates the output directory if needed and returns a store for it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Path returns the collection file path for a repository identifier.
func (s *Store) Path(repo string) string {
	return filepath.Join(s.dir, strings.ReplaceAll(repo, "/", "-")+".json")
}

// Save writes a collection atomically: the data lands in a temp file
// first and is renamed into place, so an interrupted run never leaves a
// partially-written collection and earlier output stays intact. An
// existing file for the repository is replaced wholesale.
func (s *Store) Save(coll *model.RepositoryCollection) error {
	data, err := json.MarshalIndent(coll, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode collection for %s: %w", coll.Repository, err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.dir, ".collection-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	path := s.Path(coll.Repository)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}

	log.Debug("saved collection", "repo", coll.Repository, "path", path, "contributions", coll.Len())
	return nil
}

// Load reads a single collection file. Unknown fields are tolerated for
// forward compatibility.
func Load(path string) (*model.RepositoryCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var coll model.RepositoryCollection
	if err := json.Unmarshal(data, &coll); err != nil {
		return nil, fmt.Errorf("failed to parse collection %s: %w", path, err)
	}
	return &coll, nil
}

// LoadAll loads every collection under path. A file loads alone; a
// directory loads all its .json files ordered by filename so downstream
// aggregation is reproducible.
func LoadAll(path string) ([]*model.RepositoryCollection, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		coll, err := Load(path)
		if err != nil {
			return nil, err
		}
		return []*model.RepositoryCollection{coll}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	colls := make([]*model.RepositoryCollection, 0, len(names))
	for _, name := range names {
		coll, err := Load(filepath.Join(path, name))
		if err != nil {
			return nil, err
		}
		colls = append(colls, coll)
	}
	return colls, nil
}
