package genetics

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoSavedGenome is returned by Latest when the directory holds no genome files.
var ErrNoSavedGenome = errors.New("no saved genome")

const genomeExt = ".txt"

// Store is a directory of genome files written from the running world.
type Store struct {
	Dir string
	now func() time.Time
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir, now: time.Now}
}

// Save writes g under a timestamped name and returns the path. Names sort in
// the order they were saved.
func (s *Store) Save(g *Genome) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("creating saves dir: %w", err)
	}
	base := "genome_" + s.now().Format("20060102_150405")
	path := filepath.Join(s.Dir, base+genomeExt)
	for i := 1; fileExists(path); i++ {
		path = filepath.Join(s.Dir, fmt.Sprintf("%s_%d%s", base, i, genomeExt))
	}
	if err := SaveFile(path, g); err != nil {
		return "", err
	}
	return path, nil
}

// Latest loads the most recently modified genome file in the directory.
func (s *Store) Latest() (*Genome, string, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", ErrNoSavedGenome
	}
	if err != nil {
		return nil, "", fmt.Errorf("reading saves dir: %w", err)
	}

	var newest string
	var newestTime time.Time
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), genomeExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		mod := info.ModTime()
		if newest == "" || mod.After(newestTime) || (mod.Equal(newestTime) && e.Name() > filepath.Base(newest)) {
			newest = filepath.Join(s.Dir, e.Name())
			newestTime = mod
		}
	}
	if newest == "" {
		return nil, "", ErrNoSavedGenome
	}

	g, err := LoadFile(newest)
	if err != nil {
		return nil, newest, err
	}
	return g, newest, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
