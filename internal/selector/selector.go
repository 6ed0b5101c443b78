// Package selector picks source files at random from a folder.
package selector

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// NotFoundError reports a folder without any entry of the requested extension
type NotFoundError struct {
	Dir string
	Ext string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s files found in folder: %s", e.Ext, e.Dir)
}

// Selector chooses files uniformly at random
type Selector struct {
	rng *rand.Rand
}

// New creates a selector seeded with seed, so equal seeds pick equal files
func New(seed uint64) *Selector {
	return &Selector{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// NewRandom creates a selector with a random seed
func NewRandom() *Selector {
	return New(rand.Uint64())
}

// Candidates lists the entries of dir whose name ends with ext (case-sensitive)
func Candidates(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	return lo.FilterMap(entries, func(entry os.DirEntry, _ int) (string, bool) {
		return entry.Name(), strings.HasSuffix(entry.Name(), ext)
	}), nil
}

// RandomFile returns dir joined with one matching entry chosen at random
func (s *Selector) RandomFile(dir, ext string) (string, error) {
	names, err := Candidates(dir, ext)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", &NotFoundError{Dir: dir, Ext: ext}
	}

	return filepath.Join(dir, names[s.rng.IntN(len(names))]), nil
}
