package selector

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestRandomFileReturnsListedMember(t *testing.T) {
	dir := t.TempDir()
	names := []string{"a.mp4", "b.mp4", "c.mp4", "d.mp4"}
	touch(t, dir, names...)

	s := New(42)
	for i := 0; i < 50; i++ {
		path, err := s.RandomFile(dir, ".mp4")
		if err != nil {
			t.Fatalf("RandomFile failed: %v", err)
		}
		if filepath.Dir(path) != dir {
			t.Errorf("expected path inside %s, got %s", dir, path)
		}
		if !slices.Contains(names, filepath.Base(path)) {
			t.Errorf("unexpected selection %s", path)
		}
	}
}

func TestRandomFileCoversAllCandidates(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.mp4", "b.mp4", "c.mp4")

	s := New(7)
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		path, err := s.RandomFile(dir, ".mp4")
		if err != nil {
			t.Fatal(err)
		}
		seen[filepath.Base(path)] = true
	}

	if len(seen) != 3 {
		t.Errorf("expected every candidate to be picked eventually, saw %v", seen)
	}
}

func TestRandomFileSingleCandidate(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "only.mp3", "cover.jpg", "notes.txt")

	path, err := NewRandom().RandomFile(dir, ".mp3")
	if err != nil {
		t.Fatalf("RandomFile failed: %v", err)
	}
	if path != filepath.Join(dir, "only.mp3") {
		t.Errorf("expected only.mp3, got %s", path)
	}
}

func TestRandomFileSameSeedSameChoice(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.mp4", "b.mp4", "c.mp4", "d.mp4", "e.mp4")

	a, b := New(99), New(99)
	for i := 0; i < 10; i++ {
		pa, err := a.RandomFile(dir, ".mp4")
		if err != nil {
			t.Fatal(err)
		}
		pb, err := b.RandomFile(dir, ".mp4")
		if err != nil {
			t.Fatal(err)
		}
		if pa != pb {
			t.Fatalf("round %d: %s != %s", i, pa, pb)
		}
	}
}

func TestRandomFileNoMatches(t *testing.T) {
	tests := map[string][]string{
		"empty dir":       nil,
		"other types":     {"song.mp3", "clip.mov"},
		"case mismatch":   {"CLIP.MP4"},
		"extension infix": {"clip.mp4.part"},
	}

	for name, files := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			touch(t, dir, files...)

			_, err := New(1).RandomFile(dir, ".mp4")

			var nf *NotFoundError
			if !errors.As(err, &nf) {
				t.Fatalf("expected NotFoundError, got %v", err)
			}
			if nf.Dir != dir || nf.Ext != ".mp4" {
				t.Errorf("unexpected error fields: %+v", nf)
			}
			if nf.Error() != "no .mp4 files found in folder: "+dir {
				t.Errorf("unexpected message: %s", nf.Error())
			}
		})
	}
}

func TestRandomFileMissingDir(t *testing.T) {
	_, err := New(1).RandomFile(filepath.Join(t.TempDir(), "missing"), ".mp4")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}

	var nf *NotFoundError
	if errors.As(err, &nf) {
		t.Error("missing directory must not be reported as NotFoundError")
	}
}

func TestCandidates(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.mp4", "a.mp4", "x.mp3")

	names, err := Candidates(dir, ".mp4")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(names, []string{"a.mp4", "b.mp4"}) {
		t.Errorf("unexpected candidates: %v", names)
	}
}
