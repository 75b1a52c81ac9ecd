package localfile

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/trac-dap/flowcore/errs"
)

// Entry describes one path returned by List.
type Entry struct {
	Path  string
	IsDir bool
	Size  int64
}

// Store is a byte-stream source/sink against a rooted local directory
// tree.
type Store struct {
	root     string
	readOnly bool
}

// New validates root and returns a Store rooted there. root must exist,
// be a directory, and be readable; if readOnly is false it must also be
// writable.
func New(root string, readOnly bool) (*Store, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errs.NewStartupConfigError("localfile", "storage root does not exist: "+root, err)
	}
	if !info.IsDir() {
		return nil, errs.NewStartupConfigError("localfile", "storage root is not a directory: "+root, nil)
	}
	probe, err := os.Open(root)
	if err != nil {
		return nil, errs.NewStartupConfigError("localfile", "storage root is not readable: "+root, err)
	}
	probe.Close()
	if !readOnly {
		tmp, err := os.CreateTemp(root, ".flowcore-write-probe-*")
		if err != nil {
			return nil, errs.NewStartupConfigError("localfile", "storage root is not writable: "+root, err)
		}
		name := tmp.Name()
		tmp.Close()
		os.Remove(name)
	}
	return &Store{root: root, readOnly: readOnly}, nil
}

func (s *Store) resolve(path string) string {
	return filepath.Join(s.root, filepath.Clean("/"+path))
}

func (s *Store) requireWritable(op string) error {
	if s.readOnly {
		return errs.NewInternalError(op, "storage is read-only", nil)
	}
	return nil
}

// Exists reports whether path names a file or directory under root.
func (s *Store) Exists(path string) bool {
	_, err := os.Stat(s.resolve(path))
	return err == nil
}

// DirExists reports whether path names a directory under root.
func (s *Store) DirExists(path string) bool {
	info, err := os.Stat(s.resolve(path))
	return err == nil && info.IsDir()
}

// Stat returns the Entry for path.
func (s *Store) Stat(path string) (Entry, error) {
	info, err := os.Stat(s.resolve(path))
	if err != nil {
		return Entry{}, errs.NewResourceNotFoundError("storage object", path, err)
	}
	return Entry{Path: path, IsDir: info.IsDir(), Size: info.Size()}, nil
}

// List returns entries under path, optionally recursing, starting after
// startAfter (lexical, exclusive) and capped at maxKeys (0 means
// unbounded).
func (s *Store) List(path string, recursive bool, startAfter string, maxKeys int) ([]Entry, error) {
	base := s.resolve(path)
	var entries []Entry
	walk := func(dir, relPrefix string) error {
		children, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, c := range children {
			rel := filepath.Join(relPrefix, c.Name())
			info, err := c.Info()
			if err != nil {
				return err
			}
			entries = append(entries, Entry{Path: rel, IsDir: c.IsDir(), Size: info.Size()})
		}
		return nil
	}
	var recurse func(dir, relPrefix string) error
	recurse = func(dir, relPrefix string) error {
		if err := walk(dir, relPrefix); err != nil {
			return err
		}
		if !recursive {
			return nil
		}
		children, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, c := range children {
			if c.IsDir() {
				if err := recurse(filepath.Join(dir, c.Name()), filepath.Join(relPrefix, c.Name())); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := recurse(base, ""); err != nil {
		return nil, errs.NewResourceNotFoundError("storage directory", path, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	if startAfter != "" {
		filtered := entries[:0]
		for _, e := range entries {
			if e.Path > startAfter {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	if maxKeys > 0 && len(entries) > maxKeys {
		entries = entries[:maxKeys]
	}
	return entries, nil
}

// Mkdir creates path, optionally creating parent directories.
func (s *Store) Mkdir(path string, recursive bool) error {
	if err := s.requireWritable("mkdir"); err != nil {
		return err
	}
	target := s.resolve(path)
	var err error
	if recursive {
		err = os.MkdirAll(target, 0o755)
	} else {
		err = os.Mkdir(target, 0o755)
	}
	if err != nil {
		return errs.NewInternalError("mkdir", "could not create directory "+path, err)
	}
	return nil
}

// DeleteFile removes the file at path.
func (s *Store) DeleteFile(path string) error {
	if err := s.requireWritable("deleteFile"); err != nil {
		return err
	}
	if err := os.Remove(s.resolve(path)); err != nil {
		return errs.NewResourceNotFoundError("storage object", path, err)
	}
	return nil
}

// DeleteDir removes the directory tree at path, deepest entries first.
func (s *Store) DeleteDir(path string) error {
	if err := s.requireWritable("deleteDir"); err != nil {
		return err
	}
	target := s.resolve(path)
	if err := deletePostOrder(target); err != nil {
		return errs.NewResourceNotFoundError("storage directory", path, err)
	}
	return nil
}

func deletePostOrder(dir string) error {
	children, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, c := range children {
		child := filepath.Join(dir, c.Name())
		if c.IsDir() {
			if err := deletePostOrder(child); err != nil {
				return err
			}
		} else if err := os.Remove(child); err != nil {
			return err
		}
	}
	return os.Remove(dir)
}
