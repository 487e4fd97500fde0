package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/yndnr/microbench/internal/core/domain"
)

// FileBackend stores each slot as a file under <root>/<label>/<slot>.
type FileBackend struct {
	root string
}

var _ Backend = (*FileBackend)(nil)

// NewFileBackend returns a backend rooted at root. The directory is created
// lazily on the first write.
func NewFileBackend(root string) (*FileBackend, error) {
	if root == "" {
		return nil, fmt.Errorf("storage: root dir is required")
	}
	return &FileBackend{root: root}, nil
}

// Root returns the root directory.
func (b *FileBackend) Root() string {
	return b.root
}

// Path returns the file of a slot.
func (b *FileBackend) Path(label string, slot Slot) string {
	return filepath.Join(b.root, label, string(slot))
}

// Read returns the contents of a slot.
func (b *FileBackend) Read(_ context.Context, label string, slot Slot) ([]byte, error) {
	if err := domain.ValidateLabel(label); err != nil {
		return nil, err
	}
	path := b.Path(label, slot)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("storage: read %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return data, nil
}

// Write replaces a slot through a temporary file in the same directory, so a
// reader never observes a partially written slot.
func (b *FileBackend) Write(_ context.Context, label string, slot Slot, data []byte) error {
	if err := domain.ValidateLabel(label); err != nil {
		return err
	}
	dir := filepath.Join(b.root, label)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+string(slot)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("storage: create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("storage: write %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("storage: sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("storage: close %s: %w", tmpPath, err)
	}

	path := b.Path(label, slot)
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("storage: rename %s: %w", path, err)
	}
	return nil
}

// Move renames slot from to slot to.
func (b *FileBackend) Move(_ context.Context, label string, from, to Slot) error {
	if err := domain.ValidateLabel(label); err != nil {
		return err
	}
	src, dst := b.Path(label, from), b.Path(label, to)
	if err := os.Rename(src, dst); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if _, statErr := os.Stat(src); errors.Is(statErr, fs.ErrNotExist) {
				return fmt.Errorf("storage: move %s: %w", src, ErrNotFound)
			}
		}
		return fmt.Errorf("storage: move %s to %s: %w", src, dst, err)
	}
	return nil
}

// Labels lists the label directories that hold at least one slot file.
func (b *FileBackend) Labels(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(b.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("storage: list %s: %w", b.root, err)
	}

	var labels []string
	for _, e := range entries {
		if !e.IsDir() || domain.ValidateLabel(e.Name()) != nil {
			continue
		}
		for _, slot := range Slots {
			if _, err := os.Stat(b.Path(e.Name(), slot)); err == nil {
				labels = append(labels, e.Name())
				break
			}
		}
	}
	slices.Sort(labels)
	return labels, nil
}

// Delete removes the directory of a label.
func (b *FileBackend) Delete(_ context.Context, label string) error {
	if err := domain.ValidateLabel(label); err != nil {
		return err
	}
	if err := os.RemoveAll(filepath.Join(b.root, label)); err != nil {
		return fmt.Errorf("storage: delete %s: %w", label, err)
	}
	return nil
}

// Close is a no-op.
func (b *FileBackend) Close() error {
	return nil
}
