package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-faster/errors"
)

// FileBackend stores the token in a small JSON object file, keyed like the
// browser storage entry it replaces. Other keys in the file are preserved.
type FileBackend struct {
	path string
	key  string
	mu   sync.Mutex
}

func NewFileBackend(path, key string) *FileBackend {
	return &FileBackend{path: filepath.Clean(path), key: key}
}

func (b *FileBackend) Path() string {
	return b.path
}

func (b *FileBackend) Load(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	values, err := b.read()
	if err != nil {
		return "", err
	}
	return values[b.key], nil
}

func (b *FileBackend) Save(ctx context.Context, token string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	values, err := b.read()
	if err != nil {
		return err
	}
	values[b.key] = token
	return b.write(values)
}

func (b *FileBackend) Clear(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	values, err := b.read()
	if err != nil {
		return err
	}
	if _, ok := values[b.key]; !ok {
		return nil
	}
	delete(values, b.key)
	if len(values) == 0 {
		if err := os.Remove(b.path); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, "remove session file")
		}
		return nil
	}
	return b.write(values)
}

// Watch watches the parent directory rather than the file itself: the file
// is replaced by rename on every write and may not exist yet.
func (b *FileBackend) Watch(ctx context.Context, notify func()) error {
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, "create session dir")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer func() { _ = watcher.Close() }()
	if err := watcher.Add(dir); err != nil {
		return errors.Wrapf(err, "watch %s", dir)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != b.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				notify()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return errors.Wrap(err, "watch session file")
		}
	}
}

func (b *FileBackend) read() (map[string]string, error) {
	values := map[string]string{}
	data, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		return values, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read session file")
	}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, errors.Wrap(err, "decode session file")
	}
	return values, nil
}

func (b *FileBackend) write(values map[string]string) error {
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, "create session dir")
	}
	data, err := json.Marshal(values)
	if err != nil {
		return errors.Wrap(err, "encode session file")
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return errors.Wrap(err, "create temp session file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "write temp session file")
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "chmod temp session file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp session file")
	}
	if err := os.Rename(tmp.Name(), b.path); err != nil {
		return errors.Wrap(err, "replace session file")
	}
	return nil
}
