package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/mazraa-market/internal/logger"
)

// FileStorage keeps one JSON file per owner under a directory. Writes go
// through a temp file and rename so readers never see partial state.
type FileStorage struct {
	dir string
}

// NewFileStorage creates the directory if needed.
func NewFileStorage(dir string) (*FileStorage, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("cart file storage: empty dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cart file storage: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

// Load reads the owner's cart file.
func (s *FileStorage) Load(ctx context.Context, owner string) ([]Line, bool, error) {
	data, err := os.ReadFile(s.path(owner))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		// A file that is not valid JSON at all is unrecoverable; treat it
		// like an empty cart rather than blocking every operation.
		logger.Warnw("cart_file_corrupted", "owner", owner, "error", err)
		return nil, true, nil
	}
	return lines, true, nil
}

// Save writes the owner's cart file atomically.
func (s *FileStorage) Save(ctx context.Context, owner string, lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	target := s.path(owner)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}

// Delete removes the owner's cart file.
func (s *FileStorage) Delete(ctx context.Context, owner string) error {
	err := os.Remove(s.path(owner))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Owners lists every owner with a cart file.
func (s *FileStorage) Owners(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	owners := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		owners = append(owners, strings.TrimSuffix(name, ".json"))
	}
	return owners, nil
}

// Watch emits owner keys whose files changed on disk, including changes made
// by other processes. The channel closes when ctx is done.
func (s *FileStorage) Watch(ctx context.Context) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return nil, err
	}

	out := make(chan string, 16)
	go func() {
		defer watcher.Close()
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
					continue
				}
				name := filepath.Base(event.Name)
				if !strings.HasSuffix(name, ".json") {
					continue
				}
				select {
				case out <- strings.TrimSuffix(name, ".json"):
				default:
					// Slow consumer: the event is an invalidation hint, a
					// later event covers the same reload.
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warnw("cart_watch_error", "error", err)
			}
		}
	}()
	return out, nil
}

func (s *FileStorage) path(owner string) string {
	return filepath.Join(s.dir, sanitizeOwner(owner)+".json")
}

// sanitizeOwner keeps owner-derived filenames flat and safe.
func sanitizeOwner(owner string) string {
	owner = strings.TrimSpace(owner)
	var b strings.Builder
	for _, r := range owner {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}
