// Package filewatch follows a growing file and hands newly appended lines to
// subscribers, the way tail -f does.
package filewatch

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/oklog/ulid/v2"

	tperrors "github.com/mono-ball/MonoBall-sub005/pkg/errors"
)

const (
	defaultPollInterval = time.Second
	defaultBatchLines   = 512
)

// ChangeType describes what happened to the followed file.
type ChangeType string

const (
	ChangeAppended  ChangeType = "appended"
	ChangeTruncated ChangeType = "truncated"
	ChangeRemoved   ChangeType = "removed"
)

// Batch is one delivery to subscribers. Lines is empty for truncation and
// removal notices.
type Batch struct {
	Path   string
	Type   ChangeType
	Lines  []string
	Offset int64
}

// BatchHandler receives batches on the goroutine that called Poll or Run.
// Handlers must not call back into Poll or Offset.
type BatchHandler func(Batch)

// Subscription binds a handler to the follower.
type Subscription struct {
	ID      string
	Handler BatchHandler
}

// Options configures a Follower.
type Options struct {
	// PollInterval is the fallback re-read period for filesystems where
	// change notifications are missed. Zero uses one second.
	PollInterval time.Duration
	// BatchLines caps the lines per Batch. Zero uses 512.
	BatchLines int
	// FromStart delivers the existing contents before following.
	FromStart bool
	Logger     *slog.Logger
}

// Follower tails a single file.
type Follower struct {
	path         string
	pollInterval time.Duration
	batchLines   int
	logger       *slog.Logger

	mu            sync.RWMutex
	subscriptions map[string]*Subscription

	readMu  sync.Mutex
	offset  int64
	partial []byte
	started bool
	missing bool
	fromEnd bool
}

// NewFollower creates a follower for path. Nothing is read until Poll or Run.
func NewFollower(path string, opts Options) *Follower {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.BatchLines <= 0 {
		opts.BatchLines = defaultBatchLines
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Follower{
		path:          filepath.Clean(path),
		pollInterval:  opts.PollInterval,
		batchLines:    opts.BatchLines,
		logger:        logger,
		subscriptions: make(map[string]*Subscription),
		fromEnd:       !opts.FromStart,
	}
}

// Path returns the followed file.
func (f *Follower) Path() string { return f.path }

// Offset returns the byte offset up to which complete lines were delivered.
func (f *Follower) Offset() int64 {
	f.readMu.Lock()
	defer f.readMu.Unlock()
	return f.offset - int64(len(f.partial))
}

// Subscribe registers a handler and returns its ID.
func (f *Follower) Subscribe(handler BatchHandler) string {
	if f == nil || handler == nil {
		return ""
	}
	id := ulid.Make().String()
	f.mu.Lock()
	f.subscriptions[id] = &Subscription{ID: id, Handler: handler}
	f.mu.Unlock()
	return id
}

// Unsubscribe removes a subscription.
func (f *Follower) Unsubscribe(id string) {
	if f == nil || strings.TrimSpace(id) == "" {
		return
	}
	f.mu.Lock()
	delete(f.subscriptions, id)
	f.mu.Unlock()
}

func (f *Follower) notify(batch Batch) {
	f.mu.RLock()
	subs := make([]*Subscription, 0, len(f.subscriptions))
	for _, sub := range f.subscriptions {
		subs = append(subs, sub)
	}
	f.mu.RUnlock()

	for _, sub := range subs {
		sub.Handler(batch)
	}
}

// Run follows the file until ctx is cancelled. Change notifications on the
// parent directory trigger a read; a ticker re-reads as a fallback.
func (f *Follower) Run(ctx context.Context) error {
	if err := f.Poll(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return tperrors.Wrap(err, tperrors.ErrCodeFollow, "creating file watcher").WithContext("path", f.path)
	}
	defer watcher.Close()

	// The directory is watched so rotation and re-creation are seen.
	dir := filepath.Dir(f.path)
	if err := watcher.Add(dir); err != nil {
		f.logger.Warn("watch failed, polling only", "dir", dir, "error", err)
	}

	ticker := time.NewTicker(f.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != f.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if err := f.Poll(); err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.logger.Warn("watcher error", "error", err)
		case <-ticker.C:
			if err := f.Poll(); err != nil {
				return err
			}
		}
	}
}

// Poll reads whatever was appended since the last call and notifies
// subscribers. A missing file is reported once and then waited for; a file
// that shrank is re-read from the start.
func (f *Follower) Poll() error {
	f.readMu.Lock()
	defer f.readMu.Unlock()

	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if f.started && !f.missing {
				f.offset, f.partial = 0, nil
				f.notify(Batch{Path: f.path, Type: ChangeRemoved})
			}
			f.started, f.missing = true, true
			return nil
		}
		return tperrors.Wrap(err, tperrors.ErrCodeFollow, "opening followed file").WithContext("path", f.path)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return tperrors.Wrap(err, tperrors.ErrCodeFollow, "stat followed file").WithContext("path", f.path)
	}
	size := info.Size()

	if !f.started {
		f.started = true
		if f.fromEnd {
			f.offset = size
			return nil
		}
	}
	f.missing = false

	if size < f.offset {
		f.logger.Info("file truncated", "path", f.path, "size", size, "offset", f.offset)
		f.offset, f.partial = 0, nil
		f.notify(Batch{Path: f.path, Type: ChangeTruncated})
	}
	if size == f.offset {
		return nil
	}

	if _, err := file.Seek(f.offset, io.SeekStart); err != nil {
		return tperrors.Wrap(err, tperrors.ErrCodeFollow, "seeking followed file").WithContext("path", f.path)
	}
	return f.readLines(bufio.NewReader(io.LimitReader(file, size-f.offset)))
}

func (f *Follower) readLines(r *bufio.Reader) error {
	batch := make([]string, 0, f.batchLines)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		f.notify(Batch{Path: f.path, Type: ChangeAppended, Lines: batch, Offset: f.offset - int64(len(f.partial))})
		batch = make([]string, 0, f.batchLines)
	}

	for {
		chunk, err := r.ReadBytes('\n')
		f.offset += int64(len(chunk))
		if len(chunk) > 0 && chunk[len(chunk)-1] == '\n' {
			line := append(f.partial, chunk[:len(chunk)-1]...)
			f.partial = nil
			batch = append(batch, string(bytes.TrimSuffix(line, []byte{'\r'})))
			if len(batch) >= f.batchLines {
				flush()
			}
		} else if len(chunk) > 0 {
			f.partial = append(f.partial, chunk...)
		}

		if err == io.EOF {
			flush()
			return nil
		}
		if err != nil {
			flush()
			return tperrors.Wrap(err, tperrors.ErrCodeFollow, "reading followed file").WithContext("path", f.path)
		}
	}
}
