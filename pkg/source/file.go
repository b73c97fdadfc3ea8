// Package source pages lines of a large file into a text buffer without
// loading the file. A line-offset index is built once and extended as the
// file grows.
package source

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"sync"

	tperrors "github.com/mono-ball/MonoBall-sub005/pkg/errors"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/backend"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/textbuffer"
)

const scanChunk = 64 * 1024

// Classifier assigns a color and category to a line of text.
type Classifier func(text string) (backend.Color, string)

// Options configures a File.
type Options struct {
	Classify Classifier
	Logger   *slog.Logger
}

// File is an indexed file implementing textbuffer.WindowSource.
type File struct {
	path     string
	classify Classifier
	logger   *slog.Logger

	mu     sync.Mutex
	f      *os.File
	starts []int64 // byte offset of each line start; may end with size
	size   int64
	err    error
}

var _ textbuffer.WindowSource = (*File)(nil)

// Open indexes path.
func Open(path string, opts Options) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, tperrors.Wrap(err, tperrors.ErrCodeSourceOpen, "opening source file").WithContext("path", path)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &File{
		path:     path,
		classify: opts.Classify,
		logger:   logger,
		f:        f,
		starts:   []int64{0},
	}
	if _, err := s.Refresh(); err != nil {
		f.Close()
		return nil, err
	}
	logger.Debug("source indexed", "path", path, "lines", s.LineCount(), "bytes", s.size)
	return s, nil
}

// Path returns the indexed file.
func (s *File) Path() string { return s.path }

// Close releases the file.
func (s *File) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

// Refresh indexes bytes appended since the last call and reports whether
// the line count changed. A file that shrank is re-indexed from scratch.
func (s *File) Refresh() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return false, tperrors.New(tperrors.ErrCodeSourceRead, "source closed").WithContext("path", s.path)
	}

	info, err := s.f.Stat()
	if err != nil {
		return false, tperrors.Wrap(err, tperrors.ErrCodeSourceRead, "stat source file").WithContext("path", s.path)
	}
	size := info.Size()
	before := s.lineCountLocked()

	if size < s.size {
		s.logger.Info("source truncated, re-indexing", "path", s.path, "size", size)
		s.starts, s.size = []int64{0}, 0
	}
	if size == s.size {
		return s.lineCountLocked() != before, nil
	}

	buf := make([]byte, scanChunk)
	for pos := s.size; pos < size; {
		n, err := s.f.ReadAt(buf[:min(int64(len(buf)), size-pos)], pos)
		chunk := buf[:n]
		for off := 0; ; {
			i := bytes.IndexByte(chunk[off:], '\n')
			if i < 0 {
				break
			}
			off += i + 1
			s.starts = append(s.starts, pos+int64(off))
		}
		pos += int64(n)
		if err != nil && err != io.EOF {
			return false, tperrors.Wrap(err, tperrors.ErrCodeSourceRead, "indexing source file").WithContext("path", s.path)
		}
		if n == 0 {
			size = pos
			break
		}
	}
	s.size = size
	return s.lineCountLocked() != before, nil
}

// LineCount returns the number of lines. A final line without a trailing
// newline counts.
func (s *File) LineCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lineCountLocked()
}

func (s *File) lineCountLocked() int {
	n := len(s.starts)
	if s.starts[n-1] == s.size {
		n--
	}
	return n
}

// Err returns the last read error seen by Lines.
func (s *File) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Lines reads count lines starting at start. Out-of-range requests are
// clipped; read failures yield the lines read so far and are kept for Err.
func (s *File) Lines(start, count int) []textbuffer.Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := s.lineCountLocked()
	start = max(0, start)
	end := min(total, start+max(0, count))
	if start >= end || s.f == nil {
		return nil
	}

	from := s.starts[start]
	to := s.size
	if end < len(s.starts) {
		to = s.starts[end]
	}
	data := make([]byte, to-from)
	n, err := s.f.ReadAt(data, from)
	if err != nil && err != io.EOF {
		s.err = tperrors.Wrap(err, tperrors.ErrCodeSourceRead, "reading source lines").
			WithContext("path", s.path).
			WithContext("start", start)
		s.logger.Warn("source read failed", "path", s.path, "start", start, "error", err)
	}
	data = data[:n]

	out := make([]textbuffer.Line, 0, end-start)
	for i := start; i < end; i++ {
		lo := s.starts[i] - from
		if lo >= int64(len(data)) {
			break
		}
		hi := int64(len(data))
		if i+1 < len(s.starts) {
			hi = min(hi, s.starts[i+1]-from)
		}
		text := string(bytes.TrimSuffix(bytes.TrimSuffix(data[lo:hi], []byte{'\n'}), []byte{'\r'}))
		line := textbuffer.Line{Text: text, Color: backend.ColorDefault}
		if s.classify != nil {
			line.Color, line.Category = s.classify(text)
		}
		out = append(out, line)
	}
	return out
}
