// Package clipboard copies text to the user's clipboard from inside a
// terminal, using OSC 52 escape sequences and falling back to the platform
// clipboard commands.
package clipboard

import (
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"

	osc52 "github.com/aymanbagabas/go-osc52/v2"

	tperrors "github.com/mono-ball/MonoBall-sub005/pkg/errors"
)

// DefaultLimit caps OSC 52 payloads; many terminals reject larger ones.
const DefaultLimit = 100 * 1024

// Mode selects the copy mechanisms.
type Mode int

const (
	ModeAuto Mode = iota
	ModeOSC52
	ModeSystem
)

// Options configures a Clipboard.
type Options struct {
	Mode Mode
	// Out receives OSC 52 sequences, normally the terminal. Nil disables
	// OSC 52.
	Out    io.Writer
	Limit  int
	Logger *slog.Logger
}

// Clipboard implements textbuffer.Clipboard.
type Clipboard struct {
	mode    Mode
	out     io.Writer
	limit   int
	logger  *slog.Logger
	writers [][]string

	getenv   func(string) string
	lookPath func(string) (string, error)
	run      func(args []string, stdin string) error

	mu   sync.Mutex
	last string
}

// New builds a clipboard for the current environment.
func New(opts Options) *Clipboard {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Clipboard{
		mode:   opts.Mode,
		out:    opts.Out,
		limit:  opts.Limit,
		logger: logger,
		writers: [][]string{
			{"pbcopy"},
			{"wl-copy"},
			{"xclip", "-selection", "clipboard"},
			{"xsel", "--clipboard", "--input"},
			{"clip.exe"},
		},
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
		run:      runCommand,
	}
}

func runCommand(args []string, stdin string) error {
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = strings.NewReader(stdin)
	return cmd.Run()
}

// SetText copies text, logging rather than returning failures.
func (c *Clipboard) SetText(text string) {
	if err := c.Write(text); err != nil {
		c.logger.Warn("clipboard copy failed", "error", err)
	}
}

// Last returns the most recently copied text.
func (c *Clipboard) Last() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Write copies text with every enabled mechanism and succeeds if any of
// them did.
func (c *Clipboard) Write(text string) error {
	c.mu.Lock()
	c.last = text
	c.mu.Unlock()

	var errs []string
	ok := false

	if c.mode != ModeSystem && c.out != nil {
		if err := c.writeOSC52(text); err != nil {
			errs = append(errs, "osc52: "+err.Error())
		} else {
			ok = true
		}
	}
	// In auto mode the system command also runs, since terminals that
	// silently ignore OSC 52 cannot be detected.
	if c.mode != ModeOSC52 {
		if err := c.writeSystem(text); err != nil {
			errs = append(errs, err.Error())
		} else {
			ok = true
		}
	}

	if ok {
		return nil
	}
	if len(errs) == 0 {
		return tperrors.New(tperrors.ErrCodeClipboard, "no clipboard mechanism enabled")
	}
	return tperrors.New(tperrors.ErrCodeClipboard, strings.Join(errs, "; "))
}

func (c *Clipboard) writeOSC52(text string) error {
	seq := osc52.New(text).Limit(c.limit)

	term := strings.ToLower(c.getenv("TERM"))
	if c.getenv("TMUX") != "" || strings.HasPrefix(term, "tmux") {
		seq = seq.Tmux()
	} else if strings.HasPrefix(term, "screen") {
		seq = seq.Screen()
	}
	_, err := seq.WriteTo(c.out)
	return err
}

func (c *Clipboard) writeSystem(text string) error {
	tried := false
	for _, args := range c.writers {
		if _, err := c.lookPath(args[0]); err != nil {
			continue
		}
		tried = true
		if err := c.run(args, text); err == nil {
			c.logger.Debug("copied with system command", "command", args[0], "bytes", len(text))
			return nil
		}
	}
	if !tried {
		return tperrors.New(tperrors.ErrCodeClipboard, "no clipboard command available")
	}
	return tperrors.New(tperrors.ErrCodeClipboard, "every clipboard command failed")
}
