package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mono-ball/MonoBall-sub005/pkg/config"
	tperrors "github.com/mono-ball/MonoBall-sub005/pkg/errors"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/backend"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/backend/sim"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/terminal"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/theme"
)

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-follow", "-max-lines", "500", "-metrics", ":9100", "app.log"}, io.Discard)
	require.NoError(t, err)
	assert.True(t, opts.follow)
	assert.Equal(t, 500, opts.maxLines)
	assert.Equal(t, ":9100", opts.metricsAddr)
	assert.True(t, opts.metricsSet)
	assert.Equal(t, "app.log", opts.path)

	opts, err = parseFlags(nil, io.Discard)
	require.NoError(t, err)
	assert.False(t, opts.metricsSet)
	assert.Empty(t, opts.path)

	opts, err = parseFlags([]string{"-metrics", "", "x"}, io.Discard)
	require.NoError(t, err)
	assert.True(t, opts.metricsSet, "an explicit empty address disables the endpoint")
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"two files", []string{"a", "b"}, "at most one file"},
		{"negative max lines", []string{"-max-lines", "-1", "a"}, "must not be negative"},
		{"follow without file", []string{"-follow"}, "need a file"},
		{"virtual without file", []string{"-virtual"}, "need a file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFlags(tt.args, io.Discard)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.True(t, tperrors.IsCode(err, tperrors.ErrCodeInvalidInput))
			assert.Equal(t, exitUsage, exitCodeForError(err))
		})
	}
}

func TestParseFlags_Help(t *testing.T) {
	var out strings.Builder
	_, err := parseFlags([]string{"-h"}, &out)
	assert.True(t, errors.Is(err, flag.ErrHelp))
	assert.Contains(t, out.String(), "Usage: textpane")
}

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"plain", errors.New("boom"), exitFailure},
		{"config", tperrors.New(tperrors.ErrCodeConfigParse, "bad yaml"), exitUsage},
		{"wrapped config", fmt.Errorf("startup: %w", tperrors.New(tperrors.ErrCodeConfigInvalid, "bad")), exitUsage},
		{"terminal", tperrors.New(tperrors.ErrCodeTerminalInit, "no tty"), exitFailure},
		{"explicit", withExitCode(errors.New("x"), 3), 3},
		{"explicit zero", withExitCode(errors.New("x"), 0), exitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCodeForError(tt.err))
		})
	}
	assert.NoError(t, withExitCode(nil, 2))
}

func TestDisplayError(t *testing.T) {
	err := tperrors.New(tperrors.ErrCodeInvalidInput, "no input").WithUserMessage("pipe something in")
	assert.Equal(t, "pipe something in", displayError(withExitCode(err, exitUsage)))

	plain := tperrors.New(tperrors.ErrCodeSourceOpen, "opening input")
	assert.Contains(t, displayError(plain), "opening input")
}

func collect(ch <-chan lineBatch) [][]string {
	var out [][]string
	for b := range ch {
		out = append(out, b.lines)
	}
	return out
}

func TestReadLines(t *testing.T) {
	out := make(chan lineBatch, 16)
	require.NoError(t, readLines(context.Background(), strings.NewReader("a\nb\r\nc\nd"), 2, out))
	close(out)

	var lines []string
	for _, b := range collect(out) {
		assert.LessOrEqual(t, len(b), 2)
		lines = append(lines, b...)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, lines)
}

func TestReadLines_SlowReaderFlushesEachLine(t *testing.T) {
	out := make(chan lineBatch, 16)
	r := iotest.OneByteReader(strings.NewReader("one\ntwo\n"))
	require.NoError(t, readLines(context.Background(), r, 100, out))
	close(out)
	assert.Equal(t, [][]string{{"one"}, {"two"}}, collect(out))
}

func TestReadLines_Error(t *testing.T) {
	out := make(chan lineBatch, 4)
	r := io.MultiReader(strings.NewReader("partial\n"), iotest.ErrReader(errors.New("disk gone")))
	err := readLines(context.Background(), r, 10, out)
	require.Error(t, err)
	assert.True(t, tperrors.IsCode(err, tperrors.ErrCodeSourceRead))
	close(out)
	assert.Equal(t, [][]string{{"partial"}}, collect(out))
}

func TestReadLines_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := make(chan lineBatch)
	assert.NoError(t, readLines(ctx, strings.NewReader("a\nb\n"), 1, out))
}

func TestClassifier(t *testing.T) {
	th := theme.DefaultTheme()
	cls, err := newClassifier([]config.CategoryRule{
		{Keyword: "Error", Category: "error", Color: "error"},
		{Keyword: "warn", Category: "warn", Color: "#ffaa00"},
		{Keyword: "fail", Category: "error"},
	}, th)
	require.NoError(t, err)

	color, cat := cls.Classify("an ERROR and a warning")
	assert.Equal(t, "error", cat, "first rule wins")
	assert.Equal(t, th.Error, color)

	color, cat = cls.Classify("warned")
	assert.Equal(t, "warn", cat)
	assert.Equal(t, backend.ColorRGB(0xff, 0xaa, 0x00), color)

	color, cat = cls.Classify("job failed")
	assert.Equal(t, "error", cat)
	assert.Equal(t, backend.ColorDefault, color)

	_, cat = cls.Classify("all good")
	assert.Empty(t, cat)

	assert.Equal(t, []string{"error", "warn"}, cls.Categories())
	name, ok := cls.Category(2)
	assert.True(t, ok)
	assert.Equal(t, "warn", name)
	_, ok = cls.Category(3)
	assert.False(t, ok)
	_, ok = cls.Category(0)
	assert.False(t, ok)
}

func TestClassifier_BadColor(t *testing.T) {
	_, err := newClassifier([]config.CategoryRule{{Keyword: "x", Category: "x", Color: "plaid"}}, theme.DefaultTheme())
	require.Error(t, err)
	assert.True(t, tperrors.IsCode(err, tperrors.ErrCodeConfigInvalid))
}

func TestClassifier_Nil(t *testing.T) {
	var cls *classifier
	color, cat := cls.Classify("error")
	assert.Equal(t, backend.ColorDefault, color)
	assert.Empty(t, cat)
	assert.Nil(t, cls.Categories())
}

func TestPollEvents_ForwardsUntilFinalized(t *testing.T) {
	screen := sim.New(20, 5)
	require.NoError(t, screen.Init())

	out := make(chan terminal.Event, 4)
	go pollEvents(context.Background(), screen, out)

	screen.InjectKey(terminal.KeyRune, 'q', false)
	deadline := time.After(2 * time.Second)
	for forwarded := false; !forwarded; {
		select {
		case ev := <-out:
			// Startup resize events may come first.
			if key, ok := ev.(terminal.KeyEvent); ok {
				assert.Equal(t, 'q', key.Rune)
				forwarded = true
			}
		case <-deadline:
			t.Fatal("key was not forwarded")
		}
	}

	screen.Fini()
	deadline = time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-out:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("poller did not stop after the screen was finalized")
		}
	}
}
