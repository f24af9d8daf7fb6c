package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"
)

// stdinSource is the manifest argument that reads an inline document from
// standard input: `termsite - < site.json`.
const stdinSource = "-"

// maxStdinManifest caps how much of standard input is read as a manifest.
const maxStdinManifest = 8 << 20

const ttyPollInterval = 250 * time.Millisecond

var (
	openControllingTTY = openTTY
	ttySize            = term.GetSize
	newSizeTicker      = func(d time.Duration) sizeTicker { return timeTicker{Ticker: time.NewTicker(d)} }
	postWindowSize     = func(p *tea.Program, msg tea.WindowSizeMsg) { p.Send(msg) }
)

type sizeTicker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	*time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.Ticker.C }

// readStdinManifest reads a whole manifest document from r.
func readStdinManifest(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, errors.New("read manifest from stdin: no input")
	}
	data, err := io.ReadAll(io.LimitReader(r, maxStdinManifest+1))
	if err != nil {
		return nil, fmt.Errorf("read manifest from stdin: %w", err)
	}
	if len(data) > maxStdinManifest {
		return nil, fmt.Errorf("read manifest from stdin: larger than %d bytes", maxStdinManifest)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("read manifest from stdin: empty input")
	}
	return data, nil
}

// ttySession is the controlling terminal, reopened because standard input
// was spent on the manifest.
type ttySession struct {
	in   *os.File
	out  *os.File
	stop context.CancelFunc
}

// attachTTY reopens the controlling terminal. Without one the shell has no
// keyboard, so that is an error rather than a silent read-only session.
func attachTTY() (*ttySession, error) {
	in, out, err := openControllingTTY()
	if err != nil {
		return nil, fmt.Errorf("manifest read from stdin needs a controlling terminal for input: %w", err)
	}
	return &ttySession{in: in, out: out, stop: func() {}}, nil
}

// programOptions moves the program's input and output onto the terminal and
// keeps its size current until ctx ends or the session is closed.
func (s *ttySession) programOptions(ctx context.Context) []tea.ProgramOption {
	ctx, s.stop = context.WithCancel(ctx)
	return []tea.ProgramOption{
		tea.WithInput(s.in),
		tea.WithOutput(s.out),
		watchTTYSize(ctx, s.out),
	}
}

// Close stops the size watcher and releases the terminal files.
func (s *ttySession) Close() error {
	s.stop()
	err := s.in.Close()
	if s.out != s.in {
		err = errors.Join(err, s.out.Close())
	}
	return err
}

func openTTY() (*os.File, *os.File, error) {
	inName, outName := terminalDeviceNames(runtime.GOOS)
	in, err := os.OpenFile(inName, os.O_RDWR, 0)
	if err != nil {
		return nil, nil, err
	}
	if outName == inName {
		return in, in, nil
	}
	out, err := os.OpenFile(outName, os.O_RDWR, 0)
	if err != nil {
		_ = in.Close()
		return nil, nil, err
	}
	return in, out, nil
}

func terminalDeviceNames(goos string) (input string, output string) {
	if goos == "windows" {
		return "CONIN$", "CONOUT$"
	}
	return "/dev/tty", "/dev/tty"
}

// watchTTYSize polls the size of out and posts a WindowSizeMsg whenever it
// changes. A reopened console does not deliver resize events on Windows.
func watchTTYSize(ctx context.Context, out *os.File) tea.ProgramOption {
	return func(p *tea.Program) {
		go func() {
			t := newSizeTicker(ttyPollInterval)
			defer t.Stop()

			var last tea.WindowSizeMsg
			for {
				select {
				case <-ctx.Done():
					return
				case <-t.C():
				}
				w, h, err := ttySize(int(out.Fd()))
				if err != nil {
					continue
				}
				if msg := (tea.WindowSizeMsg{Width: w, Height: h}); msg != last {
					last = msg
					postWindowSize(p, msg)
				}
			}
		}()
	}
}
