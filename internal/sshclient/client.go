// Package sshclient launches SSH sessions via the system ssh binary.
//
// This package does NOT implement the SSH protocol. It shells out to the
// configured ssh binary, so the user's full SSH setup (keys, agents,
// ~/.ssh/config, Kerberos tickets) applies without any of it being
// reimplemented here. Every invocation requests GSSAPI authentication with
// credential delegation, which gives Kerberos sites single sign-on through
// to the target host and is harmless elsewhere (ssh falls back to its other
// authentication methods).
//
// Sessions run in one of two modes:
//
//   - Plain: the child inherits our stdin/stdout/stderr and owns the
//     terminal until it exits. This is the default.
//
//   - Transcript: the child runs on a pseudo-terminal with the local
//     terminal in raw mode, and everything the remote side prints is teed
//     into a per-session log file. Any setup failure in this mode downgrades
//     to a plain session rather than blocking the connection.
//
// In both modes the child's own exit status is not our failure: a remote
// command that exits non-zero, or a connection the server closes, still
// counts as a completed session. Only failing to launch the binary is an
// error.
package sshclient

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/creack/pty"
	"golang.org/x/term"

	"github.com/sshconnector/ssh-connector/internal/appconfig"
)

// Client launches sessions with the system ssh binary.
//
// Client is stateless apart from its configuration and is safe to reuse for
// the lifetime of the application; each Connect call creates an independent
// process.
type Client struct {
	Binary        string
	ExtraOptions  []string
	Transcripts   bool
	TranscriptDir string
}

// New builds a client from application settings.
func New(s appconfig.Settings) *Client {
	return &Client{
		Binary:        s.SSH.Binary,
		ExtraOptions:  s.SSH.ExtraOptions,
		Transcripts:   s.SessionLogs.Enabled,
		TranscriptDir: s.SessionLogs.Dir,
	}
}

// EnsureBinary checks that the configured ssh binary is available on PATH.
//
// Called early during startup so a missing binary produces a clear message
// instead of a confusing exec error mid-session.
func (c *Client) EnsureBinary() error {
	if _, err := exec.LookPath(c.Binary); err != nil {
		return fmt.Errorf("%s binary not found in PATH", c.Binary)
	}
	return nil
}

// ConnectArgs builds the argument list for one session: the GSSAPI
// delegation options, then any configured extra options, then the
// user@host target. Split out from Connect so argument composition can be
// tested without launching anything.
func (c *Client) ConnectArgs(username, host string) []string {
	args := []string{
		"-o", "GSSAPIAuthentication=yes",
		"-o", "GSSAPIDelegateCredentials=yes",
	}
	args = append(args, c.ExtraOptions...)
	args = append(args, fmt.Sprintf("%s@%s", username, host))
	return args
}

// Connect runs one blocking foreground session to host as username.
//
// Returns nil when the session ran, regardless of the child's exit status.
// Returns an error only when the process could not be started.
func (c *Client) Connect(username, host string) error {
	args := c.ConnectArgs(username, host)
	var err error
	if c.Transcripts {
		err = c.runTranscribed(args, host)
	} else {
		err = c.runPlain(args)
	}
	var exit *exec.ExitError
	if errors.As(err, &exit) {
		return nil
	}
	return err
}

func (c *Client) runPlain(args []string) error {
	cmd := exec.Command(c.Binary, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// runTranscribed runs the session on a PTY and tees its output into a log
// file. The local terminal goes raw so keystrokes reach the remote shell
// unmangled; the previous state is restored when the session ends.
func (c *Client) runTranscribed(args []string, host string) error {
	logFile, err := c.openTranscript(host)
	if err != nil {
		slog.Warn("session transcript unavailable", "error", err)
		return c.runPlain(args)
	}
	defer logFile.Close()

	cmd := exec.Command(c.Binary, args...)
	f, err := pty.Start(cmd)
	if err != nil {
		slog.Warn("pty unavailable, running without transcript", "error", err)
		return c.runPlain(args)
	}
	defer f.Close()

	if oldState, err := term.MakeRaw(int(os.Stdin.Fd())); err == nil {
		defer term.Restore(int(os.Stdin.Fd()), oldState)
	}

	// Stdin copy ends when the PTY closes after the child exits.
	go func() {
		_, _ = io.Copy(f, os.Stdin)
	}()
	_, _ = io.Copy(io.MultiWriter(os.Stdout, logFile), f)

	return cmd.Wait()
}

// openTranscript creates the per-session log file. Hostnames become file
// names, so path separators are flattened.
func (c *Client) openTranscript(host string) (*os.File, error) {
	if err := os.MkdirAll(c.TranscriptDir, 0o700); err != nil {
		return nil, err
	}
	safe := strings.ReplaceAll(host, string(os.PathSeparator), "_")
	name := fmt.Sprintf("%s-%s.log", safe, time.Now().Format("20060102-150405"))
	return os.OpenFile(filepath.Join(c.TranscriptDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}
