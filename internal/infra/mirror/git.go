// Package mirror replicates the persisted ledger document to a dedicated
// git ref, best-effort. Failures are logged and dropped, never surfaced
// to a request.
package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"stock_go/internal/infra"
	"stock_go/pkg/circuit"
)

const (
	commitAuthor  = "stock_go mirror"
	commitEmail   = "mirror@localhost"
	commitMessage = "update ledger"
	syncTimeout   = 60 * time.Second
)

// Runner executes one git command in dir and returns its combined output.
// Injected so tests can observe the command sequence without a git binary.
type Runner func(ctx context.Context, dir string, args ...string) (string, error)

func execRunner(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// Mirror pushes the ledger file to one dedicated ref of a remote,
// overwriting remote history on that ref only.
type Mirror struct {
	remote   string
	ref      string
	token    string
	filePath string

	runner  Runner
	breaker *circuit.Breaker
	metrics *infra.Metrics

	mu sync.Mutex // serializes syncs
}

// New creates a mirror. When remote or token is empty the mirror is a no-op.
func New(remote, ref, token, filePath string, metrics *infra.Metrics) *Mirror {
	return &Mirror{
		remote:   remote,
		ref:      ref,
		token:    token,
		filePath: filePath,
		runner:   execRunner,
		breaker:  circuit.New(3, 5*time.Minute),
		metrics:  metrics,
	}
}

// Enabled reports whether both remote and credential are configured.
func (m *Mirror) Enabled() bool {
	return m != nil && m.remote != "" && m.token != ""
}

// Trigger starts one asynchronous sync. It returns immediately; the
// request path never waits on, retries, or learns about the outcome.
func (m *Mirror) Trigger(ctx context.Context) {
	if !m.Enabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), syncTimeout)
		defer cancel()

		err := m.breaker.Execute(func() error { return m.sync(ctx) })
		if err != nil {
			if m.metrics != nil {
				m.metrics.RecordMirrorFailure()
			}
			slog.Warn("Ledger mirror failed", slog.String("ref", m.ref), slog.Any("error", err))
			return
		}
		if m.metrics != nil {
			m.metrics.RecordMirrorSync()
		}
	}()
}

// sync clones the dedicated ref into a scratch directory (creating it as
// an orphan when absent), stages the ledger file, commits when there is a
// diff and force-pushes. A no-diff condition is success.
func (m *Mirror) sync(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	workDir, err := os.MkdirTemp("", "stock-mirror-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(workDir)

	remote := m.authRemote()

	if out, err := m.runner(ctx, "", "clone", "--depth", "1", "--branch", m.ref, remote, workDir); err != nil {
		// Ref (or repo content) may not exist yet: start an orphan ref.
		slog.Debug("Mirror clone failed, creating orphan ref", slog.String("output", strings.TrimSpace(out)))
		if out, err := m.runner(ctx, "", "init", workDir); err != nil {
			return fmt.Errorf("git init: %s: %w", strings.TrimSpace(out), err)
		}
		if out, err := m.runner(ctx, workDir, "checkout", "--orphan", m.ref); err != nil {
			return fmt.Errorf("git checkout --orphan: %s: %w", strings.TrimSpace(out), err)
		}
		if out, err := m.runner(ctx, workDir, "remote", "add", "origin", remote); err != nil {
			return fmt.Errorf("git remote add: %s: %w", strings.TrimSpace(out), err)
		}
	}

	if err := m.copyLedger(workDir); err != nil {
		return err
	}

	if out, err := m.runner(ctx, workDir, "add", "-A"); err != nil {
		return fmt.Errorf("git add: %s: %w", strings.TrimSpace(out), err)
	}

	out, err := m.runner(ctx, workDir,
		"-c", "user.name="+commitAuthor,
		"-c", "user.email="+commitEmail,
		"commit", "-m", commitMessage)
	if err != nil {
		if strings.Contains(out, "nothing to commit") {
			return nil
		}
		return fmt.Errorf("git commit: %s: %w", strings.TrimSpace(out), err)
	}

	if out, err := m.runner(ctx, workDir, "push", "--force", "origin", m.ref); err != nil {
		return fmt.Errorf("git push: %s: %w", strings.TrimSpace(out), err)
	}

	slog.Info("Ledger mirrored", slog.String("ref", m.ref))
	return nil
}

func (m *Mirror) copyLedger(workDir string) error {
	data, err := os.ReadFile(m.filePath)
	if err != nil {
		return fmt.Errorf("read ledger: %w", err)
	}
	dst := filepath.Join(workDir, filepath.Base(m.filePath))
	return os.WriteFile(dst, data, 0644)
}

// authRemote injects the credential into an https remote URL.
func (m *Mirror) authRemote() string {
	u, err := url.Parse(m.remote)
	if err != nil || u.Scheme == "" {
		return m.remote
	}
	u.User = url.UserPassword("x-access-token", m.token)
	return u.String()
}
