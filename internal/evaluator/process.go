package evaluator

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/ahp"
)

const versionTimeout = 10 * time.Second

// ProcessClient runs the evaluator as a child process. The request is written to
// stdin as JSON and the result is read from stdout.
type ProcessClient struct {
	executable string
	scriptPath string
	timeout    time.Duration
	logger     *slog.Logger
}

func NewProcessClient(executable, scriptPath string, timeout time.Duration, logger *slog.Logger) *ProcessClient {
	if timeout <= 0 {
		timeout = 300 * time.Second
	}
	return &ProcessClient{
		executable: executable,
		scriptPath: scriptPath,
		timeout:    timeout,
		logger:     logger,
	}
}

func (c *ProcessClient) Evaluate(ctx context.Context, priorities ahp.PriorityRanking) (Result, error) {
	req, err := newRequest(priorities)
	if err != nil {
		return nil, err
	}
	input, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.executable, "-u", c.scriptPath)
	cmd.Env = append(os.Environ(), "PYTHONIOENCODING=utf-8")
	cmd.Stdin = bytes.NewReader(input)
	cmd.WaitDelay = time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Info("starting evaluator", "executable", c.executable, "script", c.scriptPath)
	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start evaluator: %w", err)
	}

	err = cmd.Wait()
	c.relayStderr(&stderr)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("evaluator timed out after %s: %w", c.timeout, context.DeadlineExceeded)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("evaluator exited with code %d: %s", exitErr.ExitCode(), strings.TrimSpace(stdout.String()))
		}
		return nil, fmt.Errorf("evaluator: %w", err)
	}

	out := bytes.TrimSpace(stdout.Bytes())
	c.logger.Info("evaluator finished", "bytes", len(out), "duration_ms", time.Since(start).Milliseconds())

	var res Result
	if err := json.Unmarshal(out, &res); err != nil {
		return nil, fmt.Errorf("decode evaluator output: %w", err)
	}
	if err := checkResult(res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *ProcessClient) relayStderr(r io.Reader) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.Contains(line, "[ERROR]"):
			c.logger.Warn("evaluator", "line", line)
		case strings.Contains(line, "[DEBUG]"):
			c.logger.Debug("evaluator", "line", line)
		}
	}
}

func (c *ProcessClient) Environment(ctx context.Context) (*Environment, error) {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, c.executable, "--version").CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("probe evaluator runtime: %w", err)
	}
	return &Environment{
		Mode:       "process",
		Version:    strings.TrimSpace(string(out)),
		Executable: c.executable,
		ScriptPath: c.scriptPath,
	}, nil
}
