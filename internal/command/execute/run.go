// Package execute runs yt-dlp.
package execute

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"ytdlnis/internal/domain/errs"
	"ytdlnis/internal/utils/logging"
)

// Result holds what a finished run reported.
type Result struct {
	// OutputPaths are the final file paths printed by yt-dlp.
	OutputPaths []string
	// LastLines keeps the tail of the output for error reports.
	LastLines []string
}

const keepLines = 20

// LookPath resolves the yt-dlp binary, defaulting to "yt-dlp" on PATH.
func LookPath(bin string) (string, error) {
	if bin == "" {
		bin = "yt-dlp"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrYtdlpNotFound, err)
	}
	return path, nil
}

// Run executes bin with args, streaming its output to the log.
//
// Cancelling ctx kills the process.
func Run(ctx context.Context, bin string, args []string) (*Result, error) {
	path, err := LookPath(bin)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, path, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	logging.I("Executing command: %s", cmd.String())
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf(errs.YTDLPFailure, err)
	}

	res := &Result{}
	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(2)
	go scan(&wg, &mu, stdout, res, true)
	go scan(&wg, &mu, stderr, res, false)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return res, errors.Join(ctx.Err(), err)
		}
		return res, fmt.Errorf(errs.YTDLPFailure, err)
	}

	logging.D(1, "yt-dlp reported %d output files", len(res.OutputPaths))
	return res, nil
}

// scan logs each line of r, recording absolute paths printed on stdout.
func scan(wg *sync.WaitGroup, mu *sync.Mutex, r io.Reader, res *Result, isStdout bool) {
	defer wg.Done()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		logging.D(1, "%s", line)

		mu.Lock()
		if isStdout && filepath.IsAbs(line) {
			res.OutputPaths = append(res.OutputPaths, line)
		}
		res.LastLines = append(res.LastLines, line)
		if len(res.LastLines) > keepLines {
			res.LastLines = res.LastLines[len(res.LastLines)-keepLines:]
		}
		mu.Unlock()
	}
	if err := scanner.Err(); err != nil {
		logging.E("Scanner error: %v", err)
	}
}
