// Package git provides the version-control operations clizin needs.
package git

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/clizin/clizin/internal/pkg/errors"
)

const (
	// GitCommandTimeout is the default timeout for git queries.
	GitCommandTimeout = 10 * time.Second
	// CommitTimeout leaves room for commit hooks.
	CommitTimeout = 2 * time.Minute
)

// DiffStats summarises the staged changes.
type DiffStats struct {
	Files     int
	Additions int
	Deletions int
	Binary    int
}

// Client defines the version-control operations used by the commit workflow.
// It never stages or unstages anything.
type Client interface {
	HasStagedChanges(ctx context.Context) (bool, error)
	StagedFiles(ctx context.Context) ([]StagedFile, error)
	StagedDiff(ctx context.Context) (string, error)
	DiffStats(ctx context.Context) (*DiffStats, error)
	Commit(ctx context.Context, message string) error
}

// DefaultClient implements the Client interface with the git CLI for diffs
// and commits and go-git for status.
type DefaultClient struct {
	// workDir is the working directory for git commands.
	// If empty, uses the current directory.
	workDir string
}

// NewClient creates a new DefaultClient.
func NewClient() *DefaultClient {
	return &DefaultClient{}
}

// NewClientWithWorkDir creates a new DefaultClient with a specific working directory.
func NewClientWithWorkDir(workDir string) *DefaultClient {
	return &DefaultClient{workDir: workDir}
}

type gitResult struct {
	stdout   []byte
	stderr   string
	exitCode int
}

// run executes git with args under timeout. A non-zero exit is reported in
// the result, not as an error; errors are reserved for git not running at all.
func (c *DefaultClient) run(ctx context.Context, timeout time.Duration, args ...string) (*gitResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	if c.workDir != "" {
		cmd.Dir = c.workDir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	apperrors.Debug("running git", "args", strings.Join(args, " "))
	err := cmd.Run()

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return nil, apperrors.NewTimeoutError(ctxErr)
		}
		return nil, apperrors.NewInterruptedError(ctxErr)
	}

	res := &gitResult{stdout: stdout.Bytes(), stderr: strings.TrimSpace(stderr.String())}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, apperrors.NewGitError(err, res.stderr)
		}
		res.exitCode = exitErr.ExitCode()
	}
	if isNotARepository(res.stderr) {
		return nil, apperrors.NewNotARepositoryError(errors.New(res.stderr))
	}
	return res, nil
}

func isNotARepository(stderr string) bool {
	return strings.Contains(strings.ToLower(stderr), "not a git repository")
}

// requireRepository fails with NotARepositoryError outside a work tree.
// Outside a repository git diff rejects --cached as an unknown option
// instead of naming the problem, so the check runs first.
func (c *DefaultClient) requireRepository(ctx context.Context) error {
	res, err := c.run(ctx, GitCommandTimeout, "rev-parse", "--git-dir")
	if err != nil {
		return err
	}
	if res.exitCode != 0 {
		return apperrors.NewGitError(errors.New("git rev-parse --git-dir exited with "+strconv.Itoa(res.exitCode)), res.stderr)
	}
	return nil
}

// HasStagedChanges reports whether the index differs from HEAD.
func (c *DefaultClient) HasStagedChanges(ctx context.Context) (bool, error) {
	if err := c.requireRepository(ctx); err != nil {
		return false, err
	}
	res, err := c.run(ctx, GitCommandTimeout, "diff", "--cached", "--quiet")
	if err != nil {
		return false, err
	}
	switch res.exitCode {
	case 0:
		return false, nil
	case 1:
		// Exit code 1 means there are differences (staged changes exist)
		return true, nil
	default:
		return false, apperrors.NewGitError(errors.New("git diff --cached --quiet exited with "+strconv.Itoa(res.exitCode)), res.stderr)
	}
}

// StagedDiff returns the textual diff of the index against HEAD, or an empty
// string when nothing differs.
func (c *DefaultClient) StagedDiff(ctx context.Context) (string, error) {
	if err := c.requireRepository(ctx); err != nil {
		return "", err
	}
	res, err := c.run(ctx, GitCommandTimeout, "diff", "--cached", "--no-color", "--no-ext-diff")
	if err != nil {
		return "", err
	}
	if res.exitCode != 0 {
		return "", apperrors.NewGitError(errors.New("git diff --cached failed"), res.stderr)
	}
	return string(res.stdout), nil
}

// DiffStats returns numstat totals for the staged changes.
func (c *DefaultClient) DiffStats(ctx context.Context) (*DiffStats, error) {
	if err := c.requireRepository(ctx); err != nil {
		return nil, err
	}
	res, err := c.run(ctx, GitCommandTimeout, "diff", "--cached", "--numstat")
	if err != nil {
		return nil, err
	}
	if res.exitCode != 0 {
		return nil, apperrors.NewGitError(errors.New("git diff --cached --numstat failed"), res.stderr)
	}

	stats := &DiffStats{}
	for _, stat := range parseNumstat(res.stdout) {
		stats.Files++
		stats.Additions += stat.additions
		stats.Deletions += stat.deletions
		if stat.isBinary {
			stats.Binary++
		}
	}
	return stats, nil
}

// Commit records the current index with message. Hooks run as usual.
func (c *DefaultClient) Commit(ctx context.Context, message string) error {
	res, err := c.run(ctx, CommitTimeout, "commit", "-m", message)
	if err != nil {
		return err
	}
	if res.exitCode != 0 {
		output := res.stderr
		if output == "" {
			output = strings.TrimSpace(string(res.stdout))
		}
		return apperrors.NewCommitError(errors.New("exit status "+strconv.Itoa(res.exitCode)), output)
	}
	return nil
}

// fileStat holds statistics for a single file from numstat.
type fileStat struct {
	path      string
	additions int
	deletions int
	isBinary  bool
}

// parseNumstat parses the output of git diff --numstat.
// Format: additions<TAB>deletions<TAB>filepath
// Binary files show as: -<TAB>-<TAB>filepath
func parseNumstat(output []byte) []fileStat {
	var stats []fileStat
	scanner := bufio.NewScanner(bytes.NewReader(output))

	for scanner.Scan() {
		parts := strings.Split(scanner.Text(), "\t")
		if len(parts) < 3 {
			continue
		}

		addStr, delStr, filePath := parts[0], parts[1], parts[2]

		// Renames appear as "old => new"
		if strings.Contains(filePath, " => ") {
			filePath = extractNewPath(filePath)
		}

		stat := fileStat{path: filePath}
		if addStr == "-" && delStr == "-" {
			stat.isBinary = true
		} else {
			stat.additions, _ = strconv.Atoi(addStr)
			stat.deletions, _ = strconv.Atoi(delStr)
		}
		stats = append(stats, stat)
	}

	return stats
}

var renameBraces = regexp.MustCompile(`\{([^}]*) => ([^}]*)\}`)

// extractNewPath extracts the new file path from git rename notation.
// Examples:
//   - "old.txt => new.txt" -> "new.txt"
//   - "{old => new}/file.txt" -> "new/file.txt"
//   - "dir/{old.txt => new.txt}" -> "dir/new.txt"
func extractNewPath(renamePath string) string {
	if !strings.Contains(renamePath, "{") {
		parts := strings.Split(renamePath, " => ")
		if len(parts) == 2 {
			return strings.TrimSpace(parts[1])
		}
	}

	result := renameBraces.ReplaceAllString(renamePath, "$2")
	return strings.ReplaceAll(result, "//", "/")
}
