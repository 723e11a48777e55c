package git

import (
	"context"
	"errors"
	"sort"

	gogit "github.com/go-git/go-git/v5"

	apperrors "github.com/clizin/clizin/internal/pkg/errors"
)

// ChangeType represents how a staged file differs from HEAD.
type ChangeType int

const (
	ChangeTypeAdded ChangeType = iota
	ChangeTypeModified
	ChangeTypeDeleted
	ChangeTypeRenamed
	ChangeTypeCopied
)

// String returns the string representation of ChangeType.
func (c ChangeType) String() string {
	switch c {
	case ChangeTypeAdded:
		return "added"
	case ChangeTypeModified:
		return "modified"
	case ChangeTypeDeleted:
		return "deleted"
	case ChangeTypeRenamed:
		return "renamed"
	case ChangeTypeCopied:
		return "copied"
	default:
		return "unknown"
	}
}

// StagedFile is a path in the index that differs from HEAD.
type StagedFile struct {
	Path   string
	Change ChangeType
}

func changeTypeFor(code gogit.StatusCode) (ChangeType, bool) {
	switch code {
	case gogit.Added:
		return ChangeTypeAdded, true
	case gogit.Modified:
		return ChangeTypeModified, true
	case gogit.Deleted:
		return ChangeTypeDeleted, true
	case gogit.Renamed:
		return ChangeTypeRenamed, true
	case gogit.Copied:
		return ChangeTypeCopied, true
	default:
		// Unmodified, Untracked and UpdatedButUnmerged are not staged changes.
		return 0, false
	}
}

// StagedFiles lists staged paths ordered by path. Untracked files and
// unstaged edits are excluded.
func (c *DefaultClient) StagedFiles(ctx context.Context) ([]StagedFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewInterruptedError(err)
	}

	dir := c.workDir
	if dir == "" {
		dir = "."
	}

	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, apperrors.NewNotARepositoryError(err)
		}
		return nil, apperrors.NewGitError(err, "")
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, apperrors.NewGitError(err, "")
	}

	status, err := wt.Status()
	if err != nil {
		return nil, apperrors.NewGitError(err, "")
	}

	files := make([]StagedFile, 0, len(status))
	for path, st := range status {
		change, ok := changeTypeFor(st.Staging)
		if !ok {
			continue
		}
		files = append(files, StagedFile{Path: path, Change: change})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	apperrors.Debug("staged files", "count", len(files))
	return files, nil
}
