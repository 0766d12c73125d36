// Package git attaches git context to focus sessions using go-git. Students
// who keep notes or coursework in a repository get the branch and commit they
// were on recorded with each session.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/xvierd/studyflow/internal/ports"
)

// ErrNotRepository is returned when the directory is not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

// Detector implements the ports.GitDetector interface using go-git.
type Detector struct {
	enabled bool
}

// NewDetector creates a git detector. A disabled detector reports itself
// unavailable and never touches the filesystem.
func NewDetector(enabled bool) *Detector {
	return &Detector{enabled: enabled}
}

// Ensure Detector implements ports.GitDetector.
var _ ports.GitDetector = (*Detector)(nil)

// Detect opens the repository containing workingDir and reads HEAD.
func (d *Detector) Detect(ctx context.Context, workingDir string) (*ports.GitInfo, error) {
	if !d.enabled {
		return nil, ErrNotRepository
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repo, err := open(workingDir)
	if err != nil {
		return nil, err
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	branch := head.Name().Short()
	if !head.Name().IsBranch() {
		branch = "HEAD detached"
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get commit: %w", err)
	}

	info := &ports.GitInfo{
		Branch:    branch,
		Commit:    head.Hash().String(),
		CommitMsg: strings.SplitN(commit.Message, "\n", 2)[0],
		IsClean:   true,
	}

	if remotes, err := repo.Remotes(); err == nil && len(remotes) > 0 {
		if urls := remotes[0].Config().URLs; len(urls) > 0 {
			info.Repository = extractRepoName(urls[0])
		}
	}

	if worktree, err := repo.Worktree(); err == nil {
		if status, err := worktree.Status(); err == nil {
			info.IsClean = status.IsClean()
		}
	}

	return info, nil
}

// IsAvailable reports whether detection is enabled and the current directory
// is inside a repository.
func (d *Detector) IsAvailable() bool {
	if !d.enabled {
		return false
	}
	_, err := open("")
	return err == nil
}

func open(workingDir string) (*git.Repository, error) {
	if workingDir == "" {
		var err error
		workingDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	repo, err := git.PlainOpenWithOptions(workingDir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, workingDir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}
	return repo, nil
}

// extractRepoName turns a remote URL into owner/name.
func extractRepoName(url string) string {
	url = strings.TrimSuffix(url, ".git")

	if strings.HasPrefix(url, "git@") {
		if i := strings.LastIndex(url, ":"); i >= 0 {
			return url[i+1:]
		}
	}

	if strings.HasPrefix(url, "http") {
		parts := strings.Split(url, "/")
		if len(parts) >= 2 {
			return parts[len(parts)-2] + "/" + parts[len(parts)-1]
		}
	}

	return url
}

// ShortCommit returns a shortened commit hash.
func ShortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
