package publisher

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// RepoInfo is what publishing needs from the working tree
type RepoInfo struct {
	CommitHash string
	OriginURL  string // https form, empty without an origin remote
	SizeKB     int
}

// InspectRepo opens the git repository containing dir and reads the HEAD
// commit, the origin remote and the size of the files tracked at HEAD.
func InspectRepo(dir string) (*RepoInfo, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("read HEAD commit: %w", err)
	}

	info := &RepoInfo{CommitHash: head.Hash().String()}

	remote, err := repo.Remote("origin")
	switch {
	case errors.Is(err, git.ErrRemoteNotFound):
	case err != nil:
		return nil, fmt.Errorf("read origin remote: %w", err)
	default:
		if urls := remote.Config().URLs; len(urls) > 0 {
			info.OriginURL = HTTPSRemote(urls[0])
		}
	}

	size, err := treeSize(commit)
	if err != nil {
		return nil, err
	}
	info.SizeKB = int((size + 1023) / 1024)

	return info, nil
}

func treeSize(commit *object.Commit) (int64, error) {
	tree, err := commit.Tree()
	if err != nil {
		return 0, fmt.Errorf("read HEAD tree: %w", err)
	}
	var total int64
	err = tree.Files().ForEach(func(f *object.File) error {
		total += f.Size
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walk HEAD tree: %w", err)
	}
	return total, nil
}

// HTTPSRemote rewrites a git remote to the https URL the registry identifies
// packages by. scp-like and ssh:// remotes are converted, credentials dropped.
//
//	git@github.com:acme/widgets.git -> https://github.com/acme/widgets
func HTTPSRemote(remote string) string {
	remote = strings.TrimSpace(remote)

	if !strings.Contains(remote, "://") {
		// scp-like syntax: [user@]host:path
		if at := strings.Index(remote, "@"); at >= 0 {
			remote = remote[at+1:]
		}
		host, p, ok := strings.Cut(remote, ":")
		if !ok {
			return remote
		}
		remote = "https://" + host + "/" + strings.TrimPrefix(p, "/")
	}

	u, err := url.Parse(remote)
	if err != nil {
		return remote
	}
	u.Scheme = "https"
	u.User = nil
	if u.Port() == "22" {
		u.Host = u.Hostname()
	}
	u.Path = strings.TrimSuffix(strings.TrimSuffix(u.Path, "/"), ".git")
	return u.String()
}
