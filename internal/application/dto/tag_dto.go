package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/bravo68web/odinpkg/internal/application/service"
	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/internal/domain/repository"
)

// AddTagRequest puts a tag on a package
type AddTagRequest struct {
	Name string `json:"name" binding:"required"`
}

// VoteTagRequest votes on a package tag: 1, -1, or 0 to withdraw
type VoteTagRequest struct {
	Vote int `json:"vote"`
}

// TagInfo is a tag on a package
type TagInfo struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Score int       `json:"score"`
}

// NewTagInfos converts package tags
func NewTagInfos(tags []repository.TagScore) []TagInfo {
	out := make([]TagInfo, 0, len(tags))
	for _, t := range tags {
		out = append(out, TagInfo(t))
	}
	return out
}

// TagVoteResponse is the state of a tag after a vote
type TagVoteResponse struct {
	Vote     int  `json:"vote"`
	NetScore int  `json:"net_score"`
	Removed  bool `json:"removed"`
}

// NewTagVoteResponse converts a vote result
func NewTagVoteResponse(r *service.TagVoteResult) TagVoteResponse {
	return TagVoteResponse{Vote: r.Vote, NetScore: r.NetScore, Removed: r.Removed}
}

// TagUsageInfo is a tag with the number of packages carrying it
type TagUsageInfo struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	UsageCount int64     `json:"usage_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewTagUsageInfos converts a tag listing
func NewTagUsageInfos(tags []repository.TagUsage) []TagUsageInfo {
	out := make([]TagUsageInfo, 0, len(tags))
	for _, t := range tags {
		out = append(out, TagUsageInfo(t))
	}
	return out
}

// BookmarkStatusResponse reports a package's bookmarks
type BookmarkStatusResponse struct {
	BookmarkCount int64 `json:"bookmark_count"`
	IsBookmarked  bool  `json:"is_bookmarked"`
}

// NewBookmarkStatusResponse converts a bookmark status
func NewBookmarkStatusResponse(s *service.BookmarkStatus) BookmarkStatusResponse {
	return BookmarkStatusResponse{BookmarkCount: s.Count, IsBookmarked: s.Bookmarked}
}

// NewPackageInfos converts a list of packages
func NewPackageInfos(packages []*models.Package) []PackageInfo {
	out := make([]PackageInfo, 0, len(packages))
	for _, p := range packages {
		out = append(out, NewPackageInfo(p))
	}
	return out
}
