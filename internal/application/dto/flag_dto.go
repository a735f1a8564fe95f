package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/bravo68web/odinpkg/internal/domain/models"
)

// CreateFlagRequest reports a package
type CreateFlagRequest struct {
	Reason  string `json:"reason"`
	Details string `json:"details"`
}

// ResolveFlagRequest closes a flag
type ResolveFlagRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

// FlagInfo represents a flag in responses
type FlagInfo struct {
	ID             uuid.UUID  `json:"id"`
	PackageID      uuid.UUID  `json:"package_id"`
	Package        string     `json:"package,omitempty"`
	ReporterID     uuid.UUID  `json:"reporter_id"`
	Reporter       string     `json:"reporter,omitempty"`
	Reason         string     `json:"reason"`
	Details        string     `json:"details,omitempty"`
	Status         string     `json:"status"`
	ResolvedBy     *uuid.UUID `json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	ResolutionNote string     `json:"resolution_note,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// NewFlagInfo converts a flag model
func NewFlagInfo(f *models.Flag) FlagInfo {
	info := FlagInfo{
		ID:             f.ID,
		PackageID:      f.PackageID,
		ReporterID:     f.ReporterID,
		Reason:         f.Reason,
		Details:        f.Details,
		Status:         string(f.Status),
		ResolvedBy:     f.ResolvedBy,
		ResolvedAt:     f.ResolvedAt,
		ResolutionNote: f.ResolutionNote,
		CreatedAt:      f.CreatedAt,
	}
	if f.Package != nil {
		info.Package = f.Package.FullName()
	}
	if f.Reporter != nil {
		info.Reporter = f.Reporter.Login
	}
	return info
}

// NewFlagInfos converts a list of flags
func NewFlagInfos(flags []*models.Flag) []FlagInfo {
	out := make([]FlagInfo, 0, len(flags))
	for _, f := range flags {
		out = append(out, NewFlagInfo(f))
	}
	return out
}

// ListFlagsResponse is a page of flags
type ListFlagsResponse struct {
	Flags []FlagInfo `json:"flags"`
	Total int64      `json:"total"`
}
