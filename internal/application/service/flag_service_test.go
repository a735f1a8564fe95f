package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/internal/domain/repository"
	"github.com/bravo68web/odinpkg/internal/testutil/memrepo"
	apperrors "github.com/bravo68web/odinpkg/pkg/errors"
)

func TestFlagLifecycle(t *testing.T) {
	store := memrepo.New()
	flags := NewFlagService(store.Flags(), store.Packages())
	ctx := context.Background()

	pkg := store.AddPackage(&models.Package{HostName: "github.com", OwnerName: "acme", RepoName: "widgets", OwnerID: uuid.New()})
	reporter := &models.User{ID: uuid.New(), Login: "carol"}
	moderator := &models.User{ID: uuid.New(), Login: "mod", IsModerator: true}

	if _, err := flags.CreateFlag(ctx, reporter, pkg.ID, "Because", ""); !apperrors.IsBadRequest(err) {
		t.Fatalf("expected bad request for unknown reason, got %v", err)
	}
	if _, err := flags.CreateFlag(ctx, reporter, pkg.ID, "Spam", strings.Repeat("x", MaxFlagDetails+1)); !apperrors.IsBadRequest(err) {
		t.Fatalf("expected bad request for long details, got %v", err)
	}
	if _, err := flags.CreateFlag(ctx, reporter, uuid.New(), "Spam", ""); !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found for unknown package, got %v", err)
	}

	flag, err := flags.CreateFlag(ctx, reporter, pkg.ID, "Spam", "  keyword stuffing  ")
	if err != nil {
		t.Fatalf("CreateFlag: %v", err)
	}
	if flag.Status != models.FlagPending || flag.Details != "keyword stuffing" {
		t.Fatalf("unexpected flag %+v", flag)
	}
	if _, err := flags.CreateFlag(ctx, reporter, pkg.ID, "Other", ""); !errors.Is(err, apperrors.ErrFlagExists) {
		t.Fatalf("expected duplicate pending flag to conflict, got %v", err)
	}

	if _, _, err := flags.ListFlags(ctx, reporter, repository.FlagFilter{}); !apperrors.IsForbidden(err) {
		t.Fatalf("expected forbidden for non-moderator, got %v", err)
	}
	listed, total, err := flags.ListFlags(ctx, moderator, repository.FlagFilter{Status: models.FlagPending, Limit: 10})
	if err != nil || total != 1 || len(listed) != 1 {
		t.Fatalf("ListFlags: %d %v %v", total, listed, err)
	}

	if _, err := flags.ResolveFlag(ctx, moderator, flag.ID, models.FlagPending, ""); !apperrors.IsBadRequest(err) {
		t.Fatalf("expected bad request for pending target, got %v", err)
	}
	resolved, err := flags.ResolveFlag(ctx, moderator, flag.ID, models.FlagDismissed, "not spam")
	if err != nil {
		t.Fatalf("ResolveFlag: %v", err)
	}
	if resolved.ResolvedBy == nil || *resolved.ResolvedBy != moderator.ID || resolved.ResolvedAt == nil {
		t.Fatalf("resolution not recorded: %+v", resolved)
	}
	if _, err := flags.ResolveFlag(ctx, moderator, flag.ID, models.FlagResolved, ""); !apperrors.IsConflict(err) {
		t.Fatalf("expected conflict for closed flag, got %v", err)
	}

	stats, err := flags.Stats(ctx, moderator)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats[models.FlagDismissed] != 1 || stats[models.FlagPending] != 0 {
		t.Fatalf("unexpected stats %v", stats)
	}

	// a closed flag no longer blocks a new report
	if _, err := flags.CreateFlag(ctx, reporter, pkg.ID, "Other", ""); err != nil {
		t.Fatalf("CreateFlag after dismissal: %v", err)
	}

	mine, err := flags.MyFlags(ctx, reporter)
	if err != nil || len(mine) != 2 {
		t.Fatalf("MyFlags: %v %v", mine, err)
	}
	if err := flags.DeleteFlag(ctx, moderator, flag.ID); !apperrors.IsForbidden(err) {
		t.Fatalf("expected forbidden delete, got %v", err)
	}
	if err := flags.DeleteFlag(ctx, reporter, flag.ID); err != nil {
		t.Fatalf("DeleteFlag: %v", err)
	}
}
