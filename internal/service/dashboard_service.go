package service

import (
	"context"
	"time"

	"github.com/unosuke/postpilot/internal/models"
	"github.com/unosuke/postpilot/internal/repository"
	"github.com/unosuke/postpilot/internal/transfer"
)

type DashboardService interface {
	Summary(ctx context.Context) (*transfer.DashboardSummary, error)
}

type dashboardService struct {
	ar repository.AccountRepository
	pr repository.PostRepository
	ir repository.InboundRepository
}

func NewDashboardService(ar repository.AccountRepository, pr repository.PostRepository, ir repository.InboundRepository) DashboardService {
	return &dashboardService{ar: ar, pr: pr, ir: ir}
}

func (s *dashboardService) Summary(ctx context.Context) (*transfer.DashboardSummary, error) {
	summary := transfer.DashboardSummary{}
	var err error

	if summary.Accounts, err = s.ar.CountAll(ctx); err != nil {
		return nil, err
	}
	if summary.ActiveAccounts, err = s.ar.CountActive(ctx); err != nil {
		return nil, err
	}
	if summary.PendingPosts, err = s.pr.CountByStatus(ctx, models.PostStatusPending); err != nil {
		return nil, err
	}
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if summary.PendingToday, err = s.pr.CountPendingSince(ctx, startOfDay); err != nil {
		return nil, err
	}
	if summary.PostedPosts, err = s.pr.CountByStatus(ctx, models.PostStatusPosted); err != nil {
		return nil, err
	}
	if summary.FailedPosts, err = s.pr.CountByStatus(ctx, models.PostStatusFailed); err != nil {
		return nil, err
	}
	if summary.UnrepliedComments, err = s.ir.CountUnreplied(ctx, models.InboundKindComment); err != nil {
		return nil, err
	}
	if summary.UnrepliedDMs, err = s.ir.CountUnreplied(ctx, models.InboundKindDM); err != nil {
		return nil, err
	}

	return &summary, nil
}
