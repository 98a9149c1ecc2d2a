package service

import (
	"context"

	"policfy-be/internal/dto"
	"policfy-be/internal/entity"
	"policfy-be/internal/repository/unitofwork"
	"policfy-be/pkg/dashboard"
)

type IDashboardService interface {
	UserStats(ctx context.Context, caller entity.Caller) ([]dto.StatCard, error)
	AdminStats(ctx context.Context, caller entity.Caller) (*dto.AdminDashboardStats, error)
}

type dashboardService struct {
	uowFactory unitofwork.RepositoryFactory
	aggregator *dashboard.Aggregator
}

func NewDashboardService(uowFactory unitofwork.RepositoryFactory, aggregator *dashboard.Aggregator) IDashboardService {
	return &dashboardService{
		uowFactory: uowFactory,
		aggregator: aggregator,
	}
}

func (s *dashboardService) UserStats(ctx context.Context, caller entity.Caller) ([]dto.StatCard, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.aggregator.GetUserStats(ctx, uow, caller.UserId)
}

func (s *dashboardService) AdminStats(ctx context.Context, caller entity.Caller) (*dto.AdminDashboardStats, error) {
	if !caller.IsAdmin() {
		return nil, errAdminsOnly
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.aggregator.GetAdminStats(ctx, uow)
}
