package dashboard

import (
	"context"
	"fmt"
	"time"

	"policfy-be/internal/dto"
	"policfy-be/internal/entity"
	"policfy-be/internal/pkg/logger"
	"policfy-be/internal/repository/specification"
	"policfy-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	recentActivityLimit = 4
	activityMonths      = 6
)

// Aggregator builds the dashboard cards from repository counts.
type Aggregator struct {
	logger logger.ILogger
	now    func() time.Time
}

func NewAggregator(logger logger.ILogger) *Aggregator {
	return &Aggregator{
		logger: logger,
		now:    time.Now,
	}
}

// GetUserStats returns the four cards on a user's dashboard. "Active
// Policies" counts every policy in the catalog, not only the user's.
func (a *Aggregator) GetUserStats(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) ([]dto.StatCard, error) {
	var policyCount, applied, approved, pending int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		policyCount, err = uow.PolicyRepository().Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		applied, err = uow.ApplicationRepository().Count(gctx, specification.UserOwnedBy{UserID: userId})
		return err
	})
	g.Go(func() (err error) {
		approved, err = uow.ApplicationRepository().Count(gctx,
			specification.UserOwnedBy{UserID: userId},
			specification.ByStatus{Status: string(entity.ApplicationStatusApproved)},
		)
		return err
	})
	g.Go(func() (err error) {
		pending, err = uow.ApplicationRepository().Count(gctx,
			specification.UserOwnedBy{UserID: userId},
			specification.ByStatus{Status: string(entity.ApplicationStatusPending)},
		)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return []dto.StatCard{
		{Title: "Active Policies", Value: policyCount, IconType: "DescriptionRounded", Color: "#2196F3", BorderColor: "#2196F3"},
		{Title: "Policies Applied", Value: applied, IconType: "AssignmentRounded", Color: "#9C27B0", BorderColor: "#9C27B0"},
		{Title: "Approved Applications", Value: approved, IconType: "CheckCircleRounded", Color: "#4CAF50", BorderColor: "#4CAF50"},
		{Title: "Pending Applications", Value: pending, IconType: "AccessTimeRounded", Color: "#EF5350", BorderColor: "#EF5350"},
	}, nil
}

// GetAdminStats retrieves the admin dashboard: totals, the latest
// applications and a six month activity trend.
func (a *Aggregator) GetAdminStats(ctx context.Context, uow unitofwork.UnitOfWork) (*dto.AdminDashboardStats, error) {
	var (
		totalUsers, totalPolicies, activePolicies, pendingApps int64
		recent                                                 []dto.RecentActivity
		activity                                               []dto.ActivityPoint
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totalUsers, err = uow.UserRepository().Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		totalPolicies, err = uow.PolicyRepository().Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		activePolicies, err = uow.PolicyRepository().Count(gctx, specification.ActivePolicies{})
		return err
	})
	g.Go(func() (err error) {
		pendingApps, err = uow.ApplicationRepository().Count(gctx,
			specification.ByStatus{Status: string(entity.ApplicationStatusPending)},
		)
		return err
	})
	g.Go(func() (err error) {
		recent, err = a.recentActivity(gctx, uow)
		return err
	})
	g.Go(func() (err error) {
		activity, err = a.activityTrend(gctx, uow)
		return err
	})
	if err := g.Wait(); err != nil {
		a.logger.Error("DASHBOARD", "Failed to aggregate admin stats", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	return &dto.AdminDashboardStats{
		Stats: []dto.AdminStat{
			{Label: "Total Users", Value: totalUsers, IconType: "GroupRounded", Color: "#5B86E5"},
			{Label: "Total Policies", Value: totalPolicies, IconType: "DescriptionRounded", Color: "#be1adb"},
			{Label: "Active Policies", Value: activePolicies, IconType: "CheckCircleRounded", Color: "#00ff6a"},
			{Label: "Pending Apps", Value: pendingApps, IconType: "AccessTimeRounded", Color: "#ef5350"},
		},
		RecentActivity: recent,
		ActivityData:   activity,
	}, nil
}

func (a *Aggregator) recentActivity(ctx context.Context, uow unitofwork.UnitOfWork) ([]dto.RecentActivity, error) {
	apps, err := uow.ApplicationRepository().FindRecent(ctx, recentActivityLimit)
	if err != nil {
		return nil, err
	}

	titles := make(map[uuid.UUID]string)
	if len(apps) > 0 {
		ids := make([]uuid.UUID, 0, len(apps))
		for _, app := range apps {
			ids = append(ids, app.PolicyId)
		}
		policies, err := uow.PolicyRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
		if err != nil {
			return nil, err
		}
		for _, p := range policies {
			titles[p.Id] = p.Title
		}
	}

	res := make([]dto.RecentActivity, 0, len(apps))
	for _, app := range apps {
		title, ok := titles[app.PolicyId]
		if !ok || title == "" {
			title = "Policy"
		}
		res = append(res, dto.RecentActivity{
			Title:    fmt.Sprintf("New application for %s", title),
			Time:     app.CreatedAt.Format("1/2/2006"),
			Color:    "#be1adb",
			IconType: "NotificationsRounded",
		})
	}
	return res, nil
}

// activityTrend counts applications per calendar month for the current month
// and the five before it. Months without applications report zero.
func (a *Aggregator) activityTrend(ctx context.Context, uow unitofwork.UnitOfWork) ([]dto.ActivityPoint, error) {
	now := a.now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	since := firstOfMonth.AddDate(0, -(activityMonths - 1), 0)

	counts, err := uow.ApplicationRepository().CountByMonth(ctx, since)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[int]int64, len(counts))
	for _, c := range counts {
		byMonth[c.Year*12+int(c.Month)] += c.Count
	}

	points := make([]dto.ActivityPoint, 0, activityMonths)
	for i := 0; i < activityMonths; i++ {
		month := since.AddDate(0, i, 0)
		points = append(points, dto.ActivityPoint{
			Label: month.Format("Jan"),
			Value: byMonth[month.Year()*12+int(month.Month())],
		})
	}
	return points, nil
}
