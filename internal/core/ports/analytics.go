package ports

import (
	"context"
	"time"

	"github.com/avatarctic/realestate-crm/internal/core/domain/analytics"
	"github.com/avatarctic/realestate-crm/internal/core/domain/user"
)

// AnalyticsRepository exposes the grouped queries behind the analytics views.
type AnalyticsRepository interface {
	CustomerSummary(ctx context.Context, scope analytics.Scope, monthStart time.Time) (*analytics.CustomerSummary, error)
	PaidRevenue(ctx context.Context, scope analytics.Scope, from time.Time) (float64, error)
	RecentActivities(ctx context.Context, scope analytics.Scope, limit int) ([]analytics.RecentActivity, error)
	StatusGroups(ctx context.Context, scope analytics.Scope) ([]analytics.StatusGroup, error)
	MonthlyCustomers(ctx context.Context, scope analytics.Scope, from time.Time) ([]analytics.MonthlyCount, error)
	MonthlyClosedDeals(ctx context.Context, from time.Time) ([]analytics.MonthlyAmount, error)
	MonthlyRevenue(ctx context.Context, from time.Time) ([]analytics.MonthlyAmount, error)
	RepStats(ctx context.Context) ([]analytics.RepStats, error)
}

type AnalyticsService interface {
	Dashboard(ctx context.Context, actor *user.User) (*analytics.DashboardData, error)
	Status(ctx context.Context, actor *user.User) (*analytics.StatusData, error)
	SalesPerformance(ctx context.Context) (*analytics.SalesPerformanceData, error)
}
