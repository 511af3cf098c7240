package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/avatarctic/realestate-crm/internal/core/domain/analytics"
	"github.com/avatarctic/realestate-crm/internal/core/ports"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/db"
	"github.com/sirupsen/logrus"
)

// AnalyticsRepository runs the grouped reporting queries. A nil scope
// assignee is passed as NULL so one statement serves both owners and members.
type AnalyticsRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewAnalyticsRepository(database *db.Database, logger *logrus.Logger) ports.AnalyticsRepository {
	return &AnalyticsRepository{db: database, logger: logger}
}

func (r *AnalyticsRepository) fail(op string, err error) error {
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"query": op}).WithError(err).Error("db: analytics query failed")
	}
	return fmt.Errorf("failed to load %s: %w", op, err)
}

func (r *AnalyticsRepository) CustomerSummary(ctx context.Context, scope analytics.Scope, monthStart time.Time) (*analytics.CustomerSummary, error) {
	var s analytics.CustomerSummary
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE created_at >= $2) AS new_this_month,
			COUNT(*) FILTER (WHERE status NOT IN ('closed', 'lost')) AS active,
			COUNT(*) FILTER (WHERE status = 'closed' AND updated_at >= $2) AS closed_this_month
		FROM customers
		WHERE ($1::BIGINT IS NULL OR assigned_to = $1)`
	if err := r.db.DB.GetContext(ctx, &s, query, scope.AssignedTo, monthStart); err != nil {
		return nil, r.fail("customer summary", err)
	}
	return &s, nil
}

func (r *AnalyticsRepository) PaidRevenue(ctx context.Context, scope analytics.Scope, from time.Time) (float64, error) {
	var total float64
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM billing
		WHERE status = 'paid' AND paid_date >= $2
			AND ($1::BIGINT IS NULL OR user_id = $1)`
	if err := r.db.DB.GetContext(ctx, &total, query, scope.AssignedTo, from); err != nil {
		return 0, r.fail("paid revenue", err)
	}
	return total, nil
}

func (r *AnalyticsRepository) RecentActivities(ctx context.Context, scope analytics.Scope, limit int) ([]analytics.RecentActivity, error) {
	rows := []analytics.RecentActivity{}
	query := `
		SELECT a.id, a.date, a.type, a.description,
			COALESCE(c.name, 'Unknown') AS customer_name,
			COALESCE(u.username, 'Unknown') AS user_name
		FROM activities a
		LEFT JOIN customers c ON c.id = a.customer_id
		LEFT JOIN users u ON u.id = a.created_by
		WHERE ($1::BIGINT IS NULL OR c.assigned_to = $1)
		ORDER BY a.date DESC, a.id DESC
		LIMIT $2`
	if err := r.db.DB.SelectContext(ctx, &rows, query, scope.AssignedTo, limit); err != nil {
		return nil, r.fail("recent activities", err)
	}
	return rows, nil
}

func (r *AnalyticsRepository) StatusGroups(ctx context.Context, scope analytics.Scope) ([]analytics.StatusGroup, error) {
	rows := []analytics.StatusGroup{}
	query := `
		SELECT status,
			COALESCE(NULLIF(property_type, ''), 'Unknown') AS property_type,
			COALESCE(NULLIF(source, ''), 'Unknown') AS source,
			COUNT(*) AS count
		FROM customers
		WHERE ($1::BIGINT IS NULL OR assigned_to = $1)
		GROUP BY 1, 2, 3`
	if err := r.db.DB.SelectContext(ctx, &rows, query, scope.AssignedTo); err != nil {
		return nil, r.fail("status groups", err)
	}
	return rows, nil
}

func (r *AnalyticsRepository) MonthlyCustomers(ctx context.Context, scope analytics.Scope, from time.Time) ([]analytics.MonthlyCount, error) {
	rows := []analytics.MonthlyCount{}
	query := `
		SELECT date_trunc('month', created_at AT TIME ZONE 'UTC') AS month, status, COUNT(*) AS count
		FROM customers
		WHERE created_at >= $2 AND ($1::BIGINT IS NULL OR assigned_to = $1)
		GROUP BY 1, 2`
	if err := r.db.DB.SelectContext(ctx, &rows, query, scope.AssignedTo, from); err != nil {
		return nil, r.fail("monthly customers", err)
	}
	return rows, nil
}

func (r *AnalyticsRepository) MonthlyClosedDeals(ctx context.Context, from time.Time) ([]analytics.MonthlyAmount, error) {
	rows := []analytics.MonthlyAmount{}
	query := `
		SELECT date_trunc('month', updated_at AT TIME ZONE 'UTC') AS month, COUNT(*)::DOUBLE PRECISION AS value
		FROM customers
		WHERE status = 'closed' AND updated_at >= $1
		GROUP BY 1`
	if err := r.db.DB.SelectContext(ctx, &rows, query, from); err != nil {
		return nil, r.fail("monthly closed deals", err)
	}
	return rows, nil
}

func (r *AnalyticsRepository) MonthlyRevenue(ctx context.Context, from time.Time) ([]analytics.MonthlyAmount, error) {
	rows := []analytics.MonthlyAmount{}
	query := `
		SELECT date_trunc('month', paid_date::TIMESTAMP) AS month, COALESCE(SUM(amount), 0) AS value
		FROM billing
		WHERE status = 'paid' AND paid_date >= $1
		GROUP BY 1`
	if err := r.db.DB.SelectContext(ctx, &rows, query, from); err != nil {
		return nil, r.fail("monthly revenue", err)
	}
	return rows, nil
}

// RepStats rolls up customers and paid billing for every member.
func (r *AnalyticsRepository) RepStats(ctx context.Context) ([]analytics.RepStats, error) {
	rows := []analytics.RepStats{}
	query := `
		SELECT u.id AS rep_id, u.username AS rep_name,
			COALESCE(c.total, 0) AS total_customers,
			COALESCE(c.active, 0) AS active_customers,
			COALESCE(c.closed, 0) AS closed_deals,
			COALESCE(c.close_days, 0) AS total_close_days,
			COALESCE(b.revenue, 0) AS revenue
		FROM users u
		LEFT JOIN (
			SELECT assigned_to,
				COUNT(*) AS total,
				COUNT(*) FILTER (WHERE status NOT IN ('closed', 'lost')) AS active,
				COUNT(*) FILTER (WHERE status = 'closed') AS closed,
				SUM(CASE WHEN status = 'closed' THEN updated_at::DATE - created_at::DATE ELSE 0 END) AS close_days
			FROM customers
			GROUP BY assigned_to
		) c ON c.assigned_to = u.id
		LEFT JOIN (
			SELECT user_id, SUM(amount) AS revenue
			FROM billing
			WHERE status = 'paid'
			GROUP BY user_id
		) b ON b.user_id = u.id
		WHERE u.role = 'member'
		ORDER BY u.id`
	if err := r.db.DB.SelectContext(ctx, &rows, query); err != nil {
		return nil, r.fail("sales rep stats", err)
	}
	return rows, nil
}
