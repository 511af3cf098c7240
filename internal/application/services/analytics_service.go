package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/avatarctic/realestate-crm/internal/core/domain/analytics"
	"github.com/avatarctic/realestate-crm/internal/core/domain/customer"
	"github.com/avatarctic/realestate-crm/internal/core/domain/user"
	"github.com/avatarctic/realestate-crm/internal/core/ports"
	"github.com/sirupsen/logrus"
)

const (
	recentActivityLimit = 10
	topPerformerCount   = 3
)

type AnalyticsService struct {
	repo   ports.AnalyticsRepository
	now    func() time.Time
	logger *logrus.Logger
}

// NewAnalyticsService builds the analytics rollups; a nil clock means time.Now.
func NewAnalyticsService(repo ports.AnalyticsRepository, clock func() time.Time, logger *logrus.Logger) ports.AnalyticsService {
	if clock == nil {
		clock = time.Now
	}
	return &AnalyticsService{repo: repo, now: clock, logger: logger}
}

func scopeFor(actor *user.User) analytics.Scope {
	if actor.IsOwner() {
		return analytics.Scope{}
	}
	id := actor.ID
	return analytics.Scope{AssignedTo: &id}
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// trendMonths returns the first day of each month in the trend, oldest first,
// ending with the current month.
func trendMonths(now time.Time) []time.Time {
	current := monthStart(now.UTC())
	months := make([]time.Time, analytics.MonthsInTrend)
	for i := range months {
		months[i] = current.AddDate(0, i-(analytics.MonthsInTrend-1), 0)
	}
	return months
}

func monthLabel(t time.Time) string {
	return t.Format(analytics.MonthLabelLayout)
}

func percent(part, total int) float64 {
	if total == 0 {
		total = 1
	}
	return math.Round(float64(part)/float64(total)*100*100) / 100
}

func (s *AnalyticsService) Dashboard(ctx context.Context, actor *user.User) (*analytics.DashboardData, error) {
	scope := scopeFor(actor)
	now := s.now()
	start := monthStart(now.UTC())
	months := trendMonths(now)

	summary, err := s.repo.CustomerSummary(ctx, scope, start)
	if err != nil {
		return nil, err
	}
	revenue, err := s.repo.PaidRevenue(ctx, scope, start)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.RecentActivities(ctx, scope, recentActivityLimit)
	if err != nil {
		return nil, err
	}
	groups, err := s.repo.StatusGroups(ctx, scope)
	if err != nil {
		return nil, err
	}
	monthly, err := s.repo.MonthlyCustomers(ctx, scope, months[0])
	if err != nil {
		return nil, err
	}

	acquisition := make(map[string]int, len(months))
	for _, m := range months {
		acquisition[monthLabel(m)] = 0
	}
	for _, row := range monthly {
		label := monthLabel(monthStart(row.Month))
		if _, ok := acquisition[label]; ok {
			acquisition[label] += row.Count
		}
	}
	if recent == nil {
		recent = []analytics.RecentActivity{}
	}

	return &analytics.DashboardData{
		TotalCustomers:        summary.Total,
		NewCustomersThisMonth: summary.NewThisMonth,
		ActiveCustomers:       summary.Active,
		ClosedDealsThisMonth:  summary.ClosedDealsThisMonth,
		RevenueThisMonth:      revenue,
		RecentActivities:      recent,
		StatusDistribution:    statusCounts(groups),
		MonthlyAcquisition:    acquisition,
	}, nil
}

func statusCounts(groups []analytics.StatusGroup) map[string]int {
	counts := make(map[string]int)
	for _, g := range groups {
		counts[g.Status] += g.Count
	}
	return counts
}

func (s *AnalyticsService) Status(ctx context.Context, actor *user.User) (*analytics.StatusData, error) {
	scope := scopeFor(actor)
	months := trendMonths(s.now())

	groups, err := s.repo.StatusGroups(ctx, scope)
	if err != nil {
		return nil, err
	}
	monthly, err := s.repo.MonthlyCustomers(ctx, scope, months[0])
	if err != nil {
		return nil, err
	}

	counts := statusCounts(groups)
	byProperty := make(map[string]map[string]int)
	bySource := make(map[string]map[string]int)
	total := 0
	for _, g := range groups {
		total += g.Count
		if byProperty[g.Status] == nil {
			byProperty[g.Status] = make(map[string]int)
		}
		byProperty[g.Status][g.PropertyType] += g.Count
		if bySource[g.Status] == nil {
			bySource[g.Status] = make(map[string]int)
		}
		bySource[g.Status][g.Source] += g.Count
	}

	index := make(map[time.Time]int, len(months))
	for i, m := range months {
		index[m] = i
	}
	timeline := make(map[string][]int, len(counts))
	for status := range counts {
		timeline[status] = make([]int, len(months))
	}
	for _, row := range monthly {
		i, ok := index[monthStart(row.Month)]
		if !ok {
			continue
		}
		if series, ok := timeline[row.Status]; ok {
			series[i] += row.Count
		}
	}

	rates := make(map[string]float64, len(counts))
	for status, n := range counts {
		rates[status] = percent(n, total)
	}

	return &analytics.StatusData{
		StatusCounts:         counts,
		StatusByPropertyType: byProperty,
		StatusBySource:       bySource,
		StatusTimeline:       timeline,
		ConversionRates:      rates,
	}, nil
}

func (s *AnalyticsService) SalesPerformance(ctx context.Context) (*analytics.SalesPerformanceData, error) {
	months := trendMonths(s.now())
	from := months[0]

	groups, err := s.repo.StatusGroups(ctx, analytics.Scope{})
	if err != nil {
		return nil, err
	}
	reps, err := s.repo.RepStats(ctx)
	if err != nil {
		return nil, err
	}
	newByMonth, err := s.repo.MonthlyCustomers(ctx, analytics.Scope{}, from)
	if err != nil {
		return nil, err
	}
	closedByMonth, err := s.repo.MonthlyClosedDeals(ctx, from)
	if err != nil {
		return nil, err
	}
	revenueByMonth, err := s.repo.MonthlyRevenue(ctx, from)
	if err != nil {
		return nil, err
	}

	totalCustomers, totalClosed := 0, 0
	for _, g := range groups {
		totalCustomers += g.Count
		if g.Status == string(customer.StatusClosed) {
			totalClosed += g.Count
		}
	}

	repData := make([]analytics.SalesRepData, 0, len(reps))
	for _, r := range reps {
		d := analytics.SalesRepData{
			RepID:            r.RepID,
			RepName:          r.RepName,
			TotalCustomers:   r.TotalCustomers,
			ActiveCustomers:  r.Active,
			ClosedDeals:      r.ClosedDeals,
			ConversionRate:   percent(r.ClosedDeals, r.TotalCustomers),
			RevenueGenerated: r.Revenue,
		}
		if r.ClosedDeals > 0 {
			avg := r.TotalCloseDays / r.ClosedDeals
			d.AverageTimeToClose = &avg
		}
		repData = append(repData, d)
	}

	top := append([]analytics.SalesRepData(nil), repData...)
	sort.SliceStable(top, func(i, j int) bool { return top[i].ClosedDeals > top[j].ClosedDeals })
	if len(top) > topPerformerCount {
		top = top[:topPerformerCount]
	}

	perf := make(map[string]analytics.MonthPerformance, len(months))
	for _, m := range months {
		perf[monthLabel(m)] = analytics.MonthPerformance{}
	}
	for _, row := range newByMonth {
		label := monthLabel(monthStart(row.Month))
		if p, ok := perf[label]; ok {
			p.NewCustomers += row.Count
			perf[label] = p
		}
	}
	for _, row := range closedByMonth {
		label := monthLabel(monthStart(row.Month))
		if p, ok := perf[label]; ok {
			p.ClosedDeals += int(row.Value)
			perf[label] = p
		}
	}
	for _, row := range revenueByMonth {
		label := monthLabel(monthStart(row.Month))
		if p, ok := perf[label]; ok {
			p.Revenue += row.Value
			perf[label] = p
		}
	}

	return &analytics.SalesPerformanceData{
		TotalCustomers:        totalCustomers,
		TotalClosedDeals:      totalClosed,
		OverallConversionRate: percent(totalClosed, totalCustomers),
		SalesReps:             repData,
		TopPerformers:         top,
		PerformanceByMonth:    perf,
	}, nil
}
