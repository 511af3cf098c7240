package analytics

import (
	"time"

	"github.com/avatarctic/realestate-crm/internal/core/domain/customer"
)

// MonthLabelLayout formats month keys such as "May 2025".
const MonthLabelLayout = "Jan 2006"

// MonthsInTrend is the number of calendar months covered by trend series.
const MonthsInTrend = 6

type RecentActivity struct {
	ID           int64         `json:"id" db:"id"`
	Date         customer.Date `json:"date" db:"date"`
	Type         string        `json:"type" db:"type"`
	Description  string        `json:"description" db:"description"`
	CustomerName string        `json:"customer_name" db:"customer_name"`
	UserName     string        `json:"user_name" db:"user_name"`
}

type DashboardData struct {
	TotalCustomers        int              `json:"total_customers"`
	NewCustomersThisMonth int              `json:"new_customers_this_month"`
	ActiveCustomers       int              `json:"active_customers"`
	ClosedDealsThisMonth  int              `json:"closed_deals_this_month"`
	RevenueThisMonth      float64          `json:"revenue_this_month"`
	RecentActivities      []RecentActivity `json:"recent_activities"`
	StatusDistribution    map[string]int   `json:"status_distribution"`
	MonthlyAcquisition    map[string]int   `json:"monthly_acquisition"`
}

type StatusData struct {
	StatusCounts         map[string]int            `json:"status_counts"`
	StatusByPropertyType map[string]map[string]int `json:"status_by_property_type"`
	StatusBySource       map[string]map[string]int `json:"status_by_source"`
	StatusTimeline       map[string][]int          `json:"status_timeline"`
	ConversionRates      map[string]float64        `json:"conversion_rates"`
}

type SalesRepData struct {
	RepID              int64   `json:"rep_id"`
	RepName            string  `json:"rep_name"`
	TotalCustomers     int     `json:"total_customers"`
	ActiveCustomers    int     `json:"active_customers"`
	ClosedDeals        int     `json:"closed_deals"`
	ConversionRate     float64 `json:"conversion_rate"`
	AverageTimeToClose *int    `json:"average_time_to_close"`
	RevenueGenerated   float64 `json:"revenue_generated"`
}

type MonthPerformance struct {
	NewCustomers int     `json:"new_customers"`
	ClosedDeals  int     `json:"closed_deals"`
	Revenue      float64 `json:"revenue"`
}

type SalesPerformanceData struct {
	TotalCustomers        int                         `json:"total_customers"`
	TotalClosedDeals      int                         `json:"total_closed_deals"`
	OverallConversionRate float64                     `json:"overall_conversion_rate"`
	SalesReps             []SalesRepData              `json:"sales_reps"`
	TopPerformers         []SalesRepData              `json:"top_performers"`
	PerformanceByMonth    map[string]MonthPerformance `json:"performance_by_month"`
}

// Scope restricts aggregates to one assignee; nil AssignedTo covers the whole company.
type Scope struct {
	AssignedTo *int64
}

// CustomerSummary holds headline counts for a scope.
type CustomerSummary struct {
	Total                int `db:"total"`
	NewThisMonth         int `db:"new_this_month"`
	Active               int `db:"active"`
	ClosedDealsThisMonth int `db:"closed_this_month"`
}

// StatusGroup is one (status, property_type, source) bucket.
type StatusGroup struct {
	Status       string `db:"status"`
	PropertyType string `db:"property_type"`
	Source       string `db:"source"`
	Count        int    `db:"count"`
}

// MonthlyCount is a per-month, per-status customer count keyed by creation month.
type MonthlyCount struct {
	Month  time.Time `db:"month"`
	Status string    `db:"status"`
	Count  int       `db:"count"`
}

// MonthlyAmount is a per-month sum or count used by the sales trend.
type MonthlyAmount struct {
	Month time.Time `db:"month"`
	Value float64   `db:"value"`
}

// RepStats is the raw per-member rollup behind SalesRepData.
type RepStats struct {
	RepID          int64   `db:"rep_id"`
	RepName        string  `db:"rep_name"`
	TotalCustomers int     `db:"total_customers"`
	Active         int     `db:"active_customers"`
	ClosedDeals    int     `db:"closed_deals"`
	TotalCloseDays int     `db:"total_close_days"`
	Revenue        float64 `db:"revenue"`
}
