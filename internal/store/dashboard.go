package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

// DashboardStats holds the admin landing page aggregates.
type DashboardStats struct {
	TotalOrders    int64           `json:"totalOrders"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	TotalCustomers int64           `json:"totalCustomers"`
	TotalProducts  int64           `json:"totalProducts"`
	NewLeads       int64           `json:"newLeads"`
}

// GetDashboardStats computes the dashboard aggregates. Revenue excludes
// cancelled orders and is summed in Go over exact decimals, not by SQLite.
func GetDashboardStats(ctx context.Context, db *sql.DB) (*DashboardStats, error) {
	stats := &DashboardStats{}
	err := db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM customers WHERE is_active = 1),
			(SELECT COUNT(*) FROM products WHERE is_active = 1),
			(SELECT COUNT(*) FROM leads WHERE status = 'new')`,
	).Scan(&stats.TotalOrders, &stats.TotalCustomers,
		&stats.TotalProducts, &stats.NewLeads)
	if err != nil {
		return nil, fmt.Errorf("getting dashboard stats: %w", err)
	}

	aggs, err := orderAggregates(ctx, db)
	if err != nil {
		return nil, err
	}
	revenue := decimal.Zero
	for _, agg := range aggs {
		revenue = revenue.Add(agg.total)
	}
	stats.TotalRevenue = revenue

	return stats, nil
}
