package service

import (
	"context"
	"fmt"
	"time"

	"github.com/urban-fashion/sales-agent/internal/model"
	"github.com/urban-fashion/sales-agent/internal/repository"
)

const recentOrderCount = 10

// AnalyticsService aggregates order statistics for the dashboard.
type AnalyticsService struct {
	orders *repository.OrderRepository
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(orders *repository.OrderRepository) *AnalyticsService {
	return &AnalyticsService{orders: orders}
}

// Summary reports order counts and revenue for today (since UTC
// midnight), the last 7 days and the last 30 days, plus the most recent orders.
func (s *AnalyticsService) Summary(ctx context.Context, now time.Time) (*model.AnalyticsSummary, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	week := now.Add(-7 * 24 * time.Hour)
	month := now.Add(-30 * 24 * time.Hour)

	summary := &model.AnalyticsSummary{RecentOrders: []model.Order{}}
	for _, o := range orders {
		if !o.CreatedAt.Before(today) {
			summary.Today.Add(o)
		}
		if !o.CreatedAt.Before(week) {
			summary.Week.Add(o)
		}
		if !o.CreatedAt.Before(month) {
			summary.Month.Add(o)
		}
	}

	recent := orders
	if len(recent) > recentOrderCount {
		recent = recent[:recentOrderCount]
	}
	summary.RecentOrders = append(summary.RecentOrders, recent...)

	return summary, nil
}
