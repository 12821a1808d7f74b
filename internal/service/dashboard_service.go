package service

import (
	"context"
	"fmt"
	"maps"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"it-inventory/internal/domain"
)

const (
	topVendorLimit     = 5
	recentActivitySize = 20
	statsTimeout       = 30 * time.Second
)

// Summary 聊天提示词用的库存摘要
type Summary struct {
	TotalHardware    int64
	ByStatus         []domain.StatusCount
	TotalLicenses    int64
	LicensesIn30Days int64
	OpenMaintenances int64
	TopVendors       []domain.VendorRank
}

type DashboardService struct {
	stats domain.StatsRepository
	audit domain.AuditRepository
	now   func() time.Time
	sf    singleflight.Group
}

func NewDashboardService(stats domain.StatsRepository, audit domain.AuditRepository) *DashboardService {
	return &DashboardService{stats: stats, audit: audit, now: time.Now}
}

// WithClock 测试用
func (s *DashboardService) WithClock(now func() time.Time) *DashboardService {
	s.now = now
	return s
}

// GetStats 各子查询并发执行，任一失败则整体失败；并发调用合并为一次计算。
// 共享计算不受单个调用方取消影响，每个调用方只等待自己的 ctx。
func (s *DashboardService) GetStats(ctx context.Context) (*domain.DashboardStats, error) {
	ch := s.sf.DoChan("stats", func() (any, error) {
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statsTimeout)
		defer cancel()
		return s.computeStats(cctx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		st := *r.Val.(*domain.DashboardStats)
		st.AssetsByStatus = maps.Clone(st.AssetsByStatus)
		return &st, nil
	}
}

func (s *DashboardService) computeStats(ctx context.Context) (*domain.DashboardStats, error) {
	now := s.now().UTC()
	var (
		out      domain.DashboardStats
		byStatus []domain.StatusCount
	)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		out.TotalAssets, err = s.stats.CountHardware(ctx)
		return wrap("count hardware", err)
	})
	g.Go(func() (err error) {
		byStatus, err = s.stats.HardwareByStatus(ctx)
		return wrap("hardware by status", err)
	})
	g.Go(func() (err error) {
		out.ItemsInMaintenance, err = s.stats.CountMaintenances(ctx, domain.OpenMaintenanceStatuses...)
		return wrap("open maintenances", err)
	})
	g.Go(func() (err error) {
		out.LicensesExpiring.In30Days, err = s.stats.CountLicensesExpiring(ctx, now, now.AddDate(0, 0, 30))
		return wrap("licenses in 30 days", err)
	})
	g.Go(func() (err error) {
		out.LicensesExpiring.In60Days, err = s.stats.CountLicensesExpiring(ctx, now, now.AddDate(0, 0, 60))
		return wrap("licenses in 60 days", err)
	})
	g.Go(func() (err error) {
		out.LicensesExpiring.In90Days, err = s.stats.CountLicensesExpiring(ctx, now, now.AddDate(0, 0, 90))
		return wrap("licenses in 90 days", err)
	})
	g.Go(func() (err error) {
		out.TopVendors, err = s.stats.TopVendors(ctx, topVendorLimit)
		return wrap("top vendors", err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	out.AssetsByStatus = make(map[string]int64, len(domain.HardwareStatuses))
	for _, st := range domain.HardwareStatuses {
		out.AssetsByStatus[st] = 0
	}
	for _, sc := range byStatus {
		out.AssetsByStatus[sc.Status] = sc.Count
	}
	if out.TopVendors == nil {
		out.TopVendors = []domain.VendorRank{}
	}
	return &out, nil
}

// Summary 同样并发查询，供聊天使用
func (s *DashboardService) Summary(ctx context.Context) (*Summary, error) {
	now := s.now().UTC()
	var out Summary
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		out.TotalHardware, err = s.stats.CountHardware(ctx)
		return wrap("count hardware", err)
	})
	g.Go(func() (err error) {
		out.ByStatus, err = s.stats.HardwareByStatus(ctx)
		return wrap("hardware by status", err)
	})
	g.Go(func() (err error) {
		out.TotalLicenses, err = s.stats.CountLicenses(ctx)
		return wrap("count licenses", err)
	})
	g.Go(func() (err error) {
		out.LicensesIn30Days, err = s.stats.CountLicensesExpiring(ctx, now, now.AddDate(0, 0, 30))
		return wrap("licenses in 30 days", err)
	})
	g.Go(func() (err error) {
		out.OpenMaintenances, err = s.stats.CountMaintenances(ctx, domain.OpenMaintenanceStatuses...)
		return wrap("open maintenances", err)
	})
	g.Go(func() (err error) {
		out.TopVendors, err = s.stats.TopVendors(ctx, topVendorLimit)
		return wrap("top vendors", err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecentActivity 最近 20 条审计记录
func (s *DashboardService) RecentActivity(ctx context.Context) ([]domain.AuditLog, error) {
	logs, err := s.audit.Recent(ctx, recentActivitySize)
	if err != nil {
		return nil, fmt.Errorf("recent audit logs: %w", err)
	}
	if logs == nil {
		logs = []domain.AuditLog{}
	}
	return logs, nil
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}
