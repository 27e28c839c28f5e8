package app

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/litovianka/bike-service/internal/domain/orders"
	"github.com/litovianka/bike-service/internal/pkg/logger"
)

const (
	dashboardVersionKey  = "service:dashboard:version"
	dashboardStatsPrefix = "service:dashboard:stats"
)

// dashboardService implements the DashboardService interface. Counters are
// cached under a versioned key: mutations bump the version instead of
// deleting entries, so a recompute happens on the next read and stale entries
// simply age out.
type dashboardService struct {
	statsRepo orders.StatsRepository
	cache     *gocache.Cache
	ttl       time.Duration
	logger    logger.Logger
}

// NewDashboardService creates a new instance of DashboardService with the
// given statistics cache lifetime
func NewDashboardService(statsRepo orders.StatsRepository, ttl time.Duration, logger logger.Logger) (orders.DashboardService, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("dashboard cache TTL must be positive")
	}
	return &dashboardService{
		statsRepo: statsRepo,
		cache:     gocache.New(gocache.NoExpiration, 10*time.Minute),
		ttl:       ttl,
		logger:    logger,
	}, nil
}

// Stats returns the counters for the given day, recomputing at most once per
// TTL per cache version
func (s *dashboardService) Stats(ctx context.Context, today time.Time) (*orders.DashboardStats, error) {
	key := s.statsKey(today)

	if cached, found := s.cache.Get(key); found {
		if stats, ok := cached.(*orders.DashboardStats); ok {
			return stats, nil
		}
	}

	stats, err := s.statsRepo.DashboardStats(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
	}

	s.cache.Set(key, stats, s.ttl)
	return stats, nil
}

// Invalidate bumps the cache version so the next read recomputes
func (s *dashboardService) Invalidate() {
	if err := s.cache.Add(dashboardVersionKey, int64(1), gocache.NoExpiration); err == nil {
		return
	}
	if _, err := s.cache.IncrementInt64(dashboardVersionKey, 1); err != nil {
		// The counter held something unusable; start the versioning over.
		s.cache.Set(dashboardVersionKey, int64(1), gocache.NoExpiration)
	}
}

func (s *dashboardService) statsKey(today time.Time) string {
	version := int64(0)
	if cached, found := s.cache.Get(dashboardVersionKey); found {
		if v, ok := cached.(int64); ok {
			version = v
		}
	}
	return fmt.Sprintf("%s:v%d:%s", dashboardStatsPrefix, version, today.Format("2006-01-02"))
}
