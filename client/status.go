package client

import (
	"context"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/AndreasSchmid1988/workpro-frontend/internal/logger"
)

// StatusAll disables the status filter.
const StatusAll = "all"

// statusCounts keeps the per status totals of a resource.
type statusCounts struct {
	mu       sync.RWMutex
	defaults []string
	counts   map[string]int
}

func newStatusCounts(defaults ...string) *statusCounts {
	ret := &statusCounts{defaults: defaults}
	ret.reset()
	return ret
}

func (s *statusCounts) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts = make(map[string]int, len(s.defaults))
	for _, status := range s.defaults {
		s.counts[status] = 0
	}
}

func (s *statusCounts) snapshot() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ret := make(map[string]int, len(s.counts))
	for k, v := range s.counts {
		ret[k] = v
	}
	return ret
}

// fetch loads path; missing statuses count as zero.
func (s *statusCounts) fetch(ctx context.Context, c *Client, path string) (map[string]int, error) {
	envelope, err := send[Envelope[StatusCount]](ctx, c, &request{method: http.MethodGet, path: path})
	if err != nil {
		logger.Log(ctx).Error(ctx, "failed to fetch status counts", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	counts := make(map[string]int, len(s.defaults))
	for _, status := range s.defaults {
		counts[status] = 0
	}
	for _, item := range envelope.Data {
		counts[item.Status] = item.Count
	}
	s.mu.Lock()
	s.counts = counts
	s.mu.Unlock()
	return s.snapshot(), nil
}

func statusFilter(status string) []Filter {
	if status == "" || status == StatusAll {
		return nil
	}
	return []Filter{Where("status", status)}
}
