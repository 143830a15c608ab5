package metrics

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Push sends every metric gathered by g to a Prometheus Pushgateway under job.
// Batch commands call it once after their run since nothing scrapes them.
func Push(ctx context.Context, url, job string, g prometheus.Gatherer) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	if job == "" {
		return fmt.Errorf("pushgateway job name required")
	}
	if err := push.New(url, job).Gatherer(g).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
