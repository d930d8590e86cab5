package metrics

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Push sends everything in gatherer to a pushgateway. A console run is too
// short-lived to be scraped, so each command flushes on exit.
func Push(ctx context.Context, url, job string, gatherer prometheus.Gatherer) error {
	if url == "" {
		return nil
	}
	if err := push.New(url, job).Gatherer(gatherer).PushContext(ctx); err != nil {
		return errors.Wrap(err, "push metrics")
	}
	return nil
}
