package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns the Prometheus exposition handler backing GET /metrics.
// The default registry is used, so default Go and process collectors are
// exported alongside the service's own counters and histograms.
func Handler() http.Handler {
	return promhttp.Handler()
}
