package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(accountsLoadedTotal, stockAvailable)
}

var (
	accountsLoadedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accounts_loaded_total",
			Help: "Inventory units loaded by the admin, by platform.",
		},
		[]string{"platform"},
	)

	stockAvailable = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stock_available",
			Help: "Currently available inventory units by platform.",
		},
		[]string{"platform"},
	)
)

func IncAccountsLoaded(platform string) { accountsLoadedTotal.WithLabelValues(platform).Inc() }

func SetStockAvailable(counts map[string]int) {
	for platform, n := range counts {
		stockAvailable.WithLabelValues(platform).Set(float64(n))
	}
}
