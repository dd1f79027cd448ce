package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(mailSentTotal) }

var mailSentTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "admin_mail_total",
		Help: "Admin notification emails by outcome.",
	},
	[]string{"outcome"}, // 'sent', 'failed'
)

func IncMailSent()   { mailSentTotal.WithLabelValues("sent").Inc() }
func IncMailFailed() { mailSentTotal.WithLabelValues("failed").Inc() }
