package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ListingsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "listings_created_total",
		Help: "Total number of listings created",
	})

	ListingsSoldTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "listings_sold_total",
		Help: "Total number of listings marked sold",
	})

	DealsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "deals_created_total",
		Help: "Total number of deals created",
	})

	DealsAcceptedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "deals_accepted_total",
		Help: "Total number of deals accepted",
	})

	DealsRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "deals_rejected_total",
		Help: "Total number of deals rejected, including siblings rejected on accept",
	})

	DealsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "deals_completed_total",
		Help: "Total number of deals completed",
	})

	DealsCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "deals_cancelled_total",
		Help: "Total number of deals cancelled by buyers",
	})

	DealMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "deal_messages_total",
		Help: "Total number of messages appended to deal threads",
	})

	RateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rate_limited_requests_total",
		Help: "Total number of requests rejected by the rate limiter",
	}, []string{"role"})
)
