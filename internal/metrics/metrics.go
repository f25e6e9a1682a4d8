package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_orders_created_total",
		Help: "Total number of orders successfully created.",
	})

	OrdersUpdatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_orders_updated_total",
		Help: "Total number of orders successfully updated.",
	})

	BookingConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_booking_conflicts_total",
		Help: "Total number of order mutations rejected because a variant was unavailable.",
	})

	EntitiesRemovedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_entities_removed_total",
		Help: "Total number of removal requests by entity kind and outcome (deleted or archived).",
	},
		[]string{"entity", "outcome"},
	)

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_operation_errors_total",
		Help: "Total number of internal errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	OutboxPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_outbox_published_total",
		Help: "Total number of outbox tasks handed to the producer, by result.",
	},
		[]string{"result"},
	)
)
