package sequence

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// All metrics are labeled with the sequence name.

var (
	// changesEnqueued counts change records added to pending buffers.
	changesEnqueued = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "collection_sequence_changes_enqueued",
		Help: "The total number of change records enqueued for delivery",
	}, []string{"sequence"})

	// batchesDelivered counts flushes that delivered a non-empty batch.
	batchesDelivered = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "collection_sequence_batches_delivered",
		Help: "The total number of change batches delivered to observers",
	}, []string{"sequence"})

	// observerPanics counts observers that panicked during delivery.
	observerPanics = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "collection_sequence_observer_panics",
		Help: "The total number of observers that recovered from a panic",
	}, []string{"sequence"})

	// mutationsRejected counts insertions rejected before touching the sequence.
	mutationsRejected = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "collection_sequence_mutations_rejected",
		Help: "The total number of insertions rejected",
	}, []string{"sequence"})
)
