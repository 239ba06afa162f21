package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	framesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mcorder",
			Subsystem: "frames",
			Name:      "sent_total",
			Help:      "Frames sent to the trade group.",
		},
		[]string{"type"},
	)
	framesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mcorder",
			Subsystem: "frames",
			Name:      "received_total",
			Help:      "Datagrams received from the result group.",
		},
		[]string{"type"},
	)
	checksumFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mcorder",
			Subsystem: "frames",
			Name:      "checksum_failures_total",
			Help:      "Received frames whose checksum did not verify.",
		},
	)
	decodeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mcorder",
			Subsystem: "frames",
			Name:      "decode_errors_total",
			Help:      "Received datagrams that could not be decoded.",
		},
		[]string{"reason"},
	)
	sendErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mcorder",
			Subsystem: "frames",
			Name:      "send_errors_total",
			Help:      "Failed frame sends.",
		},
		[]string{"type"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(framesSent, framesReceived, checksumFailures, decodeErrors, sendErrors)
	})
}

func RecordFrameSent(msgType string) {
	RegisterMetrics()
	framesSent.WithLabelValues(msgType).Inc()
}

func RecordSendError(msgType string) {
	RegisterMetrics()
	sendErrors.WithLabelValues(msgType).Inc()
}

func RecordFrameReceived(msgType string) {
	RegisterMetrics()
	framesReceived.WithLabelValues(msgType).Inc()
}

func RecordChecksumFailure() {
	RegisterMetrics()
	checksumFailures.Inc()
}

func RecordDecodeError(reason string) {
	RegisterMetrics()
	decodeErrors.WithLabelValues(reason).Inc()
}
