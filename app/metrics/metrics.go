package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-paynow/config"
)

func Setup(cfg config.MetricsConfig) {
	if cfg.PushURL == "" {
		return
	}

	err := metrics.InitPush(cfg.PushURL, time.Duration(cfg.PushIntervalMs)*time.Millisecond, "", true)
	if err != nil {
		logrus.WithError(err).Error("Failed to initialize metrics push")
	}
}

func CallbackProcessed() {
	metrics.GetOrCreateCounter("paynow_callbacks_processed_total").Inc()
}

func CallbackRejected(reason string) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`paynow_callbacks_rejected_total{reason=%q}`, reason)).Inc()
}

func WritePrometheus(w io.Writer) {
	metrics.WritePrometheus(w, true)
}
