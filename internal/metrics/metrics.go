package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cpmdl"

// Recorder collects counters for one downloader process. A nil *Recorder
// records nothing.
type Recorder struct {
	registry *prometheus.Registry

	frames        *prometheus.CounterVec
	filesWritten  prometheus.Counter
	bytesWritten  prometheus.Counter
	writeFailures prometheus.Counter
	sessions      *prometheus.CounterVec
	lastSession   prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		frames: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "session",
				Name:      "frames_total",
				Help:      "Frames received, by command kind.",
			},
			[]string{"kind"},
		),
		filesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "files_written_total",
			Help:      "Files written to the output tree.",
		}),
		bytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "bytes_written_total",
			Help:      "Payload bytes written to the output tree.",
		}),
		writeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "write_failures_total",
			Help:      "File writes that failed.",
		}),
		sessions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "session",
				Name:      "completed_total",
				Help:      "Sessions ended, by result.",
			},
			[]string{"result"},
		),
		lastSession: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "last_completed_timestamp_seconds",
			Help:      "Unix time the last session ended.",
		}),
	}
	r.registry.MustRegister(r.frames, r.filesWritten, r.bytesWritten, r.writeFailures, r.sessions, r.lastSession)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) RecordFrame(kind string) {
	if r == nil {
		return
	}
	r.frames.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordFileWritten(bytes int) {
	if r == nil {
		return
	}
	r.filesWritten.Inc()
	r.bytesWritten.Add(float64(bytes))
}

func (r *Recorder) RecordWriteFailure() {
	if r == nil {
		return
	}
	r.writeFailures.Inc()
}

func (r *Recorder) RecordSession(result string, ended time.Time) {
	if r == nil {
		return
	}
	r.sessions.WithLabelValues(result).Inc()
	r.lastSession.Set(float64(ended.Unix()))
}

// WriteTextfile writes all metrics in text exposition format, for collection
// by a node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
