package metrics

/* adapted from https://github.com/zsais/go-gin-prometheus
edits:
- counter/histogram only, no size summaries
- metrics served from a separate listener instead of the app router
*/

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var defaultMetricPath = "/metrics"

type Logger interface {
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// RequestCounterURLLabelMappingFn controls the cardinality of the "url"
// label, e.g. by mapping "/customer/alice" back to "/customer/:name".
type RequestCounterURLLabelMappingFn func(c *gin.Context) string

// Prometheus instruments a gin engine with request count and latency metrics.
type Prometheus struct {
	reqCnt        *prometheus.CounterVec
	reqDur        *prometheus.HistogramVec
	listenAddress string

	MetricsPath             string
	ReqCntURLLabelMappingFn RequestCounterURLLabelMappingFn

	logger Logger
}

type NewPrometheusOptions struct {
	Subsystem               string
	MetricsPath             string
	ReqCntURLLabelMappingFn func(c *gin.Context) string
	Logger                  Logger
}

// NewPrometheus generates a new set of HTTP metrics with a subsystem name.
func NewPrometheus(options NewPrometheusOptions) *Prometheus {
	subsystem := options.Subsystem
	if subsystem == "" {
		subsystem = "http"
	}

	p := &Prometheus{
		MetricsPath: defaultMetricPath,
		ReqCntURLLabelMappingFn: func(c *gin.Context) string {
			return c.Request.URL.Path
		},
		logger: options.Logger,
	}
	if options.MetricsPath != "" {
		p.MetricsPath = options.MetricsPath
	}
	if options.ReqCntURLLabelMappingFn != nil {
		p.ReqCntURLLabelMappingFn = options.ReqCntURLLabelMappingFn
	}

	p.reqCnt = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      "req_total",
			Help:      "How many HTTP requests processed, partitioned by status code, method and url.",
		},
		[]string{"code", "method", "url"},
	)
	p.reqDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Subsystem: subsystem,
			Name:      "req_dur_ms",
			Help:      "The HTTP request latencies in milliseconds.",
			Buckets:   HistogramBuckets,
		},
		[]string{"code", "method", "url"},
	)

	for _, collector := range []prometheus.Collector{p.reqCnt, p.reqDur} {
		if err := prometheus.Register(collector); err != nil && p.logger != nil {
			p.logger.Errorf("metrics: register collector: %v", err)
		}
	}

	return p
}

// SetListenAddress serves /metrics from a separate listener so the metrics
// port is never exposed alongside the public API.
func (p *Prometheus) SetListenAddress(address string) {
	p.listenAddress = address
}

// Use attaches the instrumentation middleware to the engine and, when a
// listen address is configured, starts the side metrics server.
func (p *Prometheus) Use(e *gin.Engine) {
	e.Use(p.handlerFunc())
	p.runListener()
}

func (p *Prometheus) runListener() {
	if p.listenAddress == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle(p.MetricsPath, promhttp.Handler())
	go func() {
		srv := &http.Server{Addr: p.listenAddress, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		if err := srv.ListenAndServe(); err != nil && p.logger != nil {
			p.logger.Errorf("metrics: listener stopped: %v", err)
		}
	}()
}

func (p *Prometheus) handlerFunc() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == p.MetricsPath {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		url := p.ReqCntURLLabelMappingFn(c)
		elapsed := float64(time.Since(start).Milliseconds())

		p.reqDur.WithLabelValues(status, c.Request.Method, url).Observe(elapsed)
		p.reqCnt.WithLabelValues(status, c.Request.Method, url).Inc()
	}
}
