package bark

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

type Compression string

const (
	Identity Compression = "identity"
	Gzip     Compression = "gzip"
	Zstd     Compression = "zstd"
)

// Preferred first
var defaultCompressionFormats = []Compression{Zstd, Gzip, Identity}

// Metrics records request counts and latencies of the API
type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalog",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Number of API requests by route and response code",
		}, []string{"method", "route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "catalog",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of API requests by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	for _, c := range []prometheus.Collector{m.requests, m.latency} {
		if err := registerer.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register API metrics: %w", err)
		}
	}

	return m, nil
}

// Middleware observes every request that matched a route
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}

		m.requests.WithLabelValues(ctx.Request.Method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
		m.latency.WithLabelValues(ctx.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// selectCompression picks the first of the offered compressions the client accepts
func selectCompression(header http.Header, offers []Compression) Compression {
	accepted := map[string]struct{}{}
	for _, value := range header.Values("Accept-Encoding") {
		for _, enc := range strings.Split(value, ",") {
			enc = strings.TrimSpace(filterFlags(strings.TrimSpace(enc)))
			if enc != "" {
				accepted[strings.ToLower(enc)] = struct{}{}
			}
		}
	}

	for _, offer := range offers {
		if _, ok := accepted[string(offer)]; ok {
			return offer
		}
	}

	return Identity
}

func encodingWriter(w io.Writer, selected Compression) (io.Writer, func() error, error) {
	switch selected {
	case Zstd:
		z, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			return nil, nil, err
		}
		return z, z.Close, nil
	case Gzip:
		gz := gzip.NewWriter(w)
		return gz, gz.Close, nil
	case Identity:
		return w, func() error { return nil }, nil
	}

	return nil, nil, fmt.Errorf("content compression format not recognized: %s. Valid formats are: %s", selected, defaultCompressionFormats)
}

// MetricsHandler exposes metrics gathered by the registry
// in the text format and compression negotiated with the client.
func MetricsHandler(gatherer prometheus.Gatherer, enableOpenMetrics bool) gin.HandlerFunc {
	transactional := prometheus.ToTransactionalGatherer(gatherer)

	return func(ctx *gin.Context) {
		mfs, done, err := transactional.Gather()
		defer done()
		if err != nil {
			AbortWithError(ctx, fmt.Errorf("failed to gather metrics: %w", err))
			return
		}

		var contentType expfmt.Format
		if enableOpenMetrics {
			contentType = expfmt.NegotiateIncludingOpenMetrics(ctx.Request.Header)
		} else {
			contentType = expfmt.Negotiate(ctx.Request.Header)
		}

		selected := selectCompression(ctx.Request.Header, defaultCompressionFormats)
		var buf bytes.Buffer
		w, closeWriter, err := encodingWriter(&buf, selected)
		if err != nil {
			AbortWithError(ctx, err)
			return
		}

		enc := expfmt.NewEncoder(w, contentType)
		for _, mf := range mfs {
			if err := enc.Encode(mf); err != nil {
				AbortWithError(ctx, fmt.Errorf("failed to encode metrics family %q: %w", mf.GetName(), err))
				return
			}
		}
		if closer, ok := enc.(expfmt.Closer); ok {
			if err := closer.Close(); err != nil {
				AbortWithError(ctx, err)
				return
			}
		}
		if err := closeWriter(); err != nil {
			AbortWithError(ctx, err)
			return
		}

		if selected != Identity {
			ctx.Header("Content-Encoding", string(selected))
		}
		ctx.Data(http.StatusOK, string(contentType), buf.Bytes())
	}
}
