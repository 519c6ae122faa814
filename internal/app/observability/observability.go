package observability

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

type key struct {
	Method string
	Path   string
	Status int
}

type stat struct {
	Count     int64
	LatencyMS float64
}

type questionCounter interface {
	CountQuestions(ctx context.Context) (int, error)
}

// Collector keeps per-route request counters in memory and renders them, with
// connection pool and question bank gauges, in Prometheus text format.
type Collector struct {
	db         *sql.DB
	counter    questionCounter
	logRequest bool

	mu           sync.RWMutex
	requestStats map[key]stat
	startedAt    time.Time
}

func NewCollector(db *sql.DB) *Collector {
	return &Collector{
		db:           db,
		logRequest:   true,
		requestStats: make(map[key]stat),
		startedAt:    time.Now(),
	}
}

// WithRequestLog toggles the JSON access log line written per request.
func (c *Collector) WithRequestLog(enabled bool) *Collector {
	c.logRequest = enabled
	return c
}

// WithQuestionCounter adds a trivia_questions gauge read on every scrape.
func (c *Collector) WithQuestionCounter(counter questionCounter) *Collector {
	c.counter = counter
	return c
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		latencyMS := float64(time.Since(start).Microseconds()) / 1000.0
		path := normalizedPath(r.URL.Path)
		c.record(key{Method: r.Method, Path: path, Status: rec.status}, latencyMS)
		if !c.logRequest {
			return
		}

		entry := map[string]any{
			"request_id":  middleware.GetReqID(r.Context()),
			"question_id": extractPathID(r.URL.Path, "questions"),
			"category_id": extractPathID(r.URL.Path, "categories"),
			"method":      r.Method,
			"path":        path,
			"status":      rec.status,
			"latency_ms":  latencyMS,
			"remote_ip":   strings.TrimSpace(r.RemoteAddr),
		}
		b, _ := json.Marshal(entry)
		log.Printf("%s", string(b))
	})
}

func (c *Collector) record(k key, latencyMS float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.requestStats[k]
	s.Count++
	s.LatencyMS += latencyMS
	c.requestStats[k] = s
}

func (c *Collector) snapshot() ([]key, map[key]stat, time.Time) {
	c.mu.RLock()
	stats := make(map[key]stat, len(c.requestStats))
	for k, v := range c.requestStats {
		stats[k] = v
	}
	startedAt := c.startedAt
	c.mu.RUnlock()

	keys := make([]key, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Method != keys[j].Method {
			return keys[i].Method < keys[j].Method
		}
		if keys[i].Path != keys[j].Path {
			return keys[i].Path < keys[j].Path
		}
		return keys[i].Status < keys[j].Status
	})
	return keys, stats, startedAt
}

func (c *Collector) MetricsHandler(w http.ResponseWriter, r *http.Request) {
	keys, stats, startedAt := c.snapshot()

	var sb strings.Builder
	sb.WriteString("# trivia observability metrics\n")
	gauge(&sb, "trivia_uptime_seconds", fmt.Sprintf("%.0f", time.Since(startedAt).Seconds()))

	sb.WriteString("# TYPE trivia_http_requests_total counter\n")
	sb.WriteString("# TYPE trivia_http_request_latency_ms_sum counter\n")
	sb.WriteString("# TYPE trivia_http_request_latency_ms_avg gauge\n")
	for _, k := range keys {
		s := stats[k]
		labels := fmt.Sprintf("method=%q,path=%q,status=\"%d\"", k.Method, k.Path, k.Status)
		fmt.Fprintf(&sb, "trivia_http_requests_total{%s} %d\n", labels, s.Count)
		fmt.Fprintf(&sb, "trivia_http_request_latency_ms_sum{%s} %.3f\n", labels, s.LatencyMS)
		avg := 0.0
		if s.Count > 0 {
			avg = s.LatencyMS / float64(s.Count)
		}
		fmt.Fprintf(&sb, "trivia_http_request_latency_ms_avg{%s} %.3f\n", labels, avg)
	}

	if c.counter != nil {
		if n, err := c.counter.CountQuestions(r.Context()); err == nil {
			gauge(&sb, "trivia_questions", strconv.Itoa(n))
		} else {
			log.Printf("metrics question count failed err=%v", err)
		}
	}

	if c.db != nil {
		dbs := c.db.Stats()
		gauge(&sb, "trivia_db_open_connections", strconv.Itoa(dbs.OpenConnections))
		gauge(&sb, "trivia_db_in_use_connections", strconv.Itoa(dbs.InUse))
		gauge(&sb, "trivia_db_idle_connections", strconv.Itoa(dbs.Idle))
		counter(&sb, "trivia_db_wait_count", strconv.FormatInt(dbs.WaitCount, 10))
		counter(&sb, "trivia_db_wait_duration_ms", fmt.Sprintf("%.3f", float64(dbs.WaitDuration.Microseconds())/1000.0))
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(sb.String()))
}

func gauge(sb *strings.Builder, name, value string) {
	fmt.Fprintf(sb, "# TYPE %s gauge\n%s %s\n", name, name, value)
}

func counter(sb *strings.Builder, name, value string) {
	fmt.Fprintf(sb, "# TYPE %s counter\n%s %s\n", name, name, value)
}

func normalizedPath(path string) string {
	if path == "" {
		return "/"
	}
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if _, err := strconv.ParseInt(p, 10, 64); err == nil {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}

// extractPathID returns the numeric segment that follows collection, or 0.
func extractPathID(path, collection string) int64 {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] == collection {
			if id, err := strconv.ParseInt(parts[i+1], 10, 64); err == nil {
				return id
			}
		}
	}
	return 0
}
