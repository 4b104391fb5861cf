package models

import "time"

// SystemMetrics is a lightweight aggregate of runtime counters exposed to
// admin consumers without scraping the Prometheus endpoint.
type SystemMetrics struct {
	CacheHitRatio             float64   `json:"cache_hit_ratio"`
	CacheHits                 uint64    `json:"cache_hits"`
	CacheMisses               uint64    `json:"cache_misses"`
	RequestsTotal             uint64    `json:"requests_total"`
	AverageRequestDurationMs  float64   `json:"average_request_duration_ms"`
	UpstreamCallsTotal        uint64    `json:"upstream_calls_total"`
	UpstreamErrorsTotal       uint64    `json:"upstream_errors_total"`
	AverageUpstreamDurationMs float64   `json:"average_upstream_duration_ms"`
	TimetablesGenerated       uint64    `json:"timetables_generated"`
	Goroutines                int       `json:"goroutines"`
	GeneratedAt               time.Time `json:"generated_at"`
}
