package output

import (
	"context"
	"io"
	"time"

	"github.com/df07/go-envmap-pathtracer/pkg/renderer"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"gocloud.dev/blob"
)

// Report describes a finished render
type Report struct {
	RunID       string          `json:"runId"`
	Scene       string          `json:"scene"`
	Environment string          `json:"environment"`
	Image       string          `json:"image"`
	ToneMap     string          `json:"toneMap"`
	Config      renderer.Config `json:"config"`
	Stats       ReportStats     `json:"stats"`
	Finished    time.Time       `json:"finished"`
}

// ReportStats is the serialized form of renderer.RenderStats
type ReportStats struct {
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	Tiles          int     `json:"tiles"`
	Workers        int     `json:"workers"`
	DurationMillis int64   `json:"durationMillis"`
}

// NewReportStats converts render statistics for a report
func NewReportStats(stats renderer.RenderStats) ReportStats {
	return ReportStats{
		TotalPixels:    stats.TotalPixels,
		TotalSamples:   stats.TotalSamples,
		AverageSamples: stats.AverageSamples(),
		Tiles:          stats.Tiles,
		Workers:        stats.Workers,
		DurationMillis: stats.Duration.Milliseconds(),
	}
}

// WriteReport stores report as indented JSON under key
func WriteReport(ctx context.Context, bucket *blob.Bucket, key string, report Report) error {
	return write(ctx, bucket, key, "application/json", func(w io.Writer) error {
		return json.MarshalWrite(w, report, json.DefaultOptionsV2(), jsontext.WithIndent("  "))
	})
}
