// File: internal/reporting/report.go
package reporting

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/modelquery/api/schemas"
	"github.com/xkilldash9x/modelquery/internal/modeling"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Report is the serializable view of one engine run's result map.
type Report struct {
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Models      []ModelSummary `json:"models"`
	Summary     map[string]int `json:"summary"`
}

// ModelSummary flattens one callable's model for the report.
type ModelSummary struct {
	Callable    string               `json:"callable"`
	Kind        schemas.CallableKind `json:"kind"`
	Annotations []AnnotationSummary  `json:"annotations"`
}

// AnnotationSummary is one (target, taint) entry rendered with the
// canonical target spelling.
type AnnotationSummary struct {
	Target string                  `json:"target"`
	Taint  schemas.TaintAnnotation `json:"taint"`
}

// Build renders the result map into a deterministic report: models sorted
// by callable name, annotations in canonical pair order, and a summary
// counting annotations per taint kind.
func Build(results modeling.ResultMap) *Report {
	report := &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Models:      make([]ModelSummary, 0, len(results)),
		Summary:     map[string]int{},
	}

	for c, m := range results {
		summary := ModelSummary{Callable: c.Name, Kind: c.Kind}
		for _, p := range m.Pairs() {
			summary.Annotations = append(summary.Annotations, AnnotationSummary{
				Target: p.Target.String(),
				Taint:  p.Taint,
			})
			report.Summary[string(p.Taint.Kind)]++
		}
		report.Models = append(report.Models, summary)
	}

	sort.Slice(report.Models, func(i, j int) bool {
		a, b := report.Models[i], report.Models[j]
		if a.Callable != b.Callable {
			return a.Callable < b.Callable
		}
		return a.Kind < b.Kind
	})
	return report
}

// ToJSON serializes the report with indentation.
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// WriteFile writes the JSON report to path.
func (r *Report) WriteFile(path string) error {
	data, err := r.ToJSON()
	if err != nil {
		return fmt.Errorf("serializing report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
