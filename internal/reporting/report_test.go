// File: internal/reporting/report_test.go
package reporting

import (
	stdjson "encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/modelquery/api/schemas"
	"github.com/xkilldash9x/modelquery/internal/modeling"
)

func sampleResults() modeling.ResultMap {
	login := schemas.Callable{Kind: schemas.CallableFunction, Name: "app.login"}
	fetch := schemas.Callable{Kind: schemas.CallableFunction, Name: "app.fetch"}

	passwordRoot := schemas.ParameterRoot{Kind: schemas.RootPositional, Index: 1, Name: "password"}
	return modeling.ResultMap{
		login: modeling.NewTaintModel(login, []schemas.AnnotationPair{
			{Target: schemas.ParameterTarget(passwordRoot), Taint: schemas.TaintAnnotation{Kind: schemas.TaintSink, Name: "SQLInjection"}},
			{Target: schemas.ReturnTarget(), Taint: schemas.TaintAnnotation{Kind: schemas.TaintSource, Name: "UserControlled"}},
		}),
		fetch: modeling.NewTaintModel(fetch, []schemas.AnnotationPair{
			{Target: schemas.ReturnTarget(), Taint: schemas.TaintAnnotation{Kind: schemas.TaintSource, Name: "UserControlled"}},
		}),
	}
}

func TestBuildReport(t *testing.T) {
	report := Build(sampleResults())

	assert.NotEmpty(t, report.RunID)
	assert.False(t, report.GeneratedAt.IsZero())

	require.Len(t, report.Models, 2)
	// Sorted by callable name: app.fetch before app.login.
	assert.Equal(t, "app.fetch", report.Models[0].Callable)
	assert.Equal(t, "app.login", report.Models[1].Callable)

	assert.Equal(t, 2, report.Summary["source"])
	assert.Equal(t, 1, report.Summary["sink"])

	login := report.Models[1]
	require.Len(t, login.Annotations, 2)
	assert.Equal(t, "positional(1:password)", login.Annotations[0].Target)
	assert.Equal(t, "return", login.Annotations[1].Target)
}

func TestBuildReportIsDeterministic(t *testing.T) {
	a := Build(sampleResults())
	b := Build(sampleResults())

	// Everything except the run metadata must be identical run to run.
	assert.Empty(t, cmp.Diff(a.Models, b.Models))
	assert.Empty(t, cmp.Diff(a.Summary, b.Summary))
}

func TestBuildEmptyResults(t *testing.T) {
	report := Build(modeling.ResultMap{})
	assert.Empty(t, report.Models)
	assert.Empty(t, report.Summary)
}

func TestReportToJSON(t *testing.T) {
	data, err := Build(sampleResults()).ToJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, stdjson.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "run_id")
	assert.Contains(t, decoded, "models")
	assert.Contains(t, decoded, "summary")
}

func TestReportWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, Build(sampleResults()).WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "app.login")
}
