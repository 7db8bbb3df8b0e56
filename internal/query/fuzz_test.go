// File: internal/query/fuzz_test.go
//go:build go1.18
// +build go1.18

package query

import (
	"testing"

	fuzz "github.com/AdaLogics/go-fuzz-headers"

	"github.com/xkilldash9x/modelquery/api/schemas"
)

// FuzzMatches throws arbitrary patterns, names and annotations at the
// evaluator. The invariant is simple: evaluation never panics, and the only
// permitted error is a pattern compilation failure.
func FuzzMatches(f *testing.F) {
	f.Add([]byte(`^app\.login$app.loginAnnotated[str]`))
	f.Add([]byte(`(unclosed`))
	f.Fuzz(func(t *testing.T, data []byte) {
		fc := fuzz.NewConsumer(data)

		pattern, err := fc.GetString()
		if err != nil {
			return
		}
		name, err := fc.GetString()
		if err != nil {
			return
		}
		annotation, err := fc.GetString()
		if err != nil {
			return
		}

		callable := fn(name)
		ev := newTestEvaluator(stubResolver{
			callable: {
				Parameters: []schemas.Parameter{positional(0, "arg", annotation)},
				Return:     annotation,
			},
		})

		constraint := schemas.Constraint{Kind: schemas.ConstraintAnyOf, AnyOf: []schemas.Constraint{
			nameConstraint(pattern),
			{Kind: schemas.ConstraintReturn, Annotation: schemas.IsAnnotatedType},
			{Kind: schemas.ConstraintAnyParameter, Annotation: schemas.IsAnnotatedType},
		}}

		// Outcome is irrelevant; only absence of panics and well-typed
		// errors matter here.
		_, _ = ev.Matches(constraint, callable)
	})
}
