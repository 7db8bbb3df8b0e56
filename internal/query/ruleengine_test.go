// File: internal/query/ruleengine_test.go
package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/modelquery/api/schemas"
)

// MockDiagnosticsSink records match notices.
type MockDiagnosticsSink struct {
	mock.Mock
}

func (m *MockDiagnosticsSink) RuleMatched(rule schemas.Rule, c schemas.Callable) {
	m.Called(rule, c)
}

func loginRule() schemas.Rule {
	return schemas.Rule{
		Name: "login-password-sink",
		Kind: schemas.FunctionModel,
		Query: []schemas.Constraint{
			nameConstraint(`^app\.login$`),
		},
		Productions: []schemas.Production{
			{Kind: schemas.ProductionParameter, ParameterName: "password", Taint: []schemas.TaintAnnotation{tSink}},
		},
	}
}

func loginDefs() stubResolver {
	params := []schemas.Parameter{
		positional(0, "username", ""),
		positional(1, "password", ""),
	}
	return stubResolver{
		fn("app.login"): {Parameters: params},
		{Kind: schemas.CallableMethod, Name: "app.login"}: {Parameters: params},
	}
}

func TestEvaluateRuleScenario(t *testing.T) {
	ev := newTestEvaluator(loginDefs())

	pairs, err := ev.EvaluateRule(loginRule(), fn("app.login"))
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, schemas.TargetParameter, pairs[0].Target.Kind)
	assert.Equal(t, "password", pairs[0].Target.Root.Name)
	assert.Equal(t, tSink, pairs[0].Taint)
}

func TestEvaluateRuleKindGate(t *testing.T) {
	ev := newTestEvaluator(loginDefs())

	t.Run("function rule rejects method callable", func(t *testing.T) {
		method := schemas.Callable{Kind: schemas.CallableMethod, Name: "app.login"}
		pairs, err := ev.EvaluateRule(loginRule(), method)
		require.NoError(t, err)
		assert.Empty(t, pairs, "kind gate must reject before constraints run")
	})

	t.Run("method rule rejects function callable", func(t *testing.T) {
		rule := loginRule()
		rule.Kind = schemas.MethodModel
		pairs, err := ev.EvaluateRule(rule, fn("app.login"))
		require.NoError(t, err)
		assert.Empty(t, pairs)
	})

	t.Run("kind gate precedes constraint errors", func(t *testing.T) {
		rule := loginRule()
		rule.Query = []schemas.Constraint{nameConstraint(`(`)}
		method := schemas.Callable{Kind: schemas.CallableMethod, Name: "app.login"}
		_, err := ev.EvaluateRule(rule, method)
		assert.NoError(t, err, "constraints are never evaluated on a kind mismatch")
	})
}

func TestEvaluateRuleAndSemantics(t *testing.T) {
	defs := loginDefs()
	defs[fn("app.login")].Return = "Annotated[str]"
	ev := newTestEvaluator(defs)

	returnAnnotated := schemas.Constraint{Kind: schemas.ConstraintReturn, Annotation: schemas.IsAnnotatedType}

	tests := []struct {
		name  string
		query []schemas.Constraint
		match bool
	}{
		{"both constraints match", []schemas.Constraint{nameConstraint(`login`), returnAnnotated}, true},
		{"only first matches", []schemas.Constraint{nameConstraint(`login`), nameConstraint(`logout`)}, false},
		{"only second matches", []schemas.Constraint{nameConstraint(`logout`), returnAnnotated}, false},
		{"empty query matches everything of the kind", nil, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rule := loginRule()
			rule.Query = tc.query
			pairs, err := ev.EvaluateRule(rule, fn("app.login"))
			require.NoError(t, err)
			if tc.match {
				assert.NotEmpty(t, pairs)
			} else {
				assert.Empty(t, pairs)
			}
		})
	}
}

func TestEvaluateRuleWrapsConfigurationErrors(t *testing.T) {
	ev := newTestEvaluator(loginDefs())
	rule := loginRule()
	rule.Query = []schemas.Constraint{nameConstraint(`(`)}

	_, err := ev.EvaluateRule(rule, fn("app.login"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `rule "login-password-sink"`)
}

func TestEvaluateRuleEmitsDiagnostics(t *testing.T) {
	sink := new(MockDiagnosticsSink)
	sink.On("RuleMatched", mock.Anything, mock.Anything).Return()
	ev := newTestEvaluator(loginDefs(), WithDiagnostics(sink))

	_, err := ev.EvaluateRule(loginRule(), fn("app.login"))
	require.NoError(t, err)
	sink.AssertCalled(t, "RuleMatched", loginRule(), fn("app.login"))

	// A non-match must stay silent.
	method := schemas.Callable{Kind: schemas.CallableMethod, Name: "app.login"}
	_, err = ev.EvaluateRule(loginRule(), method)
	require.NoError(t, err)
	sink.AssertNumberOfCalls(t, "RuleMatched", 1)
}

func TestEvaluateAllRulesConcatenatesInRuleOrder(t *testing.T) {
	ev := newTestEvaluator(loginDefs())

	second := schemas.Rule{
		Name: "login-return-source",
		Kind: schemas.FunctionModel,
		Query: []schemas.Constraint{
			nameConstraint(`^app\.login$`),
		},
		Productions: []schemas.Production{
			{Kind: schemas.ProductionReturn, Taint: []schemas.TaintAnnotation{tSource}},
		},
	}
	skipped := schemas.Rule{
		Name:        "unrelated",
		Kind:        schemas.FunctionModel,
		Query:       []schemas.Constraint{nameConstraint(`^app\.logout$`)},
		Productions: second.Productions,
	}

	pairs, err := ev.EvaluateAllRules([]schemas.Rule{loginRule(), skipped, second}, fn("app.login"))
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, schemas.TargetParameter, pairs[0].Target.Kind)
	assert.Equal(t, schemas.TargetReturn, pairs[1].Target.Kind)
}
