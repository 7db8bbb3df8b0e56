// File: api/schemas/schemas_test.go
package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleKindAppliesTo(t *testing.T) {
	tests := []struct {
		rule RuleKind
		c    CallableKind
		want bool
	}{
		{FunctionModel, CallableFunction, true},
		{FunctionModel, CallableMethod, false},
		{FunctionModel, CallableClass, false},
		{MethodModel, CallableMethod, true},
		{MethodModel, CallableFunction, false},
		{MethodModel, CallableGlobal, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.rule.AppliesTo(tc.c), "%s vs %s", tc.rule, tc.c)
	}
}

func TestCallableModelable(t *testing.T) {
	assert.True(t, Callable{Kind: CallableFunction, Name: "f"}.Modelable())
	assert.True(t, Callable{Kind: CallableMethod, Name: "m"}.Modelable())
	assert.False(t, Callable{Kind: CallableClass, Name: "C"}.Modelable())
	assert.False(t, Callable{Kind: CallableGlobal, Name: "G"}.Modelable())
}

func TestAnnotationPairKey(t *testing.T) {
	root := ParameterRoot{Kind: RootPositional, Index: 1, Name: "password"}
	sink := TaintAnnotation{Kind: TaintSink, Name: "SQLInjection"}

	a := AnnotationPair{Target: ParameterTarget(root), Taint: sink}
	b := AnnotationPair{Target: ParameterTarget(root), Taint: sink}
	c := AnnotationPair{Target: ReturnTarget(), Taint: sink}

	assert.Equal(t, a.Key(), b.Key(), "identical pairs share a canonical key")
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestParameterRootString(t *testing.T) {
	tests := []struct {
		root ParameterRoot
		want string
	}{
		{ParameterRoot{Kind: RootPositional, Index: 0, Name: "x"}, "positional(0:x)"},
		{ParameterRoot{Kind: RootPositional, Index: 2}, "positional(2)"},
		{ParameterRoot{Kind: RootNamed, Name: "mode"}, "named(mode)"},
		{ParameterRoot{Kind: RootStar}, "*args"},
		{ParameterRoot{Kind: RootDoubleStar}, "**kwargs"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.root.String())
	}
}

func TestFilterContext(t *testing.T) {
	source := TaintAnnotation{Kind: TaintSource, Name: "UserControlled"}
	sink := TaintAnnotation{Kind: TaintSink, Name: "SQLInjection"}
	sanitizer := TaintAnnotation{Kind: TaintSanitizer, Name: "Escape"}

	t.Run("nil filter allows everything", func(t *testing.T) {
		var fc *FilterContext
		assert.True(t, fc.Allows(source))
		assert.True(t, fc.Allows(sink))
	})

	t.Run("empty lists retain all of that kind", func(t *testing.T) {
		fc := NewFilterContext(nil, []string{"SQLInjection"})
		assert.True(t, fc.Allows(source))
		assert.True(t, fc.Allows(sink))
		assert.False(t, fc.Allows(TaintAnnotation{Kind: TaintSink, Name: "Logging"}))
	})

	t.Run("allow-listed names pass, others do not", func(t *testing.T) {
		fc := NewFilterContext([]string{"UserControlled"}, []string{"Logging"})
		assert.True(t, fc.Allows(source))
		assert.False(t, fc.Allows(sink))
	})

	t.Run("sanitizers always pass", func(t *testing.T) {
		fc := NewFilterContext([]string{"X"}, []string{"Y"})
		assert.True(t, fc.Allows(sanitizer))
	})
}

func TestConstraintValidate(t *testing.T) {
	valid := Constraint{Kind: ConstraintAnyOf, AnyOf: []Constraint{
		{Kind: ConstraintName, Pattern: "x"},
		{Kind: ConstraintReturn, Annotation: IsAnnotatedType},
		{Kind: ConstraintAnyParameter, Annotation: IsAnnotatedType},
	}}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name string
		c    Constraint
	}{
		{"unknown kind", Constraint{Kind: "sometimes"}},
		{"name without pattern", Constraint{Kind: ConstraintName}},
		{"return with unknown annotation constraint", Constraint{Kind: ConstraintReturn, Annotation: "is_generic"}},
		{"empty any_of", Constraint{Kind: ConstraintAnyOf}},
		{"invalid nested child", Constraint{Kind: ConstraintAnyOf, AnyOf: []Constraint{{Kind: ConstraintName}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.c.Validate())
		})
	}
}

func TestRuleValidate(t *testing.T) {
	rule := Rule{
		Name: "ok",
		Kind: FunctionModel,
		Query: []Constraint{
			{Kind: ConstraintName, Pattern: "^app"},
		},
		Productions: []Production{
			{Kind: ProductionReturn, Taint: []TaintAnnotation{{Kind: TaintSink, Name: "X"}}},
			{Kind: ProductionParameter, ParameterName: "p", Taint: []TaintAnnotation{{Kind: TaintSource, Name: "Y"}}},
			{Kind: ProductionPositionalParameter, ParameterIndex: 0, Taint: []TaintAnnotation{{Kind: TaintSource, Name: "Y"}}},
			{Kind: ProductionAllParameters, Taint: []TaintAnnotation{{Kind: TaintSanitizer, Name: "Z"}}},
		},
	}
	require.NoError(t, rule.Validate())

	t.Run("unknown rule kind", func(t *testing.T) {
		bad := rule
		bad.Kind = "module_model"
		assert.Error(t, bad.Validate())
	})

	t.Run("no productions", func(t *testing.T) {
		bad := rule
		bad.Productions = nil
		assert.Error(t, bad.Validate())
	})

	t.Run("parameter production without name", func(t *testing.T) {
		bad := rule
		bad.Productions = []Production{{Kind: ProductionParameter, Taint: rule.Productions[0].Taint}}
		assert.Error(t, bad.Validate())
	})

	t.Run("negative positional index", func(t *testing.T) {
		bad := rule
		bad.Productions = []Production{{Kind: ProductionPositionalParameter, ParameterIndex: -1, Taint: rule.Productions[0].Taint}}
		assert.Error(t, bad.Validate())
	})
}
