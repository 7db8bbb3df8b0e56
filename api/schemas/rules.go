// File: api/schemas/rules.go
package schemas

import "fmt"

// RuleKind gates which callable kinds a rule may select.
type RuleKind string

const (
	FunctionModel RuleKind = "function_model"
	MethodModel   RuleKind = "method_model"
)

// AppliesTo reports whether a rule of this kind may consider the callable
// kind at all. A mismatch short-circuits rule evaluation before any
// constraint runs.
func (k RuleKind) AppliesTo(c CallableKind) bool {
	switch k {
	case FunctionModel:
		return c == CallableFunction
	case MethodModel:
		return c == CallableMethod
	}
	return false
}

// ConstraintKind discriminates the closed set of constraint variants.
type ConstraintKind string

const (
	ConstraintName         ConstraintKind = "name_matches"
	ConstraintReturn       ConstraintKind = "returns"
	ConstraintAnyParameter ConstraintKind = "any_parameter"
	ConstraintAnyOf        ConstraintKind = "any_of"
)

// AnnotationConstraint is a predicate over a parsed type annotation.
// IsAnnotatedType is currently the only variant.
type AnnotationConstraint string

const IsAnnotatedType AnnotationConstraint = "is_annotated_type"

// Constraint is one node of a rule's query tree. Kind selects the variant;
// only the fields for that variant are meaningful:
//
//	ConstraintName:         Pattern (regular expression over the external name)
//	ConstraintReturn:       Annotation
//	ConstraintAnyParameter: Annotation
//	ConstraintAnyOf:        AnyOf (logical OR over the children)
//
// Trees are finite and acyclic; a rule's top-level query is a list of
// constraints combined by logical AND.
type Constraint struct {
	Kind       ConstraintKind       `json:"kind"`
	Pattern    string               `json:"pattern,omitempty"`
	Annotation AnnotationConstraint `json:"annotation,omitempty"`
	AnyOf      []Constraint         `json:"any_of,omitempty"`
}

// Validate checks the variant tag and recursively validates children. It
// does not compile regex patterns; that happens at evaluation time so the
// error carries the rule context.
func (c Constraint) Validate() error {
	switch c.Kind {
	case ConstraintName:
		if c.Pattern == "" {
			return fmt.Errorf("name_matches constraint requires a pattern")
		}
	case ConstraintReturn, ConstraintAnyParameter:
		if c.Annotation != IsAnnotatedType {
			return fmt.Errorf("unknown annotation constraint %q", c.Annotation)
		}
	case ConstraintAnyOf:
		if len(c.AnyOf) == 0 {
			return fmt.Errorf("any_of constraint requires at least one alternative")
		}
		for _, sub := range c.AnyOf {
			if err := sub.Validate(); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown constraint kind %q", c.Kind)
	}
	return nil
}

// ProductionKind discriminates the closed set of production variants.
type ProductionKind string

const (
	ProductionReturn              ProductionKind = "return"
	ProductionParameter           ProductionKind = "parameter"
	ProductionPositionalParameter ProductionKind = "positional_parameter"
	ProductionAllParameters       ProductionKind = "all_parameters"
)

// Production describes what taint to attach to a matched callable. Kind
// selects the variant:
//
//	ProductionReturn:              every taint goes to the return slot
//	ProductionParameter:           first parameter named ParameterName
//	ProductionPositionalParameter: first parameter positional at ParameterIndex
//	ProductionAllParameters:       every parameter crossed with every taint
//
// Productions addressing a parameter that does not exist contribute nothing;
// that is deliberate so one rule can span callables with varying signatures.
type Production struct {
	Kind           ProductionKind    `json:"kind"`
	ParameterName  string            `json:"parameter_name,omitempty"`
	ParameterIndex int               `json:"parameter_index,omitempty"`
	Taint          []TaintAnnotation `json:"taint"`
}

// Validate checks the variant tag and its required fields.
func (p Production) Validate() error {
	switch p.Kind {
	case ProductionReturn, ProductionAllParameters:
	case ProductionParameter:
		if p.ParameterName == "" {
			return fmt.Errorf("parameter production requires a parameter name")
		}
	case ProductionPositionalParameter:
		if p.ParameterIndex < 0 {
			return fmt.Errorf("positional parameter production requires a non-negative index")
		}
	default:
		return fmt.Errorf("unknown production kind %q", p.Kind)
	}
	if len(p.Taint) == 0 {
		return fmt.Errorf("%s production carries no taint annotations", p.Kind)
	}
	return nil
}

// Rule is one user-authored model query: a kind gate, a conjunction of
// constraints, and the productions applied when every constraint matches.
// Immutable once loaded.
type Rule struct {
	Name        string       `json:"name,omitempty"`
	Kind        RuleKind     `json:"kind"`
	Query       []Constraint `json:"query"`
	Productions []Production `json:"productions"`
}

// Validate checks the rule's tags; it is called once at load time so the
// evaluator can assume well-formed variants.
func (r Rule) Validate() error {
	if r.Kind != FunctionModel && r.Kind != MethodModel {
		return fmt.Errorf("rule %q: unknown rule kind %q", r.Name, r.Kind)
	}
	for _, c := range r.Query {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("rule %q: %w", r.Name, err)
		}
	}
	if len(r.Productions) == 0 {
		return fmt.Errorf("rule %q: no productions", r.Name)
	}
	for _, p := range r.Productions {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("rule %q: %w", r.Name, err)
		}
	}
	return nil
}
