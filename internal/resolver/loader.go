// File: internal/resolver/loader.go
package resolver

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/xkilldash9x/modelquery/api/schemas"
)

// RuleSet is the parsed content of one rules file: the rules plus the
// optional taint filter the run's FilterContext is derived from.
type RuleSet struct {
	Rules  []schemas.Rule
	Filter *schemas.FilterContext
}

type ruleFile struct {
	Filter struct {
		Sources []string `yaml:"sources"`
		Sinks   []string `yaml:"sinks"`
	} `yaml:"filter"`
	Rules []ruleSpec `yaml:"rules"`
}

type ruleSpec struct {
	Name        string           `yaml:"name"`
	Kind        string           `yaml:"kind"`
	Query       []constraintSpec `yaml:"query"`
	Productions []productionSpec `yaml:"productions"`
}

// constraintSpec is the YAML surface of one constraint. Exactly one of the
// variant fields must be set.
type constraintSpec struct {
	NameMatches  string           `yaml:"name_matches,omitempty"`
	Returns      string           `yaml:"returns,omitempty"`
	AnyParameter string           `yaml:"any_parameter,omitempty"`
	AnyOf        []constraintSpec `yaml:"any_of,omitempty"`
}

type productionSpec struct {
	Kind  string      `yaml:"kind"`
	Name  string      `yaml:"name,omitempty"`
	Index int         `yaml:"index,omitempty"`
	Taint []taintSpec `yaml:"taint"`
}

type taintSpec struct {
	Kind string `yaml:"kind"`
	Name string `yaml:"name"`
}

// LoadRules reads and validates a YAML rules file. Every problem here is a
// configuration error and aborts the run.
func LoadRules(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	return ParseRules(data)
}

// ParseRules parses rules from raw YAML.
func ParseRules(data []byte) (*RuleSet, error) {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing rules file: %w", err)
	}

	set := &RuleSet{}
	if len(file.Filter.Sources) > 0 || len(file.Filter.Sinks) > 0 {
		set.Filter = schemas.NewFilterContext(file.Filter.Sources, file.Filter.Sinks)
	}

	for i, spec := range file.Rules {
		rule, err := spec.toRule()
		if err != nil {
			return nil, fmt.Errorf("rule %d (%q): %w", i, spec.Name, err)
		}
		if err := rule.Validate(); err != nil {
			return nil, err
		}
		set.Rules = append(set.Rules, rule)
	}
	return set, nil
}

func (s ruleSpec) toRule() (schemas.Rule, error) {
	rule := schemas.Rule{Name: s.Name}

	switch s.Kind {
	case "function":
		rule.Kind = schemas.FunctionModel
	case "method":
		rule.Kind = schemas.MethodModel
	default:
		return rule, fmt.Errorf("unknown rule kind %q (want function or method)", s.Kind)
	}

	for _, cs := range s.Query {
		c, err := cs.toConstraint()
		if err != nil {
			return rule, err
		}
		rule.Query = append(rule.Query, c)
	}

	for _, ps := range s.Productions {
		p, err := ps.toProduction()
		if err != nil {
			return rule, err
		}
		rule.Productions = append(rule.Productions, p)
	}
	return rule, nil
}

func (s constraintSpec) toConstraint() (schemas.Constraint, error) {
	set := 0
	var c schemas.Constraint
	if s.NameMatches != "" {
		set++
		c = schemas.Constraint{Kind: schemas.ConstraintName, Pattern: s.NameMatches}
	}
	if s.Returns != "" {
		set++
		c = schemas.Constraint{Kind: schemas.ConstraintReturn, Annotation: schemas.AnnotationConstraint(s.Returns)}
	}
	if s.AnyParameter != "" {
		set++
		c = schemas.Constraint{Kind: schemas.ConstraintAnyParameter, Annotation: schemas.AnnotationConstraint(s.AnyParameter)}
	}
	if len(s.AnyOf) > 0 {
		set++
		c = schemas.Constraint{Kind: schemas.ConstraintAnyOf}
		for _, sub := range s.AnyOf {
			child, err := sub.toConstraint()
			if err != nil {
				return c, err
			}
			c.AnyOf = append(c.AnyOf, child)
		}
	}
	if set != 1 {
		return c, fmt.Errorf("constraint must set exactly one of name_matches, returns, any_parameter, any_of")
	}
	return c, nil
}

func (s productionSpec) toProduction() (schemas.Production, error) {
	p := schemas.Production{
		ParameterName:  s.Name,
		ParameterIndex: s.Index,
	}
	switch s.Kind {
	case "return":
		p.Kind = schemas.ProductionReturn
	case "parameter":
		p.Kind = schemas.ProductionParameter
	case "positional_parameter":
		p.Kind = schemas.ProductionPositionalParameter
	case "all_parameters":
		p.Kind = schemas.ProductionAllParameters
	default:
		return p, fmt.Errorf("unknown production kind %q", s.Kind)
	}
	for _, t := range s.Taint {
		switch schemas.TaintKind(t.Kind) {
		case schemas.TaintSource, schemas.TaintSink, schemas.TaintSanitizer:
		default:
			return p, fmt.Errorf("unknown taint kind %q", t.Kind)
		}
		p.Taint = append(p.Taint, schemas.TaintAnnotation{
			Kind: schemas.TaintKind(t.Kind),
			Name: t.Name,
		})
	}
	return p, nil
}

type signatureFile struct {
	Callables []signatureEntry `yaml:"callables"`
}

type signatureEntry struct {
	Name       string           `yaml:"name"`
	Kind       string           `yaml:"kind"`
	Parameters []parameterEntry `yaml:"parameters"`
	Return     string           `yaml:"return,omitempty"`
}

type parameterEntry struct {
	Name       string `yaml:"name"`
	Root       string `yaml:"root,omitempty"` // positional | named | star | double_star
	Index      *int   `yaml:"index,omitempty"`
	Annotation string `yaml:"annotation,omitempty"`
}

// LoadSignatureIndex reads a YAML signature index into a resolver plus the
// callable universe it covers. Parameters default to positional roots in
// declaration order when no explicit root is given.
func LoadSignatureIndex(path string) ([]schemas.Callable, *InMemoryResolver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading signature index: %w", err)
	}
	return ParseSignatureIndex(data)
}

// ParseSignatureIndex parses a signature index from raw YAML.
func ParseSignatureIndex(data []byte) ([]schemas.Callable, *InMemoryResolver, error) {
	var file signatureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("parsing signature index: %w", err)
	}

	callables := make([]schemas.Callable, 0, len(file.Callables))
	defs := make(map[schemas.Callable]*schemas.Definition, len(file.Callables))
	for _, entry := range file.Callables {
		kind := schemas.CallableKind(entry.Kind)
		switch kind {
		case schemas.CallableFunction, schemas.CallableMethod, schemas.CallableClass, schemas.CallableGlobal:
		default:
			return nil, nil, fmt.Errorf("callable %q: unknown kind %q", entry.Name, entry.Kind)
		}

		c := schemas.Callable{Kind: kind, Name: entry.Name}
		def := &schemas.Definition{Return: entry.Return}
		for i, pe := range entry.Parameters {
			root, err := pe.toRoot(i)
			if err != nil {
				return nil, nil, fmt.Errorf("callable %q parameter %q: %w", entry.Name, pe.Name, err)
			}
			def.Parameters = append(def.Parameters, schemas.Parameter{
				Name:       pe.Name,
				Root:       root,
				Annotation: pe.Annotation,
			})
		}
		callables = append(callables, c)
		defs[c] = def
	}
	return callables, NewInMemoryResolver(defs), nil
}

func (pe parameterEntry) toRoot(declIndex int) (schemas.ParameterRoot, error) {
	switch pe.Root {
	case "", "positional":
		idx := declIndex
		if pe.Index != nil {
			idx = *pe.Index
		}
		return schemas.ParameterRoot{Kind: schemas.RootPositional, Index: idx, Name: pe.Name}, nil
	case "named":
		return schemas.ParameterRoot{Kind: schemas.RootNamed, Name: pe.Name}, nil
	case "star":
		return schemas.ParameterRoot{Kind: schemas.RootStar, Name: pe.Name}, nil
	case "double_star":
		return schemas.ParameterRoot{Kind: schemas.RootDoubleStar, Name: pe.Name}, nil
	}
	return schemas.ParameterRoot{}, fmt.Errorf("unknown root %q", pe.Root)
}
