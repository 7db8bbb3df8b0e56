// File: internal/query/evaluator.go
package query

import (
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/xkilldash9x/modelquery/api/schemas"
)

// Evaluator decides whether callables satisfy rule constraints and applies
// productions to the ones that do. It is stateless apart from its injected
// collaborators and safe for concurrent use across worker goroutines.
type Evaluator struct {
	resolver schemas.DefinitionResolver
	parser   schemas.TypeParser
	diag     schemas.DiagnosticsSink
	logger   *zap.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithDiagnostics installs a sink for rule-match notices.
func WithDiagnostics(sink schemas.DiagnosticsSink) Option {
	return func(e *Evaluator) { e.diag = sink }
}

// WithLogger overrides the default no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Evaluator) { e.logger = logger.Named("query") }
}

// NewEvaluator builds an Evaluator over the given resolver and type parser.
func NewEvaluator(resolver schemas.DefinitionResolver, parser schemas.TypeParser, opts ...Option) *Evaluator {
	e := &Evaluator{
		resolver: resolver,
		parser:   parser,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Matches evaluates one constraint against one callable. The only error it
// can return is a configuration error (an invalid regex pattern); every
// resolution gap is a plain non-match.
func (e *Evaluator) Matches(c schemas.Constraint, callable schemas.Callable) (bool, error) {
	def, _ := e.resolver.Resolve(callable)
	return e.matches(c, callable, def)
}

// matches is the structural walk over the constraint tree. The definition
// is resolved once by the caller and threaded through so a query list and
// any_of alternatives share one lookup.
func (e *Evaluator) matches(c schemas.Constraint, callable schemas.Callable, def *schemas.Definition) (bool, error) {
	switch c.Kind {
	case schemas.ConstraintName:
		re, err := regexp.Compile(c.Pattern)
		if err != nil {
			return false, fmt.Errorf("invalid name pattern %q: %w", c.Pattern, err)
		}
		return re.MatchString(callable.ExternalName()), nil

	case schemas.ConstraintReturn:
		if def == nil || def.Return == "" {
			return false, nil
		}
		return e.matchAnnotation(c.Annotation, e.parser.Parse(def.Return)), nil

	case schemas.ConstraintAnyParameter:
		if def == nil {
			return false, nil
		}
		for _, p := range def.Parameters {
			if p.Annotation == "" {
				continue
			}
			if e.matchAnnotation(c.Annotation, e.parser.Parse(p.Annotation)) {
				return true, nil
			}
		}
		return false, nil

	case schemas.ConstraintAnyOf:
		for _, sub := range c.AnyOf {
			ok, err := e.matches(sub, callable, def)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	}
	return false, fmt.Errorf("unknown constraint kind %q", c.Kind)
}

// matchAnnotation tests a parsed type against an annotation constraint.
func (e *Evaluator) matchAnnotation(ac schemas.AnnotationConstraint, t schemas.StructuredType) bool {
	switch ac {
	case schemas.IsAnnotatedType:
		return t.Annotated
	}
	return false
}

// queryMatches is the top-level AND over a rule's constraint list.
// Constraints are pure, so it short-circuits on the first failure.
func (e *Evaluator) queryMatches(query []schemas.Constraint, callable schemas.Callable, def *schemas.Definition) (bool, error) {
	for _, c := range query {
		ok, err := e.matches(c, callable, def)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
