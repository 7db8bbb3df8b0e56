// File: api/schemas/interfaces.go
package schemas

// Model is the taint specification attached to one callable. It is opaque
// to the query engine, which only requires the join operation. Join must be
// associative, commutative, and idempotent; the whole parallel design leans
// on exactly that property.
type Model interface {
	// Join combines two models for the same callable into one. The receiver
	// and argument are not modified.
	Join(other Model) Model
	// Pairs returns the model's annotation pairs in a canonical order.
	Pairs() []AnnotationPair
}

// DefinitionResolver supplies a callable's resolved signature. The second
// return is false when no definition could be found; the engine treats that
// as a non-match, never as an error.
type DefinitionResolver interface {
	Resolve(c Callable) (*Definition, bool)
}

// TypeParser turns a raw annotation string into its structured form before
// annotation-constraint tests run.
type TypeParser interface {
	Parse(raw string) StructuredType
}

// ModelAssembler builds a Model from the annotation pairs aggregated for
// one callable, applying the run's filter context. Returning nil means
// nothing valid could be built; the callable is then left untouched.
type ModelAssembler interface {
	Build(c Callable, pairs []AnnotationPair, filter *FilterContext) Model
}

// DiagnosticsSink receives informational notices when a rule matches a
// callable. Purely observational; implementations must not affect results.
type DiagnosticsSink interface {
	RuleMatched(rule Rule, c Callable)
}
