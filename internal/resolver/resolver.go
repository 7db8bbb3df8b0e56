// File: internal/resolver/resolver.go
package resolver

import (
	"strings"

	"github.com/xkilldash9x/modelquery/api/schemas"
)

// InMemoryResolver serves definitions from a prebuilt index. It is
// read-only after construction and therefore safe to share across worker
// goroutines without locking.
type InMemoryResolver struct {
	defs map[schemas.Callable]*schemas.Definition
}

// NewInMemoryResolver builds a resolver over the given definitions.
func NewInMemoryResolver(defs map[schemas.Callable]*schemas.Definition) *InMemoryResolver {
	if defs == nil {
		defs = map[schemas.Callable]*schemas.Definition{}
	}
	return &InMemoryResolver{defs: defs}
}

// Resolve implements schemas.DefinitionResolver.
func (r *InMemoryResolver) Resolve(c schemas.Callable) (*schemas.Definition, bool) {
	def, ok := r.defs[c]
	return def, ok
}

// Callables returns every callable the index knows about, in map order.
func (r *InMemoryResolver) Callables() []schemas.Callable {
	out := make([]schemas.Callable, 0, len(r.defs))
	for c := range r.defs {
		out = append(out, c)
	}
	return out
}

// annotatedPrefixes are the spellings of the explicit-annotation wrapper
// the parser recognizes.
var annotatedPrefixes = []string{"Annotated[", "typing.Annotated["}

// AnnotationParser is the default TypeParser. It only needs to recognize
// the explicit-annotation wrapper; everything else passes through as an
// opaque expression.
type AnnotationParser struct{}

// NewAnnotationParser returns the default parser.
func NewAnnotationParser() *AnnotationParser { return &AnnotationParser{} }

// Parse implements schemas.TypeParser.
func (*AnnotationParser) Parse(raw string) schemas.StructuredType {
	trimmed := strings.TrimSpace(raw)
	for _, prefix := range annotatedPrefixes {
		if strings.HasPrefix(trimmed, prefix) && strings.HasSuffix(trimmed, "]") {
			return schemas.StructuredType{
				Raw:       raw,
				Annotated: true,
				Inner:     strings.TrimSuffix(strings.TrimPrefix(trimmed, prefix), "]"),
			}
		}
	}
	return schemas.StructuredType{Raw: raw}
}
