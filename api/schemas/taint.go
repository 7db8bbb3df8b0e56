// File: api/schemas/taint.go
package schemas

import "fmt"

// TaintKind categorizes a taint annotation.
type TaintKind string

const (
	TaintSource    TaintKind = "source"
	TaintSink      TaintKind = "sink"
	TaintSanitizer TaintKind = "sanitizer"
)

// Well-known taint names used by the bundled rule sets. Rules are free to
// introduce their own names; these exist so common ones are spelled
// consistently.
const (
	TaintNameUserControlled = "UserControlled"
	TaintNameRemoteCode     = "RemoteCodeExecution"
	TaintNameSQL            = "SQLInjection"
	TaintNameLogging        = "Logging"
)

// TaintAnnotation is the opaque payload a production attaches to a target.
// The engine routes it without interpreting it.
type TaintAnnotation struct {
	Kind TaintKind `json:"kind" yaml:"kind"`
	Name string    `json:"name" yaml:"name"`
}

func (t TaintAnnotation) String() string {
	return fmt.Sprintf("%s:%s", t.Kind, t.Name)
}

// TargetKind distinguishes the two places taint can be attached.
type TargetKind string

const (
	TargetReturn    TargetKind = "return"
	TargetParameter TargetKind = "parameter"
)

// AnnotationTarget identifies where in a model a taint annotation lands:
// the return slot, or one parameter addressed by its root.
type AnnotationTarget struct {
	Kind TargetKind    `json:"kind" yaml:"kind"`
	Root ParameterRoot `json:"root,omitempty" yaml:"root,omitempty"`
}

// ReturnTarget addresses the return slot.
func ReturnTarget() AnnotationTarget {
	return AnnotationTarget{Kind: TargetReturn}
}

// ParameterTarget addresses the parameter with the given root.
func ParameterTarget(root ParameterRoot) AnnotationTarget {
	return AnnotationTarget{Kind: TargetParameter, Root: root}
}

func (t AnnotationTarget) String() string {
	if t.Kind == TargetReturn {
		return "return"
	}
	return t.Root.String()
}

// AnnotationPair is one (target, taint) contribution produced by a rule.
type AnnotationPair struct {
	Target AnnotationTarget `json:"target"`
	Taint  TaintAnnotation  `json:"taint"`
}

// Key is the canonical identity of a pair, used by model join to
// deduplicate identical contributions.
func (p AnnotationPair) Key() string {
	return p.Target.String() + "|" + p.Taint.String()
}

// FilterContext is the precomputed allow-list of taint sources and sinks
// retained for a run. It is derived once from configuration before any
// chunk runs and shared read-only across workers. A nil FilterContext, or
// an empty list for a kind, retains everything of that kind.
type FilterContext struct {
	sources map[string]struct{}
	sinks   map[string]struct{}
}

// NewFilterContext builds a filter retaining only the named sources and
// sinks. Empty slices mean "retain all" for that kind.
func NewFilterContext(sources, sinks []string) *FilterContext {
	fc := &FilterContext{}
	if len(sources) > 0 {
		fc.sources = make(map[string]struct{}, len(sources))
		for _, s := range sources {
			fc.sources[s] = struct{}{}
		}
	}
	if len(sinks) > 0 {
		fc.sinks = make(map[string]struct{}, len(sinks))
		for _, s := range sinks {
			fc.sinks[s] = struct{}{}
		}
	}
	return fc
}

// Allows reports whether the annotation survives the filter. Sanitizers are
// never filtered.
func (fc *FilterContext) Allows(t TaintAnnotation) bool {
	if fc == nil {
		return true
	}
	switch t.Kind {
	case TaintSource:
		if fc.sources == nil {
			return true
		}
		_, ok := fc.sources[t.Name]
		return ok
	case TaintSink:
		if fc.sinks == nil {
			return true
		}
		_, ok := fc.sinks[t.Name]
		return ok
	default:
		return true
	}
}
