// File: api/schemas/schemas.go
package schemas

import "fmt"

// CallableKind classifies the entities the upstream resolver can identify.
// Only functions and methods are eligible for model generation; the other
// kinds exist so resolver output can be passed through without translation.
type CallableKind string

const (
	CallableFunction CallableKind = "function"
	CallableMethod   CallableKind = "method"
	CallableClass    CallableKind = "class"
	CallableGlobal   CallableKind = "global"
)

// Callable identifies one function or method in the analyzed program.
// It is immutable and resolved externally; Name is the fully-qualified
// external name (e.g. "app.views.login").
type Callable struct {
	Kind CallableKind `json:"kind" yaml:"kind"`
	Name string       `json:"name" yaml:"name"`
}

// ExternalName returns the fully-qualified name used for name matching.
func (c Callable) ExternalName() string { return c.Name }

// Modelable reports whether this callable kind can ever receive a model.
func (c Callable) Modelable() bool {
	return c.Kind == CallableFunction || c.Kind == CallableMethod
}

func (c Callable) String() string {
	return fmt.Sprintf("%s:%s", c.Kind, c.Name)
}

// RootKind distinguishes the addressing modes a parameter can have.
type RootKind string

const (
	RootPositional RootKind = "positional"
	RootNamed      RootKind = "named"
	RootStar       RootKind = "star"
	RootDoubleStar RootKind = "double_star"
)

// ParameterRoot is the normalized address of one parameter: an ordinary
// positional slot at Index, a keyword-only Name, or one of the two variadic
// forms. Positional roots also carry the declared name when one exists.
type ParameterRoot struct {
	Kind  RootKind `json:"kind" yaml:"kind"`
	Index int      `json:"index,omitempty" yaml:"index,omitempty"`
	Name  string   `json:"name,omitempty" yaml:"name,omitempty"`
}

func (r ParameterRoot) String() string {
	switch r.Kind {
	case RootPositional:
		if r.Name != "" {
			return fmt.Sprintf("positional(%d:%s)", r.Index, r.Name)
		}
		return fmt.Sprintf("positional(%d)", r.Index)
	case RootNamed:
		return fmt.Sprintf("named(%s)", r.Name)
	case RootStar:
		return "*args"
	case RootDoubleStar:
		return "**kwargs"
	}
	return string(r.Kind)
}

// Parameter is one entry of a resolved signature. Annotation holds the raw,
// unparsed type annotation; empty means the parameter is unannotated.
type Parameter struct {
	Name       string        `json:"name" yaml:"name"`
	Root       ParameterRoot `json:"root" yaml:"root"`
	Annotation string        `json:"annotation,omitempty" yaml:"annotation,omitempty"`
}

// Definition is the resolved signature of a callable: its normalized
// parameter list plus the raw return annotation ("" if absent). Owned by
// the external resolver; this engine only reads it.
type Definition struct {
	Parameters []Parameter `json:"parameters" yaml:"parameters"`
	Return     string      `json:"return,omitempty" yaml:"return,omitempty"`
}

// StructuredType is the parsed form of a raw annotation string. Annotated
// is true when the type is wrapped in the explicit-annotation marker
// (Annotated[...]); Inner then holds the wrapped expression.
type StructuredType struct {
	Raw       string
	Annotated bool
	Inner     string
}
