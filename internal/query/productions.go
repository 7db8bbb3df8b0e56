// File: internal/query/productions.go
package query

import "github.com/xkilldash9x/modelquery/api/schemas"

// Apply runs every production against the callable and concatenates their
// contributions in production order. Duplicate targets are legal and simply
// accumulate; model join resolves them later. An unresolvable callable
// yields nothing.
func (e *Evaluator) Apply(productions []schemas.Production, callable schemas.Callable) []schemas.AnnotationPair {
	def, ok := e.resolver.Resolve(callable)
	if !ok || def == nil {
		return nil
	}
	return applyProductions(productions, def)
}

func applyProductions(productions []schemas.Production, def *schemas.Definition) []schemas.AnnotationPair {
	var pairs []schemas.AnnotationPair
	for _, p := range productions {
		pairs = append(pairs, applyProduction(p, def)...)
	}
	return pairs
}

// applyProduction computes one production's contribution. Productions that
// address a parameter the signature does not have contribute nothing; rules
// are written generically across heterogeneous signatures and a missing
// target is not an error.
func applyProduction(p schemas.Production, def *schemas.Definition) []schemas.AnnotationPair {
	switch p.Kind {
	case schemas.ProductionReturn:
		pairs := make([]schemas.AnnotationPair, 0, len(p.Taint))
		for _, t := range p.Taint {
			pairs = append(pairs, schemas.AnnotationPair{Target: schemas.ReturnTarget(), Taint: t})
		}
		return pairs

	case schemas.ProductionParameter:
		for _, param := range def.Parameters {
			if param.Name == p.ParameterName {
				return taintParameter(param, p.Taint)
			}
		}
		return nil

	case schemas.ProductionPositionalParameter:
		for _, param := range def.Parameters {
			if param.Root.Kind == schemas.RootPositional && param.Root.Index == p.ParameterIndex {
				return taintParameter(param, p.Taint)
			}
		}
		return nil

	case schemas.ProductionAllParameters:
		// Full cross product, parameter-major.
		pairs := make([]schemas.AnnotationPair, 0, len(def.Parameters)*len(p.Taint))
		for _, param := range def.Parameters {
			pairs = append(pairs, taintParameter(param, p.Taint)...)
		}
		return pairs
	}
	return nil
}

func taintParameter(param schemas.Parameter, taint []schemas.TaintAnnotation) []schemas.AnnotationPair {
	pairs := make([]schemas.AnnotationPair, 0, len(taint))
	for _, t := range taint {
		pairs = append(pairs, schemas.AnnotationPair{Target: schemas.ParameterTarget(param.Root), Taint: t})
	}
	return pairs
}
