// File: internal/modeling/assembler.go
package modeling

import (
	"go.uber.org/zap"

	"github.com/xkilldash9x/modelquery/api/schemas"
)

// Assembler is the default ModelAssembler: it applies the run's filter
// context to the aggregated pairs and wraps the survivors in a TaintModel.
type Assembler struct {
	logger *zap.Logger
}

// NewAssembler returns an Assembler logging through the given logger.
func NewAssembler(logger *zap.Logger) *Assembler {
	return &Assembler{logger: logger.Named("assembler")}
}

// Build implements schemas.ModelAssembler. It returns nil when the filter
// removes every pair; callers leave the callable untouched in that case.
func (a *Assembler) Build(c schemas.Callable, pairs []schemas.AnnotationPair, filter *schemas.FilterContext) schemas.Model {
	kept := pairs[:0:0]
	for _, p := range pairs {
		if filter.Allows(p.Taint) {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		if len(pairs) > 0 {
			a.logger.Debug("All annotations filtered out",
				zap.String("callable", c.Name),
				zap.Int("dropped", len(pairs)))
		}
		return nil
	}
	return NewTaintModel(c, kept)
}
