// File: internal/engine/diagnostics.go
package engine

import (
	"go.uber.org/zap"

	"github.com/xkilldash9x/modelquery/api/schemas"
)

// ZapDiagnostics is a DiagnosticsSink writing match notices to a zap
// logger. Informational only; enable it for verbose rule debugging.
type ZapDiagnostics struct {
	logger *zap.Logger
}

// NewZapDiagnostics returns a sink logging through the given logger.
func NewZapDiagnostics(logger *zap.Logger) *ZapDiagnostics {
	return &ZapDiagnostics{logger: logger.Named("diagnostics")}
}

// RuleMatched implements schemas.DiagnosticsSink.
func (d *ZapDiagnostics) RuleMatched(rule schemas.Rule, c schemas.Callable) {
	d.logger.Info("Rule matched callable",
		zap.String("rule", rule.Name),
		zap.String("kind", string(rule.Kind)),
		zap.String("callable", c.Name))
}
