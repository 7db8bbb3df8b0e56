// File: internal/query/ruleengine.go
package query

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/modelquery/api/schemas"
)

// EvaluateRule runs one rule against one callable: kind gate first, then
// the query conjunction, then the productions. A non-match yields nil with
// no error; only configuration errors (bad regex, malformed variant) abort.
func (e *Evaluator) EvaluateRule(rule schemas.Rule, callable schemas.Callable) ([]schemas.AnnotationPair, error) {
	if !rule.Kind.AppliesTo(callable.Kind) {
		return nil, nil
	}

	def, _ := e.resolver.Resolve(callable)

	ok, err := e.queryMatches(rule.Query, callable, def)
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", rule.Name, err)
	}
	if !ok {
		return nil, nil
	}

	if e.diag != nil {
		e.diag.RuleMatched(rule, callable)
	}
	e.logger.Debug("Rule matched callable",
		zap.String("rule", rule.Name),
		zap.String("callable", callable.Name))

	if def == nil {
		return nil, nil
	}
	return applyProductions(rule.Productions, def), nil
}

// EvaluateAllRules aggregates every rule's contribution for one callable,
// in rule list order. The definition lookup inside EvaluateRule is served
// by the resolver; resolvers are expected to be cheap repeat-lookup stores.
func (e *Evaluator) EvaluateAllRules(rules []schemas.Rule, callable schemas.Callable) ([]schemas.AnnotationPair, error) {
	var pairs []schemas.AnnotationPair
	for _, rule := range rules {
		got, err := e.EvaluateRule(rule, callable)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, got...)
	}
	return pairs, nil
}
