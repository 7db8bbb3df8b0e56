// File: internal/engine/engine.go
package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/modelquery/api/schemas"
	"github.com/xkilldash9x/modelquery/internal/modeling"
	"github.com/xkilldash9x/modelquery/internal/query"
	"github.com/xkilldash9x/modelquery/internal/scheduler"
)

// Engine evaluates a rule set against a callable universe and produces one
// consistent callable-to-model mapping. It owns no state of its own beyond
// its injected collaborators, so a single Engine serves any number of runs.
type Engine struct {
	evaluator *query.Evaluator
	assembler schemas.ModelAssembler
	sched     scheduler.Scheduler
	logger    *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithScheduler replaces the default parallel scheduler.
func WithScheduler(s scheduler.Scheduler) Option {
	return func(e *Engine) { e.sched = s }
}

// WithAssembler replaces the default model assembler.
func WithAssembler(a schemas.ModelAssembler) Option {
	return func(e *Engine) { e.assembler = a }
}

// New builds an Engine over the given resolver and type parser. Defaults:
// the modeling.Assembler and a Parallel scheduler with the default chunk
// policy. Rule-match diagnostics are emitted when a sink is supplied via
// the evaluator options.
func New(resolver schemas.DefinitionResolver, parser schemas.TypeParser, logger *zap.Logger, evalOpts []query.Option, opts ...Option) *Engine {
	e := &Engine{
		evaluator: query.NewEvaluator(resolver, parser, evalOpts...),
		logger:    logger.Named("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.assembler == nil {
		e.assembler = modeling.NewAssembler(logger)
	}
	if e.sched == nil {
		e.sched = scheduler.NewParallel(scheduler.ChunkPolicy{}, logger)
	}
	return e
}

// RunAllRules is the engine's single public operation. It filters the
// universe to function and method callables, maps the rule set over static
// chunks, reduces the partial maps, and merges the result into a copy of
// initial. An empty rule list returns initial unchanged. Any configuration
// error or worker failure aborts the whole run.
func (e *Engine) RunAllRules(
	ctx context.Context,
	rules []schemas.Rule,
	callables []schemas.Callable,
	initial modeling.ResultMap,
	filter *schemas.FilterContext,
) (modeling.ResultMap, error) {
	if len(rules) == 0 {
		return initial, nil
	}

	eligible := make([]schemas.Callable, 0, len(callables))
	for _, c := range callables {
		if c.Modelable() {
			eligible = append(eligible, c)
		}
	}
	e.logger.Info("Starting model query run",
		zap.Int("rules", len(rules)),
		zap.Int("callables", len(eligible)),
		zap.Int("skipped", len(callables)-len(eligible)))

	mapFn := func(ctx context.Context, chunk []schemas.Callable) (modeling.ResultMap, error) {
		partial := modeling.ResultMap{}
		for _, c := range chunk {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := e.aggregate(rules, c, partial, filter); err != nil {
				return nil, err
			}
		}
		return partial, nil
	}

	reduced, err := e.sched.Run(ctx, eligible, mapFn, modeling.Merge)
	if err != nil {
		return nil, fmt.Errorf("model query run failed: %w", err)
	}

	result := modeling.Merge(initial.Clone(), reduced)
	e.logger.Info("Model query run complete", zap.Int("models", len(result)))
	return result, nil
}

// aggregate runs every rule against one callable and stores the assembled
// model in partial, joining with any entry already present for that
// callable. An assembler returning nil leaves partial untouched.
func (e *Engine) aggregate(rules []schemas.Rule, c schemas.Callable, partial modeling.ResultMap, filter *schemas.FilterContext) error {
	pairs, err := e.evaluator.EvaluateAllRules(rules, c)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		return nil
	}
	model := e.assembler.Build(c, pairs, filter)
	if model == nil {
		return nil
	}
	partial.Add(c, model)
	return nil
}
