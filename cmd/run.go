// File: cmd/run.go
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/modelquery/api/schemas"
	"github.com/xkilldash9x/modelquery/internal/engine"
	"github.com/xkilldash9x/modelquery/internal/modeling"
	"github.com/xkilldash9x/modelquery/internal/observability"
	"github.com/xkilldash9x/modelquery/internal/query"
	"github.com/xkilldash9x/modelquery/internal/reporting"
	"github.com/xkilldash9x/modelquery/internal/resolver"
	"github.com/xkilldash9x/modelquery/internal/scheduler"
)

// newRunCmd creates and configures the `run` command.
func newRunCmd() *cobra.Command {
	var (
		rulesPath      string
		signaturesPath string
		outputPath     string
		onlyRules      []string
		concurrency    int
		verbose        bool
	)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluates a rule set against a signature index and writes taint models",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			ruleSet, err := resolver.LoadRules(rulesPath)
			if err != nil {
				return err
			}
			rules := ruleSet.Rules
			if len(onlyRules) > 0 {
				rules = selectRules(rules, onlyRules)
				logger.Info("Rule filter applied",
					zap.Int("selected", len(rules)),
					zap.Int("total", len(ruleSet.Rules)))
			}

			callables, defs, err := resolver.LoadSignatureIndex(signaturesPath)
			if err != nil {
				return err
			}

			engineCfg := cfg.Engine()
			if concurrency > 0 {
				engineCfg.WorkerConcurrency = concurrency
			}
			if verbose {
				engineCfg.VerboseMatching = true
			}

			var evalOpts []query.Option
			if engineCfg.VerboseMatching {
				evalOpts = append(evalOpts,
					query.WithLogger(logger),
					query.WithDiagnostics(engine.NewZapDiagnostics(logger)))
			}

			sched := scheduler.NewParallel(scheduler.ChunkPolicy{
				MinChunkSize: engineCfg.MinChunkSize,
				Workers:      engineCfg.WorkerConcurrency,
			}, logger)

			eng := engine.New(defs, resolver.NewAnnotationParser(), logger, evalOpts,
				engine.WithScheduler(sched))

			start := time.Now()
			results, err := eng.RunAllRules(ctx, rules, callables, modeling.ResultMap{}, ruleSet.Filter)
			if err != nil {
				return err
			}
			logger.Info("Run finished",
				zap.Int("models", len(results)),
				zap.Duration("elapsed", time.Since(start)))

			report := reporting.Build(results)
			if outputPath == "" {
				data, err := report.ToJSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			return report.WriteFile(outputPath)
		},
	}

	runCmd.Flags().StringVar(&rulesPath, "rules", "", "path to the YAML rules file (required)")
	runCmd.Flags().StringVar(&signaturesPath, "signatures", "", "path to the YAML signature index (required)")
	runCmd.Flags().StringVarP(&outputPath, "output", "o", "", "report output path (default stdout)")
	runCmd.Flags().StringSliceVar(&onlyRules, "only-rules", nil, "run only the named rules")
	runCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of parallel workers (default: one per CPU)")
	runCmd.Flags().BoolVar(&verbose, "verbose-matching", false, "log every rule/callable match")
	_ = runCmd.MarkFlagRequired("rules")
	_ = runCmd.MarkFlagRequired("signatures")

	return runCmd
}

// selectRules keeps only the rules whose name is in names, preserving rule
// file order.
func selectRules(rules []schemas.Rule, names []string) []schemas.Rule {
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}
	out := make([]schemas.Rule, 0, len(rules))
	for _, r := range rules {
		if _, ok := wanted[r.Name]; ok {
			out = append(out, r)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(newRunCmd())
}
