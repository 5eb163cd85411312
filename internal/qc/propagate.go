package qc

import "log/slog"

// PropagationRule forces dependent parameters to a flag wherever a source
// parameter's test produced a given result. Rules model physical
// dependencies between sensor channels: an implausible wave-height reading
// invalidates the direction and period derived from the same record.
type PropagationRule struct {
	SourceParam string
	SourceTest  string
	When        Flag
	Force       Flag
	Dependents  []string
}

// DefaultPropagationRules holds the documented dependency: an hm0
// feasible-range failure forces mdir and tm02 to fail regardless of their
// own results.
func DefaultPropagationRules() []PropagationRule {
	return []PropagationRule{
		{
			SourceParam: "hm0",
			SourceTest:  TestIDFeasibleRange,
			When:        FlagFail,
			Force:       FlagFail,
			Dependents:  []string{"mdir", "tm02"},
		},
	}
}

// ApplyPropagation applies each rule once over the assembled report,
// overriding the dependents' coalesced columns. Rules referencing parameters
// absent from the report are skipped with a notice.
func ApplyPropagation(report *Report, rules []PropagationRule, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	for _, rule := range rules {
		source, ok := report.TestColumn(rule.SourceParam, rule.SourceTest)
		if !ok {
			logger.Warn("propagation rule source not in report, skipping",
				slog.String("parameter", rule.SourceParam),
				slog.String("test", rule.SourceTest))
			continue
		}

		for _, dependent := range rule.Dependents {
			qc, ok := report.QC[dependent]
			if !ok {
				logger.Warn("propagation rule dependent not in report, skipping",
					slog.String("parameter", dependent))
				continue
			}
			forced := 0
			for i, f := range source {
				if f == rule.When {
					qc[i] = rule.Force
					forced++
				}
			}
			if forced > 0 {
				logger.Info("propagated dependency failures",
					slog.String("source", rule.SourceParam),
					slog.String("source_test", rule.SourceTest),
					slog.String("dependent", dependent),
					slog.Int("rows", forced))
			}
		}
	}
}
