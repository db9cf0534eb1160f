// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package change

import "time"

// LogBudgets is the number of attempts made to fetch the logs of an
// update, keyed by artifact type. The values are tuning parameters
// measured against the service and may be overridden from configuration.
type LogBudgets map[string]int

const (
	// DefaultLogAttempts is used for types without an entry.
	DefaultLogAttempts = 20

	// LogAttemptDelay is the time between two attempts.
	LogAttemptDelay = time.Second
)

// DefaultLogBudgets returns the budgets used unless configured otherwise.
func DefaultLogBudgets() LogBudgets {
	return LogBudgets{
		TypeDispatcherConfig: 30,
		TypeFrontend:         90,
	}
}

// Attempts returns the budget for the artifact type.
func (b LogBudgets) Attempts(artifactType string) int {
	if n, ok := b[artifactType]; ok && n > 0 {
		return n
	}
	return DefaultLogAttempts
}

// Merge returns a copy of b with the overrides applied. Non-positive
// overrides are ignored.
func (b LogBudgets) Merge(overrides map[string]int) LogBudgets {
	result := make(LogBudgets, len(b)+len(overrides))
	for k, v := range b {
		result[k] = v
	}
	for k, v := range overrides {
		if v > 0 {
			result[k] = v
		}
	}
	return result
}
