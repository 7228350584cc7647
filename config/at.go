package config

import (
	"fmt"
)

// ATTable is the part of the command table needed to resolve an AT name. *atcommands.Table
// implements it.
type ATTable interface {
	KnownAT(name string) (string, bool)
	ATs() []string
}

// ResolveAT returns the canonical name of the configured AT.
//
// If the table has no commands for the requested AT, the run falls back to DefaultAT (or the
// first AT of the table, if the table does not know DefaultAT either) and a warning for the
// tester is returned. Warnings are shown before the run; they are not part of the report.
func (c *Config) ResolveAT(table ATTable) (string, []string) {
	requested := c.AT
	if requested == "" {
		requested = DefaultAT
	}
	if name, ok := table.KnownAT(requested); ok {
		return name, nil
	}

	fallback, ok := table.KnownAT(DefaultAT)
	if !ok {
		if ats := table.ATs(); len(ats) > 0 {
			fallback = ats[0]
		} else {
			fallback = DefaultAT
		}
	}
	return fallback, []string{unknownATWarning(requested, fallback)}
}

func unknownATWarning(requested, fallback string) string {
	return fmt.Sprintf("Harness does not have commands for the requested assistive technology ('%s'), "+
		"showing commands for assistive technology '%s' instead. To test '%s', please contribute "+
		"command mappings to this project.", requested, fallback, requested)
}
