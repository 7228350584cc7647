package behavior

// CommandLookup resolves the commands for a task in a mode for an assistive technology.
// *atcommands.Table implements it.
type CommandLookup interface {
	Commands(mode, task, at string) []string
}

// Expand turns behavior specs into the ordered queue of single-mode behaviors for the given AT.
//
// The output is in spec-then-mode order, which is the order the tester sees. A mode for which
// the AT has no commands is dropped without any placeholder.
func Expand(specs []Spec, at string, lookup CommandLookup) []Resolved {
	var ret []Resolved
	for _, spec := range specs {
		ret = append(ret, ExpandOne(spec, at, lookup)...)
	}
	return ret
}

// ExpandOne expands a single spec; see Expand.
func ExpandOne(spec Spec, at string, lookup CommandLookup) []Resolved {
	var ret []Resolved
	for _, mode := range spec.Modes {
		commands := lookup.Commands(mode, spec.Task, at)
		if len(commands) == 0 {
			continue
		}
		ret = append(ret, Resolved{
			Mode:                    mode,
			Task:                    spec.Task,
			SpecificUserInstruction: spec.SpecificUserInstruction,
			Assertions:              append([]string(nil), spec.Assertions...),
			Commands:                append([]string(nil), commands...),
			SetupHostWindow:         spec.SetupHostWindow,
		})
	}
	return ret
}
