// Package atcommands holds the lookup table that maps an assistive technology, an AT mode and
// a task to the commands a tester must exercise, along with the per-mode setup instructions.
//
// The table is data, not code: a default table is embedded in the binary and a replacement can
// be loaded from a YAML file.
package atcommands

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_commands.yaml
var defaultTableYAML []byte

// Table is an immutable AT command lookup table.
type Table struct {
	ats          []string
	canonical    map[string]string
	instructions map[string]map[string]string
	commands     map[string]map[string]map[string][]string
}

type tableFile struct {
	ATs []struct {
		Name    string   `yaml:"name"`
		Aliases []string `yaml:"aliases"`
	} `yaml:"ats"`
	Modes    map[string]map[string]string `yaml:"modes"`
	Commands map[string]map[string]map[string][]string `yaml:"commands"`
}

// Default returns the table embedded in the binary.
func Default() *Table {
	t, err := Load(bytes.NewReader(defaultTableYAML))
	if err != nil {
		panic("embedded AT command table is invalid: " + err.Error())
	}
	return t
}

// LoadFile reads a table from a YAML file.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Load parses a table from YAML. Every AT named under modes or commands must be declared in
// the ats list, either by name or by alias.
func Load(r io.Reader) (*Table, error) {
	var tf tableFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&tf); err != nil {
		return nil, fmt.Errorf("malformed AT command table: %w", err)
	}
	if len(tf.ATs) == 0 {
		return nil, fmt.Errorf("AT command table declares no assistive technologies")
	}

	t := &Table{
		canonical:    make(map[string]string),
		instructions: make(map[string]map[string]string),
		commands:     make(map[string]map[string]map[string][]string),
	}
	for _, at := range tf.ATs {
		if at.Name == "" {
			return nil, fmt.Errorf("AT command table has an assistive technology with no name")
		}
		t.ats = append(t.ats, at.Name)
		t.canonical[strings.ToLower(at.Name)] = at.Name
		for _, alias := range at.Aliases {
			t.canonical[strings.ToLower(alias)] = at.Name
		}
	}

	for mode, byAT := range tf.Modes {
		t.instructions[mode] = make(map[string]string)
		for atName, text := range byAT {
			canon, ok := t.KnownAT(atName)
			if !ok {
				return nil, fmt.Errorf("mode %q has instructions for undeclared AT %q", mode, atName)
			}
			t.instructions[mode][canon] = text
		}
	}

	for task, byMode := range tf.Commands {
		t.commands[task] = make(map[string]map[string][]string)
		for mode, byAT := range byMode {
			t.commands[task][mode] = make(map[string][]string)
			for atName, cmds := range byAT {
				canon, ok := t.KnownAT(atName)
				if !ok {
					return nil, fmt.Errorf("task %q mode %q has commands for undeclared AT %q", task, mode, atName)
				}
				t.commands[task][mode][canon] = cmds
			}
		}
	}
	return t, nil
}

// KnownAT reports whether name (case-insensitively, or by alias) is a declared assistive
// technology, and returns its canonical name.
func (t *Table) KnownAT(name string) (string, bool) {
	canon, ok := t.canonical[strings.ToLower(strings.TrimSpace(name))]
	return canon, ok
}

// ATs returns the canonical names of all declared assistive technologies, in declaration order.
func (t *Table) ATs() []string {
	return append([]string(nil), t.ats...)
}

// Tasks returns every task that has at least one command mapping, sorted.
func (t *Table) Tasks() []string {
	ret := make([]string, 0, len(t.commands))
	for task := range t.commands {
		ret = append(ret, task)
	}
	sort.Strings(ret)
	return ret
}

// Commands returns the commands for performing task in mode with the given AT. The result is
// empty, not an error, if there is no mapping: an AT may legitimately have nothing to offer for
// some mode and task.
func (t *Table) Commands(mode, task, at string) []string {
	canon, ok := t.KnownAT(at)
	if !ok {
		return nil
	}
	return append([]string(nil), t.commands[task][mode][canon]...)
}

// ModeInstructions returns the instructions for putting the AT into the given mode, or an empty
// string if there are none.
func (t *Table) ModeInstructions(mode, at string) string {
	canon, ok := t.KnownAT(at)
	if !ok {
		return ""
	}
	return t.instructions[mode][canon]
}
