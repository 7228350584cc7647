// Package testdef reads test definition files. A definition names the test, the page the tester
// exercises, and the behaviors to verify on it:
//
//	title: Checkbox example (two state)
//	hostPage: checkbox.html
//	behaviors:
//	  - mode: [reading, interaction]
//	    task: navigate to an unchecked checkbox
//	    specificUserInstruction: Navigate to the first checkbox.
//	    assertions:
//	      - The role 'checkbox' is spoken
//	      - The state of the checkbox (not checked) is spoken
//	    setupScript: document.querySelector('#before').focus()
package testdef

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/launchdarkly/aria-at-harness/behavior"
	"github.com/launchdarkly/aria-at-harness/hostwindow"
)

// Definition is one test definition file.
type Definition struct {
	Title     string        `yaml:"title"`
	HostPage  string        `yaml:"hostPage"`
	Behaviors []BehaviorDef `yaml:"behaviors"`
}

// BehaviorDef is the file form of behavior.Spec.
type BehaviorDef struct {
	Mode                    []string `yaml:"mode"`
	Task                    string   `yaml:"task"`
	SpecificUserInstruction string   `yaml:"specificUserInstruction"`
	Assertions              []string `yaml:"assertions"`

	// SetupScript, if present, is run in the host window before the tester performs the
	// behavior.
	SetupScript string `yaml:"setupScript"`
}

// Registrar accepts behavior specs. *runner.Runner implements it.
type Registrar interface {
	RegisterBehavior(spec behavior.Spec) error
}

// Load reads a definition file. A host page given as a relative path is resolved against the
// directory of the definition file.
func Load(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("read test definition %s: %w", path, err)
	}
	def, err := Parse(data)
	if err != nil {
		return Definition{}, fmt.Errorf("%s: %w", path, err)
	}
	def.HostPage = resolveHostPage(def.HostPage, filepath.Dir(path))
	return def, nil
}

// Parse parses a definition from YAML and checks that it is usable.
func Parse(data []byte) (Definition, error) {
	var def Definition
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return Definition{}, fmt.Errorf("parse test definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// Validate reports every problem with the definition at once.
func (d Definition) Validate() error {
	var errs []error
	if strings.TrimSpace(d.Title) == "" {
		errs = append(errs, errors.New("title is required"))
	}
	if strings.TrimSpace(d.HostPage) == "" {
		errs = append(errs, errors.New("hostPage is required"))
	}
	for i, b := range d.Behaviors {
		if strings.TrimSpace(b.Task) == "" {
			errs = append(errs, fmt.Errorf("behavior %d: task is required", i+1))
		}
		if len(b.Mode) == 0 {
			errs = append(errs, fmt.Errorf("behavior %d: at least one mode is required", i+1))
		}
	}
	return errors.Join(errs...)
}

// Specs converts the behaviors of the definition, in file order.
func (d Definition) Specs() []behavior.Spec {
	ret := make([]behavior.Spec, 0, len(d.Behaviors))
	for _, b := range d.Behaviors {
		ret = append(ret, b.Spec())
	}
	return ret
}

// Spec converts one behavior.
func (b BehaviorDef) Spec() behavior.Spec {
	s := behavior.Spec{
		Modes:                   append([]string(nil), b.Mode...),
		Task:                    b.Task,
		SpecificUserInstruction: b.SpecificUserInstruction,
		Assertions:              append([]string(nil), b.Assertions...),
	}
	if script := strings.TrimSpace(b.SetupScript); script != "" {
		s.SetupHostWindow = RunScript(script)
	}
	return s
}

// Register registers every behavior of the definition.
func (d Definition) Register(r Registrar) error {
	for _, s := range d.Specs() {
		if err := r.RegisterBehavior(s); err != nil {
			return fmt.Errorf("registering %q: %w", s.Task, err)
		}
	}
	return nil
}

// RunScript returns a setup callback that runs script in the host window.
func RunScript(script string) hostwindow.SetupFunc {
	return func(ctx context.Context, doc hostwindow.Document) error {
		return doc.RunScript(ctx, script)
	}
}

func resolveHostPage(page, dir string) string {
	if u, err := url.Parse(page); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return page
	}
	if filepath.IsAbs(page) {
		return page
	}
	return filepath.Join(dir, page)
}
