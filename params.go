package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/launchdarkly/aria-at-harness/config"
	"github.com/launchdarkly/aria-at-harness/framework"

	"github.com/alessio/shellescape"
)

type commandParams struct {
	configFile     string
	definitionFile string
	commandsFile   string
	hostServiceURL string
	query          string
	at             string
	resync         string
	jsonFile       string
	htmlFile       string
	answersFile    string
	host           string
	port           int
	filters        framework.RegexFilters
	debug          bool
	debugAll       bool
}

func (c *commandParams) Read(args []string, errOut io.Writer) bool {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&c.configFile, "config", "", "YAML configuration file")
	fs.StringVar(&c.definitionFile, "definition", "", "test definition file")
	fs.StringVar(&c.commandsFile, "commands", "", "AT command table to use instead of the built-in one")
	fs.StringVar(&c.hostServiceURL, "host-service", "", "URL of the service that opens the test page")
	fs.StringVar(&c.query, "query", "", `harness options in URL query form, such as "at=NVDA"`)
	fs.StringVar(&c.at, "at", "", "assistive technology under test (default "+config.DefaultAT+")")
	fs.StringVar(&c.resync, "resync", "", `how to prepare an open test page for each behavior: "inject" or "reload"`)
	fs.StringVar(&c.jsonFile, "out", "", "file to write the JSON results to (default results-<run ID>.json)")
	fs.StringVar(&c.htmlFile, "html", "", "file to write an HTML results page to")
	fs.StringVar(&c.answersFile, "answers", "", "take results from this answers file instead of asking the tester")
	fs.StringVar(&c.host, "host", "localhost", "external hostname of the harness, used in test page URLs given to the host service")
	fs.IntVar(&c.port, "port", defaultPort, "port that the harness serves local test pages on")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select behaviors (task/mode) to test")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select behaviors (task/mode) not to test")
	fs.BoolVar(&c.debug, "debug", false, "show debug output for behaviors that did not pass")
	fs.BoolVar(&c.debugAll, "debug-all", false, "show all debug output as it happens")

	if err := fs.Parse(args[1:]); err != nil {
		return false
	}
	if c.definitionFile == "" {
		fmt.Fprintln(errOut, "-definition is required")
		fs.Usage()
		return false
	}
	return true
}

// config builds the run configuration: defaults, then the config file, then the query, then
// individual flags.
func (c *commandParams) config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if c.configFile != "" {
		loaded, err := config.Load(c.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if c.query != "" {
		if err := cfg.ApplyQuery(c.query); err != nil {
			return nil, err
		}
	}
	if c.at != "" {
		cfg.AT = c.at
	}
	if c.resync != "" {
		cfg.Resync = c.resync
	}
	if c.commandsFile != "" {
		cfg.CommandsFile = c.commandsFile
	}
	if c.hostServiceURL != "" {
		cfg.HostServiceURL = c.hostServiceURL
	}
	return cfg, cfg.Validate()
}

// rerunCommand is a command line that repeats this run for the given AT, with the same
// definition and host settings.
func (c *commandParams) rerunCommand(program, at string) string {
	var b commandBuilder
	b.add(program)
	if c.configFile != "" {
		b.add("-config", c.configFile)
	}
	b.add("-definition", c.definitionFile)
	b.add("-at", at)
	if c.commandsFile != "" {
		b.add("-commands", c.commandsFile)
	}
	if c.hostServiceURL != "" {
		b.add("-host-service", c.hostServiceURL)
	}
	if c.resync != "" {
		b.add("-resync", c.resync)
	}
	return b.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
