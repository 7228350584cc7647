package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/launchdarkly/aria-at-harness/atcommands"
	"github.com/launchdarkly/aria-at-harness/console"
	"github.com/launchdarkly/aria-at-harness/framework"
	"github.com/launchdarkly/aria-at-harness/hostwindow"
	"github.com/launchdarkly/aria-at-harness/report"
	"github.com/launchdarkly/aria-at-harness/results"
	"github.com/launchdarkly/aria-at-harness/runner"
	"github.com/launchdarkly/aria-at-harness/scripted"
	"github.com/launchdarkly/aria-at-harness/testdef"

	"github.com/google/uuid"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const defaultPort = 8111
const statusQueryTimeout = time.Second * 10

const (
	exitPass = iota
	exitNotPassed
	exitError
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args, os.Stdin, os.Stdout)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) int {
	var params commandParams
	if !params.Read(args, out) {
		return exitError
	}
	cfg, err := params.config()
	if err != nil {
		fmt.Fprintf(out, "Invalid configuration: %s\n", err)
		return exitError
	}

	table := atcommands.Default()
	if cfg.CommandsFile != "" {
		if table, err = atcommands.LoadFile(cfg.CommandsFile); err != nil {
			fmt.Fprintf(out, "Invalid command table: %s\n", err)
			return exitError
		}
	}
	at, warnings := cfg.ResolveAT(table)

	def, err := testdef.Load(params.definitionFile)
	if err != nil {
		fmt.Fprintf(out, "Invalid test definition: %s\n", err)
		return exitError
	}

	var answers scripted.Answers
	if params.answersFile != "" {
		if answers, err = scripted.LoadAnswers(params.answersFile); err != nil {
			fmt.Fprintf(out, "Invalid answers: %s\n", err)
			return exitError
		}
	}

	runID := uuid.NewString()
	debugLogger := framework.NullLogger()
	if params.debugAll {
		debugLogger = log.New(out, "["+runID[:8]+"] ", log.LstdFlags)
	}

	var host hostwindow.Controller
	if cfg.HostServiceURL != "" {
		service := hostwindow.NewServiceController(cfg.HostServiceURL, hostwindow.ServiceOptions{
			WindowWidth:   ldvalue.NewOptionalInt(cfg.WindowWidth),
			WindowHeight:  ldvalue.NewOptionalInt(cfg.WindowHeight),
			WatchInterval: cfg.CloseWatchInterval,
			Logger:        framework.PrefixLogger(debugLogger, "host service: "),
		})
		if _, err := service.QueryServiceInfo(ctx, statusQueryTimeout, out); err != nil {
			fmt.Fprintf(out, "Host service error: %s\n", err)
			return exitError
		}
		host = service
	}

	pageURI := def.HostPage
	if host != nil && isLocalPage(pageURI) {
		server, err := framework.StartPageServer(params.host, params.port, framework.PrefixLogger(debugLogger, "page server: "))
		if err != nil {
			fmt.Fprintf(out, "Error: %s\n", err)
			return exitError
		}
		defer server.Shutdown(context.Background())
		mount := server.Mount(filepath.Dir(pageURI))
		defer mount.Close()
		pageURI = mount.URL(filepath.Base(pageURI))
	}

	jsonFile := params.jsonFile
	if jsonFile == "" {
		jsonFile = "results-" + runID + ".json"
	}
	reporters := report.Reporters{report.JSONFile(jsonFile)}
	if params.htmlFile != "" {
		reporters = append(reporters, report.HTMLFile(params.htmlFile))
	}

	var presenter runner.Presenter
	if params.answersFile != "" {
		presenter = scripted.Presenter{Logger: framework.PrefixLogger(log.New(out, "", 0), "  ")}
	} else {
		presenter = console.NewPresenter(out, host != nil)
	}

	r := runner.New(runner.RunnerContext{
		Title:    def.Title,
		AT:       at,
		Commands: table,
		Warnings: warnings,
		Filter:   params.filters.AsFilter,
	}, runner.Options{
		Presenter: presenter,
		Reporter:  reporters,
		Events: &console.EventLogger{
			Out:                  out,
			DebugOutputOnFailure: params.debug || params.debugAll,
			DebugOutputOnSuccess: params.debugAll,
		},
		Host:    host,
		Resync:  cfg.ResyncStrategy(),
		Barrier: cfg.Barrier(),
		Logger:  debugLogger,
	})
	if err := def.Register(r); err != nil {
		fmt.Fprintf(out, "Invalid test definition: %s\n", err)
		return exitError
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Run %s: %s with %s\n", runID, def.Title, at)
	fmt.Fprintf(out, "To repeat this run: %s\n\n", params.rerunCommand(args[0], at))
	if host == nil {
		fmt.Fprintf(out, "Open the test page yourself: %s\n\n", pageURI)
	}
	framework.PrintFilterDescription(out, params.filters)

	if err := r.BeginRun(ctx, pageURI); err != nil {
		fmt.Fprintf(out, "Error: %s\n", err)
		return exitError
	}
	if params.answersFile != "" {
		err = scripted.Run(ctx, r, answers)
	} else {
		err = console.NewSession(r, in, out, host != nil).Run(ctx)
	}
	if err != nil {
		r.Abandon(context.Background())
		if errors.Is(err, console.ErrQuit) {
			fmt.Fprintln(out, "Run stopped; no results were written.")
		} else {
			fmt.Fprintf(out, "Error: %s\n", err)
		}
		return exitError
	}

	suite, _ := r.Report()
	fmt.Fprintf(out, "Results written to %s\n", jsonFile)
	if suite.Status != results.StatusPass {
		return exitNotPassed
	}
	return exitPass
}

// isLocalPage is true if page is a file path rather than a URL.
func isLocalPage(page string) bool {
	u, err := url.Parse(page)
	return err != nil || len(u.Scheme) <= 1
}
