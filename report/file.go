package report

import (
	"fmt"
	"io"
	"os"
)

// FileReporter creates a file when the report is ready and writes it with the Reporter that
// Format returns. Nothing is created for a run that never finishes.
type FileReporter struct {
	Path   string
	Format func(w io.Writer) Reporter
}

func (f FileReporter) Report(r SuiteReport) (err error) {
	file, err := os.Create(f.Path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
	}()
	return f.Format(file).Report(r)
}

// JSONFile writes a JSON report to path.
func JSONFile(path string) FileReporter {
	return FileReporter{Path: path, Format: func(w io.Writer) Reporter { return JSONReporter{W: w} }}
}

// HTMLFile writes an HTML results page to path.
func HTMLFile(path string) FileReporter {
	return FileReporter{Path: path, Format: func(w io.Writer) Reporter { return HTMLReporter{W: w} }}
}
