// SPDX-License-Identifier: AGPL-3.0-only
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fluffyriot/hubsync/internal/syncer"
	"github.com/fluffyriot/hubsync/internal/worker"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // the run finished but some accounts aborted
	ExitCommandError = 2 // configuration, database or argument problems
)

type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode returns ExitFailure for errors that carry no code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var summaryHeader = lipgloss.NewStyle().Bold(true).Padding(0, 1)

func renderRunSummary(s worker.RunSummary) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("entity", "observed", "inserted").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return summaryHeader
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	for _, kind := range syncer.Kinds {
		t.Row(string(kind), strconv.Itoa(s.Observed[kind]), strconv.FormatInt(s.Inserted[kind], 10))
	}

	head := fmt.Sprintf("Synced %d accounts: %d done, %d aborted (%s)\n",
		s.Accounts, s.Done, s.Aborted, s.Finished.Sub(s.Started).Round(time.Millisecond))
	return head + t.String() + "\n"
}
