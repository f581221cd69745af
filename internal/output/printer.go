// Package output renders user-facing progress for routerctl commands.
//
// [Printer] writes lipgloss-styled lines: a header box per operation, one
// line per workflow and stage, and a single diagnostic line for a failure.
// Colors are chosen for the writer's terminal profile, so output to a file or
// buffer is plain text.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"routerctl/internal/workflow"
)

// failureMessages holds the one-line diagnosis shown for each failure kind.
var failureMessages = map[workflow.FailureKind]string{
	workflow.LoginFailed:          "Can not login to the router dashboard",
	workflow.NavigationFailed:     "Can not navigate to the wireless profile configuration",
	workflow.PasswordUpdateFailed: "Can not set the new password",
	workflow.ChannelToggleFailed:  "Can not change the channel state",
	workflow.LogoutFailed:         "Can not logout from the router dashboard",
	workflow.SessionError:         "Browser session error",
}

// FailureMessage returns the diagnosis line for kind.
func FailureMessage(kind workflow.FailureKind) string {
	if msg, ok := failureMessages[kind]; ok {
		return msg
	}
	return "Unexpected failure"
}

// Printer writes styled progress output.
//
// Printer implements [workflow.Observer], so it can be registered on a
// runner to print each stage as it finishes.
type Printer struct {
	out io.Writer

	header  lipgloss.Style
	title   lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	dim     lipgloss.Style
	warn    lipgloss.Style
}

// NewPrinter creates a Printer writing to stdout.
func NewPrinter() *Printer {
	return NewPrinterWithWriter(os.Stdout)
}

// NewPrinterWithWriter creates a Printer writing to w. Tests pass a
// bytes.Buffer and get uncolored text.
func NewPrinterWithWriter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		out: w,
		header: r.NewStyle().
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#5599FF"}).
			Padding(0, 1),
		title:   r.NewStyle().Bold(true),
		success: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#008000", Dark: "#55FF55"}),
		failure: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D00000", Dark: "#FF5555"}).Bold(true),
		dim:     r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}),
		warn:    r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FFAA00"}),
	}
}

// OperationStart prints the header box for an operation.
func (p *Printer) OperationStart(op, target string) {
	fmt.Fprintln(p.out, p.header.Render(fmt.Sprintf("routerctl %s  %s", op, target)))
}

// WorkflowStart prints the "[i/n] name" line before a workflow runs.
func (p *Printer) WorkflowStart(index, total int, name string) {
	fmt.Fprintf(p.out, "%s %s\n", p.dim.Render(fmt.Sprintf("[%d/%d]", index, total)), p.title.Render(name))
}

// StageStarted implements [workflow.Observer]. Stages are printed when they
// finish, so this is a no-op.
func (p *Printer) StageStarted(wf, stage string) {}

// StageFinished implements [workflow.Observer].
func (p *Printer) StageFinished(wf, stage string, elapsed time.Duration, err error) {
	took := p.dim.Render(fmt.Sprintf("(%s)", elapsed.Round(time.Millisecond)))
	if err != nil {
		fmt.Fprintf(p.out, "  %s %s %s\n", p.failure.Render("✗"), stage, took)
		return
	}
	fmt.Fprintf(p.out, "  %s %s %s\n", p.success.Render("✓"), stage, took)
}

// OperationComplete prints the success summary.
func (p *Printer) OperationComplete(op string, elapsed time.Duration) {
	fmt.Fprintln(p.out, p.success.Render(fmt.Sprintf("✓ %s completed in %s", op, elapsed.Round(time.Millisecond))))
}

// Failure prints the diagnosis for err. A [*workflow.Error] gets the
// message for its kind plus where it stopped; anything else is printed as is.
func (p *Printer) Failure(err error) {
	var werr *workflow.Error
	if !errors.As(err, &werr) {
		fmt.Fprintln(p.out, p.failure.Render("✗ "+err.Error()))
		return
	}
	fmt.Fprintln(p.out, p.failure.Render(fmt.Sprintf("✗ %s (%s)", FailureMessage(werr.Kind), werr.Kind)))
	fmt.Fprintln(p.out, p.dim.Render(fmt.Sprintf("  stopped at %s/%s: %v", werr.Workflow, werr.Step, werr.Err)))
}

// DryRun prints the workflows an operation would run, with their stages.
func (p *Printer) DryRun(op string, wfs []workflow.Workflow) {
	fmt.Fprintln(p.out, p.header.Render(fmt.Sprintf("Dry run: routerctl %s", op)))
	for i, wf := range wfs {
		fmt.Fprintf(p.out, "%s %s\n", p.dim.Render(fmt.Sprintf("[%d/%d]", i+1, len(wfs))), p.title.Render(wf.Name))
		for _, name := range wf.StageNames() {
			fmt.Fprintf(p.out, "  - %s\n", name)
		}
	}
	fmt.Fprintln(p.out, p.dim.Render("No browser session was started."))
}

// Warning prints a highlighted note.
func (p *Printer) Warning(format string, args ...any) {
	fmt.Fprintln(p.out, p.warn.Render("! "+fmt.Sprintf(format, args...)))
}

// Text prints s verbatim, adding a trailing newline when missing.
func (p *Printer) Text(s string) {
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	fmt.Fprint(p.out, s)
}
