package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// RunnerConfig holds configuration for a command execution
type RunnerConfig struct {
	Title     string   // Command title (e.g., "Configure Uplink")
	Command   string   // Full command (e.g., "relaylink configure")
	Params    []Param  // Parameters to display in header
	StepNames []string // Names for each step; empty disables the step list
	Output    io.Writer
}

// Runner prints the header, then each step as it completes, then a
// result box.
type Runner struct {
	config   RunnerConfig
	header   *Header
	progress *Progress
	output   io.Writer
	width    int
}

// NewRunner creates a runner for a command
func NewRunner(config RunnerConfig) *Runner {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	width := GetTerminalWidth()
	r := &Runner{
		config: config,
		header: NewHeader(config.Title, config.Command, config.Params...).SetWidth(width),
		output: config.Output,
		width:  width,
	}
	if len(config.StepNames) > 0 {
		r.progress = NewProgress("", config.StepNames...).SetWidth(width)
	}
	return r
}

// Operation is the work a command performs. It returns the details shown
// in the success box.
type Operation func(ctx context.Context, onStep StepCallback) ([]Param, error)

// Run executes the operation with UI updates and returns its error
func (r *Runner) Run(ctx context.Context, operation Operation) error {
	start := time.Now()

	fmt.Fprintln(r.output, r.header.Render())
	fmt.Fprintln(r.output)

	details, err := operation(ctx, r.stepCallback())
	duration := time.Since(start).Round(time.Millisecond)

	fmt.Fprintln(r.output)
	if err != nil {
		fmt.Fprintln(r.output, NewFailureResult(r.config.Title+" failed", err).SetWidth(r.width).Render())
		return err
	}

	details = append(details, Param{Key: "Duration", Value: duration.String()})
	fmt.Fprintln(r.output, NewSuccessResult(r.config.Title+" complete", details...).SetWidth(r.width).Render())
	return nil
}

// Progress returns the step tracker, or nil when no steps were configured
func (r *Runner) Progress() *Progress {
	return r.progress
}

func (r *Runner) stepCallback() StepCallback {
	return func(stepNumber int, status StepStatus, message string) {
		if r.progress == nil || stepNumber < 1 || stepNumber > len(r.progress.Steps) {
			return
		}
		r.progress.UpdateStep(stepNumber, status, message)

		line := r.progress.renderStepLine(r.progress.Steps[stepNumber-1])
		if status == StepRunning {
			// overwritten when the step finishes
			fmt.Fprint(r.output, line+"\r")
			return
		}
		fmt.Fprintln(r.output, line)
	}
}

// Printer writes UI components to a writer
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a Printer. If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{out: w, width: GetTerminalWidth()}
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	fmt.Fprintln(p.out, content)
}

// Header prints a command header box
func (p *Printer) Header(title, command string, params ...Param) {
	fmt.Fprintln(p.out, NewHeader(title, command, params...).SetWidth(p.width).Render())
	fmt.Fprintln(p.out)
}

// Success prints a success result box
func (p *Printer) Success(title string, details ...Param) {
	fmt.Fprintln(p.out, NewSuccessResult(title, details...).SetWidth(p.width).Render())
}

// Warning prints a warning result box
func (p *Printer) Warning(title string, details ...Param) {
	fmt.Fprintln(p.out, NewWarningResult(title, details...).SetWidth(p.width).Render())
}

// Failure prints a failure result box with troubleshooting tips
func (p *Printer) Failure(title string, err error, troubleshooting ...string) {
	fmt.Fprintln(p.out, NewFailureResult(title, err, troubleshooting...).SetWidth(p.width).Render())
}
