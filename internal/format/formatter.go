package format

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/premiumbank/pbank/internal/config"
)

// Stdout and Stderr receive all output; tests swap them
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data interface{}) error
}

// Tabular is implemented by views that know their table layout.
// Table and text output use it; json and yaml marshal the value itself.
type Tabular interface {
	Table() Table
}

// Table is an ordered set of columns and rows
type Table struct {
	Headers []string
	Rows    [][]string
	// Footer is an optional closing row, such as a total
	Footer []string
}

// GetFormatter returns a formatter based on the specified format
func GetFormatter(format string, w io.Writer) (Formatter, error) {
	useColors := config.Get().Format.Colors

	switch format {
	case "table":
		return NewTableFormatter(w, useColors), nil
	case "json":
		return NewJSONFormatter(w, true), nil
	case "json-compact":
		return NewJSONFormatter(w, false), nil
	case "yaml":
		return NewYAMLFormatter(w), nil
	case "text":
		return NewTextFormatter(w), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Print formats and prints data using the configured output format
func Print(data interface{}) error {
	formatter, err := GetFormatter(config.GetOutputFormat(), Stdout)
	if err != nil {
		return err
	}
	return formatter.Format(data)
}

// IsStructured reports whether the configured output is meant for machines.
// Views skip greetings and status lines in that case.
func IsStructured() bool {
	switch config.GetOutputFormat() {
	case "json", "json-compact", "yaml":
		return true
	default:
		return false
	}
}

// PrintSuccess prints a success message
func PrintSuccess(message string, args ...interface{}) {
	printLine(Stdout, color.New(color.FgGreen), "", message, args...)
}

// PrintError prints an error message
func PrintError(message string, args ...interface{}) {
	printLine(Stderr, color.New(color.FgRed), "Error: ", message, args...)
}

// PrintWarning prints a warning message
func PrintWarning(message string, args ...interface{}) {
	printLine(Stderr, color.New(color.FgYellow), "Warning: ", message, args...)
}

// PrintInfo prints an info message
func PrintInfo(message string, args ...interface{}) {
	printLine(Stdout, color.New(color.FgBlue), "", message, args...)
}

// PrintDebug prints a debug message if debug mode is enabled
func PrintDebug(message string, args ...interface{}) {
	if config.IsDebug() {
		printLine(Stderr, color.New(color.FgCyan), "[DEBUG] ", message, args...)
	}
}

func printLine(w io.Writer, c *color.Color, plainPrefix, message string, args ...interface{}) {
	text := message
	if len(args) > 0 {
		text = fmt.Sprintf(message, args...)
	}
	if config.Get().Format.Colors {
		c.Fprintln(w, text)
		return
	}
	fmt.Fprintln(w, plainPrefix+text)
}
