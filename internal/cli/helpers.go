package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Global flags (set from the cmd package)
var (
	quiet       bool
	noColor     bool
	skipConfirm bool

	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// SetGlobalFlags sets the global flag values from the cmd package
func SetGlobalFlags(q, nc, sc bool) {
	quiet = q
	noColor = nc
	skipConfirm = sc
}

// SetIO redirects prompts and messages, mainly for tests. A nil argument
// keeps the current stream.
func SetIO(in io.Reader, out, errOut io.Writer) {
	if in != nil {
		stdin = in
	}
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
}

// Confirm asks a yes/no question. --yes answers it.
func Confirm(prompt string, defaultYes bool) (bool, error) {
	if skipConfirm {
		return true, nil
	}

	suffix := " [y/N]: "
	if defaultYes {
		suffix = " [Y/n]: "
	}
	fmt.Fprint(stdout, prompt+suffix)

	response, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && response == "" {
		if err == io.EOF {
			return defaultYes, nil
		}
		return false, err
	}

	response = strings.ToLower(strings.TrimSpace(response))
	if response == "" {
		return defaultYes, nil
	}
	return response == "y" || response == "yes", nil
}

func mark(symbol, label string) string {
	if noColor {
		return label + ":"
	}
	return symbol
}

// PrintSuccess prints a success message unless quiet mode is enabled
func PrintSuccess(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(stdout, "%s %s\n", mark("✓", "OK"), fmt.Sprintf(format, args...))
	}
}

// PrintInfo prints an info message unless quiet mode is enabled
func PrintInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(stdout, "%s %s\n", mark("ℹ", "INFO"), fmt.Sprintf(format, args...))
	}
}

// PrintWarning prints a warning to stderr
func PrintWarning(format string, args ...any) {
	fmt.Fprintf(stderr, "%s %s\n", mark("⚠", "WARNING"), fmt.Sprintf(format, args...))
}

// PrintError prints an error to stderr
func PrintError(format string, args ...any) {
	fmt.Fprintf(stderr, "%s %s\n", mark("✗", "ERROR"), fmt.Sprintf(format, args...))
}

// Out is the writer commands print results to.
func Out() io.Writer {
	return stdout
}
