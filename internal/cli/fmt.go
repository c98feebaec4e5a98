package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maheshvaikri-code/ison/internal/ison"
)

// FmtOptions holds flags for the fmt command.
type FmtOptions struct {
	*RootOptions
	Align bool
	Write bool
}

// FmtResult summarizes a completed reformat.
type FmtResult struct {
	File      string `json:"file"`
	Blocks    int    `json:"blocks"`
	Rows      int    `json:"rows"`
	Changed   bool   `json:"changed"`
	Formatted string `json:"formatted,omitempty"` // set when not writing in place
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FmtOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Reformat an ISON document canonically",
		Long: `Reparse an ISON document and reprint it in canonical form.

By default the reformatted document goes to stdout; --write rewrites the
file in place. "-" reads stdin. Formatting is a full parse, so fmt also
reports syntax errors.

Example:
  ison fmt data.ison
  ison fmt --write --align=false data.ison`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Align, "align", true, "align columns")
	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "rewrite the file in place")

	return cmd
}

func runFmt(opts *FmtOptions, file string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	if opts.Write && file == "-" {
		return outputFmtError(formatter, ErrCodeWriteFailed, "cannot write in place when reading from stdin")
	}

	data, err := readInput(cmd, file)
	if err != nil {
		return outputFmtError(formatter, ErrCodeReadFailed, fmt.Sprintf("reading %s: %v", file, err))
	}

	doc, err := ison.Parse(string(data))
	if err != nil {
		return outputParseError(formatter, err)
	}

	rendered, err := encodeDocument(doc, FormatISON, opts.Align, false)
	if err != nil {
		return outputFmtError(formatter, ErrCodeGeneric, err.Error())
	}

	result := FmtResult{
		File:    file,
		Blocks:  len(doc.Blocks),
		Rows:    countDataRows(doc),
		Changed: rendered != string(data),
	}

	if opts.Write {
		if err := writeOutput(cmd, file, []byte(rendered)); err != nil {
			return outputFmtError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing %s: %v", file, err))
		}
		return outputFmtSuccess(formatter, result)
	}

	// Without --write the reformatted document is the output. JSON mode
	// carries it inside the response envelope instead.
	if formatter.Format == "json" {
		result.Formatted = rendered
		return formatter.Success(result)
	}
	_, err = fmt.Fprint(formatter.Writer, rendered)
	return err
}

// outputFmtSuccess outputs the result of an in-place reformat.
func outputFmtSuccess(formatter *OutputFormatter, result FmtResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	if result.Changed {
		fmt.Fprintf(formatter.Writer, "✓ Reformatted %s\n", result.File)
	} else {
		fmt.Fprintf(formatter.Writer, "✓ %s already canonical\n", result.File)
	}
	return nil
}

// outputFmtError outputs a single fmt error.
func outputFmtError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	// I/O errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
