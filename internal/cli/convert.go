package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maheshvaikri-code/ison/internal/ison"
)

// ConvertOptions holds flags for the convert command.
type ConvertOptions struct {
	*RootOptions
	From     string // input format override
	To       string // output format override
	Kind     string // block kind assigned to JSON input
	Align    bool
	Pretty   bool
	Parallel int
}

// ConvertResult summarizes a completed conversion.
type ConvertResult struct {
	Input  string `json:"input"`
	Output string `json:"output"`
	From   string `json:"from"`
	To     string `json:"to"`
	Blocks int    `json:"blocks"`
	Rows   int    `json:"rows"`
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert between ISON, ISONL, and JSON",
		Long: `Convert a document between the ISON, ISONL, and JSON formats.

Formats are inferred from file extensions (.ison, .isonl, .json, each
optionally followed by .gz for transparent compression) and can be forced
with --from and --to. "-" reads stdin or writes stdout; when the output is
stdout the converted document is the only thing printed.

Example:
  ison convert data.ison data.isonl
  ison convert --from isonl --to json - -
  ison convert big.isonl.gz big.ison --parallel 4`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "input format (ison|isonl|json)")
	cmd.Flags().StringVar(&opts.To, "to", "", "output format (ison|isonl|json)")
	cmd.Flags().StringVar(&opts.Kind, "kind", "table", "block kind for JSON input")
	cmd.Flags().BoolVar(&opts.Align, "align", true, "align columns in ISON output")
	cmd.Flags().BoolVar(&opts.Pretty, "pretty", false, "indent JSON output")
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 0, "decode ISONL input with N workers")

	return cmd
}

func runConvert(opts *ConvertOptions, input, output string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	from, err := resolveFormat(opts.From, input)
	if err != nil {
		return outputConvertError(formatter, ErrCodeBadFormat, err.Error())
	}
	to, err := resolveFormat(opts.To, output)
	if err != nil {
		return outputConvertError(formatter, ErrCodeBadFormat, err.Error())
	}

	data, err := readInput(cmd, input)
	if err != nil {
		return outputConvertError(formatter, ErrCodeReadFailed, fmt.Sprintf("reading %s: %v", input, err))
	}
	formatter.VerboseLog("Read %d byte(s) from %s (%s)", len(data), input, from)

	doc, err := decodeDocument(commandContext(cmd), from, string(data), opts.Kind, opts.Parallel)
	if err != nil {
		return outputParseError(formatter, err)
	}
	formatter.VerboseLog("Decoded %d block(s), %d row(s)", len(doc.Blocks), countDataRows(doc))

	rendered, err := encodeDocument(doc, to, opts.Align, opts.Pretty)
	if err != nil {
		return outputConvertError(formatter, ErrCodeBadFormat, err.Error())
	}

	if err := writeOutput(cmd, output, []byte(rendered)); err != nil {
		return outputConvertError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing %s: %v", output, err))
	}

	// When writing to stdout the document itself is the output; a summary
	// would interleave with it.
	if output == "-" {
		return nil
	}

	result := ConvertResult{
		Input:  input,
		Output: output,
		From:   from,
		To:     to,
		Blocks: len(doc.Blocks),
		Rows:   countDataRows(doc),
	}
	return outputConvertSuccess(formatter, result)
}

// countDataRows counts data rows across all blocks. Summary rows are not
// records and do not count.
func countDataRows(doc *ison.Document) int {
	n := 0
	for _, block := range doc.Blocks {
		n += len(block.Rows)
	}
	return n
}

// outputConvertSuccess outputs a successful conversion summary.
func outputConvertSuccess(formatter *OutputFormatter, result ConvertResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Converted %s (%s) → %s (%s): %d block(s), %d row(s)\n",
		result.Input, result.From, result.Output, result.To, result.Blocks, result.Rows)
	return nil
}

// outputConvertError outputs a single conversion error.
func outputConvertError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	// Conversion errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
