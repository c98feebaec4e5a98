package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maheshvaikri-code/ison/internal/ison"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
	Kind     string
	Parallel int
}

// BlockStats describes one block of a document.
type BlockStats struct {
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Fields      int    `json:"fields"`
	Rows        int    `json:"rows"`
	SummaryRows int    `json:"summary_rows,omitempty"`
	Refs        int    `json:"refs,omitempty"`
}

// StatsResult holds document statistics.
type StatsResult struct {
	File       string       `json:"file"`
	DataFormat string       `json:"format"`
	Bytes      int          `json:"bytes"`
	Lines      int          `json:"lines"`
	Blocks     []BlockStats `json:"blocks"`
	TotalRows  int          `json:"total_rows"`
	TotalRefs  int          `json:"total_refs"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Summarize a document",
		Long: `Parse a document and report per-block field, row, and reference
counts plus byte and line totals. The format is inferred from the file
extension; "-" reads ISON from stdin.

Example:
  ison stats data.ison
  ison stats --format json data.isonl.gz`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", "table", "block kind for JSON input")
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 0, "decode ISONL input with N workers")

	return cmd
}

func runStats(opts *StatsOptions, file string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	data, err := readInput(cmd, file)
	if err != nil {
		return outputStatsError(formatter, ErrCodeReadFailed, fmt.Sprintf("reading %s: %v", file, err))
	}

	format := detectFormat(file)
	if format == "" {
		format = FormatISON
	}
	doc, err := decodeDocument(commandContext(cmd), format, string(data), opts.Kind, opts.Parallel)
	if err != nil {
		return outputParseError(formatter, err)
	}

	result := buildStats(file, format, string(data), doc)
	return outputStats(formatter, result)
}

// buildStats walks the document and counts blocks, fields, rows, and
// reference values. Only data rows are scanned for references; summary rows
// are aggregates, not records.
func buildStats(file, format, text string, doc *ison.Document) StatsResult {
	result := StatsResult{
		File:       file,
		DataFormat: format,
		Bytes:      len(text),
		Lines:      countLines(text),
		Blocks:     make([]BlockStats, 0, len(doc.Blocks)),
	}

	for _, block := range doc.Blocks {
		bs := BlockStats{
			Kind:        block.Kind,
			Name:        block.Name,
			Fields:      len(block.Fields),
			Rows:        len(block.Rows),
			SummaryRows: len(block.SummaryRows),
		}
		for _, row := range block.Rows {
			for _, value := range row {
				if _, ok := value.(ison.Reference); ok {
					bs.Refs++
				}
			}
		}
		result.Blocks = append(result.Blocks, bs)
		result.TotalRows += bs.Rows
		result.TotalRefs += bs.Refs
	}
	return result
}

// countLines counts newline-terminated lines plus a final unterminated one.
func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}

// outputStats outputs the statistics in the configured format.
func outputStats(formatter *OutputFormatter, result StatsResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "%s (%s): %d block(s), %d row(s), %d ref(s)\n\n",
		result.File, result.DataFormat, len(result.Blocks), result.TotalRows, result.TotalRefs)

	for _, bs := range result.Blocks {
		line := fmt.Sprintf("  %s.%s: %d field(s), %d row(s)", bs.Kind, bs.Name, bs.Fields, bs.Rows)
		if bs.SummaryRows > 0 {
			line += fmt.Sprintf(", %d summary row(s)", bs.SummaryRows)
		}
		if bs.Refs > 0 {
			line += fmt.Sprintf(", %d ref(s)", bs.Refs)
		}
		fmt.Fprintln(formatter.Writer, line)
	}

	fmt.Fprintf(formatter.Writer, "\n%d byte(s), %d line(s)\n", result.Bytes, result.Lines)
	return nil
}

// outputStatsError outputs a single stats error.
func outputStatsError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	// Read problems are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
