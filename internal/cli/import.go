package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maheshvaikri-code/ison/internal/store"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Database string
	Kind     string
	Parallel int
}

// ImportResult summarizes a completed import.
type ImportResult struct {
	File           string `json:"file"`
	Database       string `json:"database"`
	BlocksInserted int    `json:"blocks_inserted"`
	BlocksSkipped  int    `json:"blocks_skipped"`
	RowsInserted   int    `json:"rows_inserted"`
	RowsSkipped    int    `json:"rows_skipped"`
	RefsInserted   int    `json:"refs_inserted"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a document into a SQLite database",
		Long: `Import an ISON, ISONL, or JSON document into a SQLite database,
creating the database if it does not exist.

Imports are idempotent: blocks and rows already present are skipped, so a
file can be imported repeatedly without duplicating data.

Example:
  ison import --db data.db records.ison
  ison import --db data.db --parallel 4 records.isonl.gz`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Kind, "kind", "table", "block kind for JSON input")
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 0, "decode ISONL input with N workers")

	return cmd
}

func runImport(opts *ImportOptions, file string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	data, err := readInput(cmd, file)
	if err != nil {
		return outputImportError(formatter, ErrCodeReadFailed, fmt.Sprintf("reading %s: %v", file, err))
	}

	format := detectFormat(file)
	if format == "" {
		format = FormatISON
	}
	doc, err := decodeDocument(commandContext(cmd), format, string(data), opts.Kind, opts.Parallel)
	if err != nil {
		return outputParseError(formatter, err)
	}
	formatter.VerboseLog("Decoded %d block(s), %d row(s) from %s", len(doc.Blocks), countDataRows(doc), file)

	st, err := store.Open(opts.Database)
	if err != nil {
		return outputImportError(formatter, ErrCodeStore, fmt.Sprintf("failed to open database: %v", err))
	}
	defer st.Close()

	stats, err := st.ImportDocument(commandContext(cmd), doc)
	if err != nil {
		return outputImportError(formatter, ErrCodeStore, err.Error())
	}

	result := ImportResult{
		File:           file,
		Database:       opts.Database,
		BlocksInserted: stats.BlocksInserted,
		BlocksSkipped:  stats.BlocksSkipped,
		RowsInserted:   stats.RowsInserted,
		RowsSkipped:    stats.RowsSkipped,
		RefsInserted:   stats.RefsInserted,
	}
	return outputImportSuccess(formatter, result)
}

// outputImportSuccess outputs a successful import summary.
func outputImportSuccess(formatter *OutputFormatter, result ImportResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Imported %d block(s), %d row(s), %d ref(s) into %s\n",
		result.BlocksInserted, result.RowsInserted, result.RefsInserted, result.Database)
	if result.BlocksSkipped > 0 || result.RowsSkipped > 0 {
		fmt.Fprintf(formatter.Writer, "  Skipped %d existing block(s), %d existing row(s)\n",
			result.BlocksSkipped, result.RowsSkipped)
	}
	return nil
}

// outputImportError outputs a single import error.
func outputImportError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	// Database and I/O problems are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
