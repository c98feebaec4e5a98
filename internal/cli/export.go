package cli

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maheshvaikri-code/ison/internal/ison"
	"github.com/maheshvaikri-code/ison/internal/store"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Database string
	Block    string
	Refs     bool
	Output   string
	Align    bool
}

// ExportResult summarizes a completed export.
type ExportResult struct {
	Database string `json:"database"`
	Output   string `json:"output"`
	Blocks   int    `json:"blocks"`
	Rows     int    `json:"rows"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a SQLite database as ISON",
		Long: `Export stored blocks back to ISON text.

By default the whole database is exported in its original block order.
--block exports a single named block; --refs exports the reference edges
as a table.refs block instead. Output goes to stdout unless --output
names a file.

Example:
  ison export --db data.db
  ison export --db data.db --block users -o users.ison
  ison export --db data.db --refs`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Block, "block", "", "export only the named block")
	cmd.Flags().BoolVar(&opts.Refs, "refs", false, "export reference edges instead of blocks")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "-", "output file path")
	cmd.Flags().BoolVar(&opts.Align, "align", true, "align columns")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	if opts.Refs && opts.Block != "" {
		return outputExportError(formatter, ErrCodeGeneric, "--block and --refs are mutually exclusive")
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return outputExportError(formatter, ErrCodeStore, fmt.Sprintf("failed to open database: %v", err))
	}
	defer st.Close()

	ctx := commandContext(cmd)
	doc := ison.NewDocument()
	switch {
	case opts.Refs:
		block, err := st.ExportRefs(ctx)
		if err != nil {
			return outputExportError(formatter, ErrCodeStore, err.Error())
		}
		doc.Add(block)
	case opts.Block != "":
		block, err := st.ExportBlock(ctx, opts.Block)
		if errors.Is(err, sql.ErrNoRows) {
			return outputExportNotFound(formatter, opts.Block)
		}
		if err != nil {
			return outputExportError(formatter, ErrCodeStore, err.Error())
		}
		doc.Add(block)
	default:
		doc, err = st.ExportDocument(ctx)
		if err != nil {
			return outputExportError(formatter, ErrCodeStore, err.Error())
		}
	}
	formatter.VerboseLog("Exported %d block(s), %d row(s) from %s", len(doc.Blocks), countDataRows(doc), opts.Database)

	rendered, err := encodeDocument(doc, FormatISON, opts.Align, false)
	if err != nil {
		return outputExportError(formatter, ErrCodeGeneric, err.Error())
	}
	if err := writeOutput(cmd, opts.Output, []byte(rendered)); err != nil {
		return outputExportError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing %s: %v", opts.Output, err))
	}

	// When writing to stdout the document itself is the output; a summary
	// would interleave with it.
	if opts.Output == "-" {
		return nil
	}

	result := ExportResult{
		Database: opts.Database,
		Output:   opts.Output,
		Blocks:   len(doc.Blocks),
		Rows:     countDataRows(doc),
	}
	return outputExportSuccess(formatter, result)
}

// outputExportSuccess outputs a successful export summary.
func outputExportSuccess(formatter *OutputFormatter, result ExportResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Exported %d block(s), %d row(s) to %s\n",
		result.Blocks, result.Rows, result.Output)
	return nil
}

// outputExportNotFound reports a block name with no stored block.
func outputExportNotFound(formatter *OutputFormatter, name string) error {
	message := fmt.Sprintf("block not found: %s", name)
	_ = formatter.Error(ErrCodeBlockNotFound, message, nil)
	// A missing block is a data failure (exit code 1), not a command error
	return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", ErrCodeBlockNotFound, message))
}

// outputExportError outputs a single export error.
func outputExportError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	// Database and I/O problems are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
