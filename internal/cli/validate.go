package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maheshvaikri-code/ison/internal/schema"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Schema string
}

// ValidationIssue is one failed schema check.
type ValidationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationIssue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a document against a schema",
		Long: `Validate an ISON, ISONL, or JSON document against a schema.

The schema file may be YAML (.yaml/.yml) or CUE (.cue). All violations are
collected and reported together rather than stopping at the first.

Example:
  ison validate --schema users.yaml data.ison
  ison validate --schema users.cue --format json data.isonl`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Schema, "schema", "", "path to schema file (required)")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

func runValidate(opts *ValidateOptions, file string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	s, err := schema.Load(opts.Schema)
	if err != nil {
		return outputValidateError(formatter, ErrCodeSchemaLoad, err.Error())
	}
	formatter.VerboseLog("Loaded schema from %s: %d block rule(s)", opts.Schema, len(s.Blocks))

	data, err := readInput(cmd, file)
	if err != nil {
		return outputValidateError(formatter, ErrCodeReadFailed, fmt.Sprintf("reading %s: %v", file, err))
	}

	format := detectFormat(file)
	if format == "" {
		format = FormatISON
	}
	doc, err := decodeDocument(commandContext(cmd), format, string(data), "table", 0)
	if err != nil {
		return outputParseError(formatter, err)
	}
	formatter.VerboseLog("Validating %d block(s)", len(doc.Blocks))

	if err := schema.Validate(doc, s); err != nil {
		if ve, ok := schema.AsValidation(err); ok {
			return outputValidationErrors(formatter, ve)
		}
		return outputValidateError(formatter, ErrCodeGeneric, err.Error())
	}

	return outputValidateSuccess(formatter, file)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, file string) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}

	fmt.Fprintf(formatter.Writer, "✓ %s valid\n", file)
	return nil
}

// outputValidateError outputs a single command-level validation error.
func outputValidateError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	// Schema/read problems are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs the aggregated field errors of a failed
// validation.
func outputValidationErrors(formatter *OutputFormatter, ve *schema.ValidationError) error {
	issues := make([]ValidationIssue, len(ve.Errors))
	for i, fe := range ve.Errors {
		issues[i] = ValidationIssue{Field: fe.Field, Message: fe.Message}
	}

	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: issues},
			Error: &CLIError{
				Code:    ErrCodeValidation,
				Message: issues[0].Field + ": " + issues[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (data failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, issue := range issues {
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", issue.Field, issue.Message)
	}
	fmt.Fprintln(formatter.Writer)

	// Validation failures = exit code 1 (data failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))
}
