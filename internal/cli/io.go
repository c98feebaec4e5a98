package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"

	"github.com/maheshvaikri-code/ison/internal/ison"
	"github.com/maheshvaikri-code/ison/internal/isonl"
)

// Data formats the CLI reads and writes.
const (
	FormatISON  = "ison"
	FormatISONL = "isonl"
	FormatJSON  = "json"
)

// ValidDataFormats defines the allowed values for --from and --to.
var ValidDataFormats = []string{FormatISON, FormatISONL, FormatJSON}

// readInput reads a document source. "-" reads the command's stdin; a .gz
// suffix is decompressed transparently.
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening gzip reader: %w", err)
		}
		defer gz.Close()
		r = gz
	}
	return io.ReadAll(r)
}

// writeOutput writes rendered output. "-" writes to the command's stdout; a
// .gz suffix compresses transparently.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if strings.HasSuffix(path, ".gz") {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		gz := gzip.NewWriter(f)
		if _, err := gz.Write(data); err != nil {
			f.Close()
			return err
		}
		if err := gz.Close(); err != nil {
			f.Close()
			return fmt.Errorf("closing gzip writer: %w", err)
		}
		return f.Close()
	}

	return os.WriteFile(path, data, 0644)
}

// detectFormat infers the data format from a file extension, looking past a
// trailing .gz. Returns "" when the extension is not recognized.
func detectFormat(path string) string {
	switch filepath.Ext(strings.TrimSuffix(path, ".gz")) {
	case ".ison":
		return FormatISON
	case ".isonl":
		return FormatISONL
	case ".json":
		return FormatJSON
	default:
		return ""
	}
}

// resolveFormat picks the explicit flag value when set, falling back to
// extension detection.
func resolveFormat(flag, path string) (string, error) {
	if flag != "" {
		if !isValidDataFormat(flag) {
			return "", fmt.Errorf("invalid data format %q: must be one of %v", flag, ValidDataFormats)
		}
		return flag, nil
	}
	if format := detectFormat(path); format != "" {
		return format, nil
	}
	return "", fmt.Errorf("cannot detect data format of %q: use --from/--to", path)
}

// isValidDataFormat checks if the format is one of the allowed values.
func isValidDataFormat(format string) bool {
	for _, f := range ValidDataFormats {
		if f == format {
			return true
		}
	}
	return false
}

// decodeDocument parses text in the named format. JSON input builds blocks
// of the given kind; parallel > 0 selects the concurrent ISONL decoder.
func decodeDocument(ctx context.Context, format, text, kind string, parallel int) (*ison.Document, error) {
	switch format {
	case FormatISON:
		return ison.Parse(text)
	case FormatISONL:
		if parallel > 0 {
			return isonl.DecodeParallel(ctx, text, parallel)
		}
		return isonl.Decode(text)
	case FormatJSON:
		return ison.FromJSON(kind, text)
	default:
		return nil, fmt.Errorf("unsupported data format: %s", format)
	}
}

// encodeDocument renders a document in the named format. Non-empty output
// always ends with a newline so written files end cleanly.
func encodeDocument(doc *ison.Document, format string, align, pretty bool) (string, error) {
	var text string
	switch format {
	case FormatISON:
		text = ison.Serialize(doc, align)
	case FormatISONL:
		text = isonl.Encode(doc)
	case FormatJSON:
		var err error
		text, err = doc.ToJSON(pretty)
		if err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unsupported data format: %s", format)
	}

	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text, nil
}

// outputParseError reports a document parse failure, attaching the source
// line when the error carries one. Parse failures are data errors (exit 1).
func outputParseError(formatter *OutputFormatter, err error) error {
	var details interface{}
	if line, ok := ison.ErrorLine(err); ok {
		details = map[string]int{"line": line}
	}
	_ = formatter.Error(ErrCodeParseFailed, err.Error(), details)
	return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", ErrCodeParseFailed, err.Error()))
}

// commandContext returns the command's context, or a background context when
// the command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// Error codes used in CLI output.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeReadFailed  = "E002" // Input read error
	ErrCodeParseFailed = "E003" // Document parse error
	ErrCodeWriteFailed = "E004" // Output write error
	ErrCodeBadFormat   = "E005" // Unknown or mismatched data format
	ErrCodeSchemaLoad  = "E006" // Schema load error
	ErrCodeStore       = "E007" // Database open/read/write error

	ErrCodeValidation    = "E101" // Schema validation failure
	ErrCodeBlockNotFound = "E102" // Requested block not in the database
)
