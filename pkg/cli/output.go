package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// OutputFormat selects how command results are serialized.
type OutputFormat string

const (
	// FormatYAML is the default.
	FormatYAML OutputFormat = "yaml"
	// FormatJSON writes indented JSON.
	FormatJSON OutputFormat = "json"
	// FormatRaw writes strings and byte slices as-is and falls back to YAML.
	FormatRaw OutputFormat = "raw"
)

// ParseOutputFormat validates a --format flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case "", FormatYAML:
		return FormatYAML, nil
	case FormatJSON, FormatRaw:
		return f, nil
	}
	return "", fmt.Errorf("unsupported output format: %s", s)
}

// OutputOptions configures Output.
type OutputOptions struct {
	Format OutputFormat

	// File receives the result when Writer is nil. Empty means stdout.
	File string

	// Writer takes precedence over File.
	Writer io.Writer
}

// Output serializes result to the destination in opts.
func Output(result any, opts OutputOptions) error {
	if opts.Writer != nil {
		return Encode(opts.Writer, result, opts.Format)
	}
	if opts.File == "" {
		return Encode(os.Stdout, result, opts.Format)
	}

	f, err := os.Create(opts.File)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Encode(f, result, opts.Format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Encode writes result to w in format.
func Encode(w io.Writer, result any, format OutputFormat) error {
	switch format {
	case FormatYAML, "":
		data, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case FormatRaw:
		switch v := result.(type) {
		case []byte:
			_, err := w.Write(v)
			return err
		case string:
			_, err := io.WriteString(w, v)
			return err
		}
		return Encode(w, result, FormatYAML)
	}
	return fmt.Errorf("unsupported output format: %s", format)
}
