package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/matcalc/internal/matrix"
	"github.com/agbru/matcalc/internal/ui"
)

// OutputConfig controls how an accepted product is reported.
type OutputConfig struct {
	// OutputFile receives the product when non-empty.
	OutputFile string
	Quiet      bool
	Verbose    bool
	ShowValue  bool
}

// WriteResultToFile saves product to cfg.OutputFile in the text format
// understood by matrix.Read, preceded by '#' comment lines describing the
// run. It does nothing when no file is configured.
func WriteResultToFile(product *matrix.Matrix, duration time.Duration, strategy string, cfg OutputConfig) error {
	if cfg.OutputFile == "" {
		return nil
	}

	if dir := filepath.Dir(cfg.OutputFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	fmt.Fprintf(file, "# Matrix product\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Strategy: %s\n", strategy)
	fmt.Fprintf(file, "# Duration: %s\n", duration)
	fmt.Fprintf(file, "# Checksum: %d\n", product.Checksum())
	if err := matrix.Write(file, product); err != nil {
		file.Close()
		return fmt.Errorf("failed to write product: %w", err)
	}
	return file.Close()
}

// FormatQuietResult returns the single-line form used by --quiet.
func FormatQuietResult(product *matrix.Matrix) string {
	return fmt.Sprintf("%d", product.Checksum())
}

// DisplayQuietResult prints FormatQuietResult.
func DisplayQuietResult(out io.Writer, product *matrix.Matrix) {
	fmt.Fprintln(out, FormatQuietResult(product))
}

// DisplayResultWithConfig displays product per cfg and saves it when an
// output file is configured.
func DisplayResultWithConfig(out io.Writer, product *matrix.Matrix, duration time.Duration, strategy string, cfg OutputConfig) error {
	if cfg.Quiet {
		DisplayQuietResult(out, product)
	} else {
		DisplayResult(product, duration, cfg.Verbose, cfg.ShowValue, out)
	}
	return SaveResult(out, product, duration, strategy, cfg)
}

// SaveResult writes product to cfg.OutputFile and, unless quiet, reports
// where it went. It does nothing when no file is configured.
func SaveResult(out io.Writer, product *matrix.Matrix, duration time.Duration, strategy string, cfg OutputConfig) error {
	if cfg.OutputFile == "" {
		return nil
	}
	if err := WriteResultToFile(product, duration, strategy, cfg); err != nil {
		return err
	}
	if !cfg.Quiet {
		t := ui.GetCurrentTheme()
		fmt.Fprintf(out, "\n%s✓ Product saved to: %s%s%s\n", t.Success, t.Primary, cfg.OutputFile, t.Reset)
	}
	return nil
}
