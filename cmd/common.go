package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"pdfcompare/internal/cmm"
	"pdfcompare/internal/tokens"
)

// createContextWithTimeout creates a context with timeout and signal handling
func createContextWithTimeout(timeout time.Duration, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// timeoutFlag returns the --timeout value, or the configured timeout when
// the flag is not set.
func timeoutFlag(secs int) time.Duration {
	if secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return currentConfig().Timeout
}

// writeOutput writes data to outputPath, or to stdout when the path is
// empty.
func writeOutput(data []byte, outputPath string, log zerolog.Logger) error {
	if outputPath == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			log.Error().Err(err).Msg("Failed to write to stdout")
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		log.Error().
			Err(err).
			Str("output_file", outputPath).
			Msg("Failed to write output file")
		return fmt.Errorf("failed to write output file: %w", err)
	}

	log.Info().
		Str("output_file", outputPath).
		Int("bytes", len(data)).
		Msg("Results written to file")
	return nil
}

func marshalJSON(v interface{}, log zerolog.Logger) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON output")
		return nil, fmt.Errorf("failed to create JSON output: %w", err)
	}
	return append(data, '\n'), nil
}

// handleError provides user-friendly messages for failures shared by all
// commands.
func handleError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Processing failed")

	var openErr *tokens.DocumentOpenError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("processing timed out. Try increasing --timeout or PDFCOMPARE_TIMEOUT")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("processing was canceled")
	case errors.Is(err, tokens.ErrMissingCapability):
		return fmt.Errorf("PDF text extraction is not available: %w", err)
	case errors.Is(err, cmm.ErrFolderNotFound):
		return fmt.Errorf("report folder does not exist or is not a directory: %w", err)
	case errors.As(err, &openErr):
		msg := openErr.Err.Error()
		if errors.Is(openErr.Err, os.ErrNotExist) ||
			strings.Contains(msg, "not found") ||
			strings.Contains(msg, "no such file") {
			return fmt.Errorf("PDF file not found: %s", openErr.Location)
		}
		return fmt.Errorf("invalid or corrupted PDF file %s. Please check the file integrity: %v", openErr.Location, openErr.Err)
	default:
		return err
	}
}

// fprintf writes to w ignoring errors; the text renderers use it on buffers.
func fprintf(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, format, args...)
}
