package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/inkspool/ippcore/internal/ippserver"
)

// FileSink is the example ippserver.Sink shipped with the daemon: it
// writes each received document to the spool directory, named by job-id
// and a best-guess extension from the declared document-format.
type FileSink struct {
	dir string
	log zerolog.Logger
}

func NewFileSink(dir string, log zerolog.Logger) *FileSink {
	return &FileSink{dir: dir, log: log.With().Str("component", "filesink").Logger()}
}

func (s *FileSink) HandleDocument(ctx context.Context, doc ippserver.SimpleIppDocument) error {
	name := fmt.Sprintf("job-%d%s", doc.JobID, extensionFor(doc.Format))
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating spool file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, doc.Payload)
	if err != nil {
		return fmt.Errorf("writing spool file: %w", err)
	}
	s.log.Info().
		Int32("job_id", doc.JobID).
		Str("format", doc.Format).
		Str("media", doc.JobAttributes.Media).
		Int64("bytes", n).
		Str("path", path).
		Msg("received document")
	return nil
}

func extensionFor(format string) string {
	switch format {
	case "application/pdf":
		return ".pdf"
	case "image/pwg-raster":
		return ".pwg"
	case "image/urf":
		return ".urf"
	default:
		return ".bin"
	}
}
