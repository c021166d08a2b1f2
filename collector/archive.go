package collector

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

const snapshotTimeLayout = "20060102_150405"

// Archiver keeps raw GraphQL responses on disk for later reprocessing.
// Snapshots land in rawDir, move to processedDir once handled, and
// processed files get zipped up and removed in one pass.
type Archiver struct {
	rawDir       string
	processedDir string
}

// NewArchiver creates the directories if needed.
func NewArchiver(rawDir, processedDir string) (*Archiver, error) {
	for _, dir := range []string{rawDir, processedDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &Archiver{rawDir: rawDir, processedDir: processedDir}, nil
}

// WriteSnapshot stores a raw response body under a timestamped name.
func (a *Archiver) WriteSnapshot(raw []byte, observedAt time.Time) error {
	name := fmt.Sprintf("entur_data_%s.json", observedAt.Format(snapshotTimeLayout))
	return os.WriteFile(filepath.Join(a.rawDir, name), raw, 0o644)
}

// MoveProcessed moves all raw snapshots into the processed directory.
func (a *Archiver) MoveProcessed() error {
	files, err := filepath.Glob(filepath.Join(a.rawDir, "*.json"))
	if err != nil {
		return err
	}
	for _, file := range files {
		if err := os.Rename(file, filepath.Join(a.processedDir, filepath.Base(file))); err != nil {
			return err
		}
	}
	return nil
}

// ArchiveProcessed zips every processed snapshot into archive_<ts>.zip
// and deletes the originals. Returns the archive path, or "" when there
// was nothing to archive.
func (a *Archiver) ArchiveProcessed() (string, error) {
	files, err := filepath.Glob(filepath.Join(a.processedDir, "*.json"))
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", nil
	}

	archivePath := filepath.Join(a.processedDir,
		fmt.Sprintf("archive_%s.zip", time.Now().Format("20060102150405")))
	out, err := os.Create(archivePath)
	if err != nil {
		return "", err
	}
	zw := zip.NewWriter(out)

	for _, file := range files {
		if err := addToZip(zw, file); err != nil {
			_ = zw.Close()
			_ = out.Close()
			return "", err
		}
	}
	if err := zw.Close(); err != nil {
		_ = out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}

	for _, file := range files {
		if err := os.Remove(file); err != nil {
			return archivePath, err
		}
	}
	return archivePath, nil
}

func addToZip(zw *zip.Writer, path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	w, err := zw.Create(filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(w, in)
	return err
}
