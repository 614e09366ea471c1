// Package copier performs the actual byte movement for the transfer and
// backup pipelines: single-file copies that preserve modification times,
// and recursive tree copies with skip-if-exists semantics and an optional
// progress bar.
package copier

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cheggaaa/pb/v3"
)

// copyChunkSize is the buffer size for file copies
const copyChunkSize = 1 << 20

// FileError records a single failed copy inside a tree operation
type FileError struct {
	// Path is the source path that failed
	Path string

	// Err is the underlying failure
	Err error
}

// Stats aggregates the outcome of a tree copy
type Stats struct {
	// Copied is the number of files written to the destination
	Copied int

	// Skipped is the number of files already present at the destination
	Skipped int

	// Bytes is the total number of bytes written
	Bytes int64

	// Errors lists per-file failures; the tree copy continues past them
	Errors []FileError
}

// Copier copies files and trees. A zero value copies without progress
// reporting.
type Copier struct {
	progress bool
}

// New creates a copier. When showProgress is true, tree copies render a
// byte-level progress bar to stderr.
func New(showProgress bool) *Copier {
	return &Copier{progress: showProgress}
}

// Exists reports whether a path exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// CopyFile copies src to dst, creating parent directories as needed and
// preserving the source modification time. It returns the number of bytes
// written.
func (c *Copier) CopyFile(ctx context.Context, src, dst string) (int64, error) {
	return c.copyFile(ctx, src, dst, nil)
}

// CopyFileIfMissing copies src to dst unless dst already exists. It
// reports whether a copy happened; pre-existing destinations are never
// overwritten or re-verified here.
func (c *Copier) CopyFileIfMissing(ctx context.Context, src, dst string) (bool, int64, error) {
	if Exists(dst) {
		return false, 0, nil
	}
	written, err := c.copyFile(ctx, src, dst, nil)
	if err != nil {
		return false, 0, err
	}
	return true, written, nil
}

// CopyTree copies every regular file under src into dst, preserving
// relative paths. Files already present at the destination are skipped.
// Individual copy failures are recorded and the walk continues; only a
// broken source walk or a cancelled context aborts the operation.
func (c *Copier) CopyTree(ctx context.Context, src, dst string) (Stats, error) {
	var files []string
	var total int64
	err := filepath.WalkDir(src, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if entry.IsDir() || !entry.Type().IsRegular() {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		files = append(files, path)
		total += info.Size()
		return nil
	})
	if err != nil {
		return Stats{}, fmt.Errorf("failed to scan source tree %s: %w", src, err)
	}

	var bar *pb.ProgressBar
	if c.progress {
		bar = pb.Full.Start64(total)
		bar.Set(pb.Bytes, true)
		bar.SetWriter(os.Stderr)
		defer bar.Finish()
	}

	var stats Stats
	for _, path := range files {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			stats.Errors = append(stats.Errors, FileError{Path: path, Err: err})
			continue
		}
		target := filepath.Join(dst, rel)

		if Exists(target) {
			stats.Skipped++
			if bar != nil {
				if info, err := os.Stat(path); err == nil {
					bar.Add64(info.Size())
				}
			}
			continue
		}

		written, err := c.copyFile(ctx, path, target, bar)
		if err != nil {
			stats.Errors = append(stats.Errors, FileError{Path: path, Err: err})
			continue
		}
		stats.Copied++
		stats.Bytes += written
	}

	return stats, nil
}

// copyFile is the single-file primitive shared by all entry points
func (c *Copier) copyFile(ctx context.Context, src, dst string, bar *pb.ProgressBar) (int64, error) {
	info, err := os.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("failed to stat source %s: %w", src, err)
	}
	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("source %s is not a regular file", src)
	}

	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("failed to open source %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create destination directory: %w", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("failed to create destination %s: %w", dst, err)
	}

	written, err := c.copyContents(ctx, out, in, bar)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dst)
		return 0, fmt.Errorf("failed to copy %s: %w", src, err)
	}

	// Preserve the capture timestamp; failures here are not fatal
	_ = os.Chtimes(dst, info.ModTime(), info.ModTime())

	return written, nil
}

// copyContents streams src into dst in chunks, checking for cancellation
// between chunks
func (c *Copier) copyContents(ctx context.Context, dst io.Writer, src io.Reader, bar *pb.ProgressBar) (int64, error) {
	buf := make([]byte, copyChunkSize)
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, readErr := src.Read(buf)
		if n > 0 {
			wn, writeErr := dst.Write(buf[:n])
			written += int64(wn)
			if bar != nil {
				bar.Add(wn)
			}
			if writeErr != nil {
				return written, writeErr
			}
			if wn != n {
				return written, io.ErrShortWrite
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}
