// Package srcjar writes Java source archives with reproducible contents.
package srcjar

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"time"
)

// File is a single archive member.
type File struct {
	// Name is the archive relative path, forward slash separated.
	Name string
	// Content is the full file text.
	Content string
}

// zipEpoch pins every entry timestamp so identical inputs produce byte
// identical archives.
var zipEpoch = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// Write streams files into w as a zip archive, keeping their given order.
func Write(w io.Writer, files []File) error {
	zw := zip.NewWriter(w)
	for _, file := range files {
		header := &zip.FileHeader{
			Name:     file.Name,
			Method:   zip.Deflate,
			Modified: zipEpoch,
		}
		header.SetMode(0644)
		entry, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("adding %s: %w", file.Name, err)
		}
		if _, err := io.WriteString(entry, file.Content); err != nil {
			return fmt.Errorf("writing %s: %w", file.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}
	return nil
}

// WriteFile writes the archive to path, replacing any existing file.
func WriteFile(path string, files []File) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating srcjar: %w", err)
	}
	if err := Write(f, files); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
