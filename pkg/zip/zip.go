// Package zip assembles small in-memory archives, used to hand a completed
// job's artifact bundle to the caller as one download.
package zip

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// File is one entry of the archive.
type File struct {
	Name string
	Data []byte
}

// Archive writes the files into a zip archive held in memory.
func Archive(files []File) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, file := range files {
		w, err := zw.Create(file.Name)
		if err != nil {
			return nil, fmt.Errorf("zip: create %s: %w", file.Name, err)
		}
		if _, err := w.Write(file.Data); err != nil {
			return nil, fmt.Errorf("zip: write %s: %w", file.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: close archive: %w", err)
	}
	return buf.Bytes(), nil
}
