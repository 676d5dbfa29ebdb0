package zip

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

func TestArchiveRoundTrip(t *testing.T) {
	files := []File{
		{Name: "structure.json", Data: []byte(`{"site_type":"landing-page"}`)},
		{Name: "summary.md", Data: []byte("## Proposal Summary\n")},
	}

	data, err := Archive(files)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(reader.File) != 2 {
		t.Fatalf("entries: got %d, want 2", len(reader.File))
	}
	for i, file := range reader.File {
		if file.Name != files[i].Name {
			t.Fatalf("entry %d: got %q, want %q", i, file.Name, files[i].Name)
		}
		rc, err := file.Open()
		if err != nil {
			t.Fatalf("open %s: %v", file.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", file.Name, err)
		}
		if !bytes.Equal(content, files[i].Data) {
			t.Fatalf("%s content mismatch: %q", file.Name, content)
		}
	}
}

func TestArchiveEmptyInput(t *testing.T) {
	data, err := Archive(nil)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if _, err := zip.NewReader(bytes.NewReader(data), int64(len(data))); err != nil {
		t.Fatalf("empty archive must still be readable: %v", err)
	}
}
