package assets

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/flate"
)

// Archive is a read-only view of a package on disk. Entry order follows
// the zip central directory, which is not guaranteed to be sorted or
// stable across re-packaging.
type Archive struct {
	path   string
	reader *zip.ReadCloser
	index  map[string]*zip.File
	names  []string
}

func OpenArchive(path string) (*Archive, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("could not open package %s: %w", path, err)
	}

	index := make(map[string]*zip.File)
	names := make([]string, 0, len(reader.File))
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		index[file.Name] = file
		names = append(names, file.Name)
	}

	return &Archive{
		path:   path,
		reader: reader,
		index:  index,
		names:  names,
	}, nil
}

func (a *Archive) Path() string {
	return a.path
}

// List returns all non-directory entry names in index order.
func (a *Archive) List() []string {
	return a.names
}

// Glob returns the entries whose names start with prefix and end with
// suffix, in index order. Either may be empty.
func (a *Archive) Glob(prefix string, suffix string) []string {
	matched := make([]string, 0)
	for _, name := range a.names {
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, suffix) {
			matched = append(matched, name)
		}
	}
	return matched
}

func (a *Archive) Exists(name string) bool {
	_, ok := a.index[name]
	return ok
}

func (a *Archive) ReadFile(ctx context.Context, name string) ([]byte, error) {
	file, ok := a.index[name]
	if !ok {
		return nil, Missing
	}

	reader, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("could not read entry %s: %w", name, err)
	}
	defer reader.Close()

	return io.ReadAll(reader)
}

func (a *Archive) Close() error {
	return a.reader.Close()
}

// ArchiveWriter accumulates entries into a temporary file and only
// moves it to its final path on Commit. An aborted or failed write
// leaves no partial package behind.
type ArchiveWriter struct {
	path string
	tmp  string
	file *os.File
	zip  *zip.Writer
}

func NewArchiveWriter(path string, level int) (*ArchiveWriter, error) {
	tmp := path + ".partial"
	file, err := os.Create(tmp)
	if err != nil {
		return nil, err
	}

	writer := zip.NewWriter(file)
	writer.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})

	return &ArchiveWriter{
		path: path,
		tmp:  tmp,
		file: file,
		zip:  writer,
	}, nil
}

func (w *ArchiveWriter) Create(name string, data []byte) error {
	entry, err := w.zip.Create(name)
	if err != nil {
		return err
	}

	_, err = entry.Write(data)
	return err
}

func (w *ArchiveWriter) Commit() error {
	if err := w.zip.Close(); err != nil {
		w.file.Close()
		os.Remove(w.tmp)
		return err
	}

	if err := w.file.Close(); err != nil {
		os.Remove(w.tmp)
		return err
	}

	return os.Rename(w.tmp, w.path)
}

func (w *ArchiveWriter) Abort() {
	w.zip.Close()
	w.file.Close()
	os.Remove(w.tmp)
}
