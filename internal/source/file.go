package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Ext is the storyboard script extension
const Ext = ".osb"

type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string {
	return s.path
}

func (s *FileSource) Open() (io.ReadCloser, error) {
	return os.Open(s.path)
}

// Expand turns paths into sources. A directory contributes its .osb files in
// name order; a file is taken as is, whatever its extension.
func Expand(paths ...string) ([]Source, error) {
	var sources []Source
	for _, path := range paths {
		fi, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !fi.IsDir() {
			sources = append(sources, NewFileSource(path))
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		var files []string
		for _, entry := range entries {
			if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), Ext) {
				files = append(files, filepath.Join(path, entry.Name()))
			}
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no %s files found in %s", Ext, path)
		}
		sort.Strings(files)
		for _, f := range files {
			sources = append(sources, NewFileSource(f))
		}
	}
	return sources, nil
}
