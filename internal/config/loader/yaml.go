package loader

import (
	"bytes"
	"errors"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLLoader loads configuration from YAML files.
type YAMLLoader struct {
	fs FileSystem
}

// NewYAMLLoader creates a YAML loader reading through fsys.
// A nil fsys uses the OS file system.
func NewYAMLLoader(fsys FileSystem) *YAMLLoader {
	if fsys == nil {
		fsys = DefaultFS()
	}
	return &YAMLLoader{fs: fsys}
}

// Decode implements FileLoader. Unknown keys are rejected and an empty
// document leaves v untouched.
func (l *YAMLLoader) Decode(path string, v any) (bool, error) {
	data, ok, err := read(l.fs, path)
	if !ok || err != nil {
		return false, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return true, &ParseError{
			Path:    path,
			Message: err.Error(),
			Err:     err,
		}
	}
	return true, nil
}
