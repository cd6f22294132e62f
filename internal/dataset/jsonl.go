// Package dataset reads and writes the JSON-Lines files of the FEVER format.
package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ppiankov/fevercs/internal/model"
	"golang.org/x/text/unicode/norm"
)

// maxLineBytes bounds a single JSON line; FEVER lines with many evidence groups get long
const maxLineBytes = 64 << 20

// LineError locates a decoding failure in the input
type LineError struct {
	Path string
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Decode reads one JSON value per line. Lines are NFC-normalized first so titles
// compare equal regardless of how the producer composed accented characters.
func Decode[T any](r io.Reader, name string) ([]T, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<20), maxLineBytes)

	var out []T
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var v T
		if err := json.Unmarshal(norm.NFC.Bytes(line), &v); err != nil {
			return nil, &LineError{Path: name, Line: lineNo, Err: err}
		}
		out = append(out, v)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", name, err)
	}
	return out, nil
}

// Read decodes a JSON-Lines file
func Read[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode[T](f, path)
}

// ReadDataPoints reads a dataset file
func ReadDataPoints(path string) ([]model.DataPoint, error) {
	return Read[model.DataPoint](path)
}

// ReadInstances reads a predictions or gold file for scoring
func ReadInstances(path string) ([]model.Instance, error) {
	return Read[model.Instance](path)
}

// Encode writes one JSON value per line without HTML escaping
func Encode[T any](w io.Writer, values []T) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i, v := range values {
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode record %d: %w", i, err)
		}
	}
	return nil
}

// Write creates (or truncates) path and writes values as JSON lines
func Write[T any](path string, values []T) (err error) {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	w := bufio.NewWriter(f)
	if err := Encode(w, values); err != nil {
		return err
	}
	return w.Flush()
}

// WriteDataPoints writes a dataset file
func WriteDataPoints(path string, points []model.DataPoint) error {
	return Write(path, points)
}

// WriteJSON writes a single indented JSON document
func WriteJSON(path string, v any) (err error) {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

func create(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	return f, nil
}
