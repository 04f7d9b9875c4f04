package main

import (
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"

	"github.com/fordscott/portfolio-builder/internal/session"
)

// readSession loads a portfolio document from path ("-" reads stdin).
func readSession(path string, stdin io.Reader) (*session.Session, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading portfolio: %w", err)
	}

	var doc session.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing portfolio %s: %w", path, err)
	}
	s, err := session.FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("loading portfolio %s: %w", path, err)
	}
	return s, nil
}

// writeOutput writes data to path, or to stdout when path is empty or "-".
func writeOutput(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeJSONTo(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
