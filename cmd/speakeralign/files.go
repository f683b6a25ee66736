package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kbukum/speakeralign/alignment"
	"github.com/kbukum/speakeralign/output"
)

// openDocument returns the JSON form of a JSON or YAML file so the
// alignment decoders can check required fields either way.
func openDocument(path string) (io.Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("convert %s: %w", path, err)
		}
		return bytes.NewReader(converted), nil
	default:
		return bytes.NewReader(data), nil
	}
}

func readInput(path string) (alignment.Input, error) {
	r, err := openDocument(path)
	if err != nil {
		return alignment.Input{}, err
	}
	return alignment.DecodeInput(r)
}

func readTranscription(path string) ([]alignment.TranscriptionSegment, error) {
	r, err := openDocument(path)
	if err != nil {
		return nil, err
	}
	return alignment.DecodeTranscription(r)
}

func readDiarization(path string) ([]alignment.DiarizationSegment, error) {
	r, err := openDocument(path)
	if err != nil {
		return nil, err
	}
	return alignment.DecodeDiarization(r)
}

func readRoster(path string) ([]alignment.RosterEntry, error) {
	if path == "" {
		return nil, nil
	}
	r, err := openDocument(path)
	if err != nil {
		return nil, err
	}
	return alignment.DecodeRoster(r)
}

// writeTranscript renders t to path, or to stdout when path is empty or "-".
func writeTranscript(stdout io.Writer, path string, format output.Format, t *alignment.Transcript) error {
	if path == "" || path == "-" {
		return output.Render(stdout, format, t)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := output.Render(f, format, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// formatFor resolves --format, falling back to the output file extension.
func formatFor(flag, outPath string) (output.Format, error) {
	if flag == "" && outPath != "" && outPath != "-" {
		flag = strings.TrimPrefix(filepath.Ext(outPath), ".")
		if _, err := output.ParseFormat(flag); err != nil {
			flag = ""
		}
	}
	return output.ParseFormat(flag)
}

func writeResult(stdout io.Writer, path string, res any) error {
	w := stdout
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
