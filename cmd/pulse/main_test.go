package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sant0-9/pulse/internal/dataset"
)

var sample = dataset.Dataset{{Type: "Email", Content: "Need help."}}

func TestOutputBadPath(t *testing.T) {
	_, _, err := output(filepath.Join(t.TempDir(), "missing", "out.csv"))
	if err == nil {
		t.Fatal("output() error = nil, want error for a missing directory")
	}
}

func TestWriteDatasetToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	w, closeOut, err := output(path)
	if err != nil {
		t.Fatalf("output() error = %v", err)
	}
	if err := writeDataset(w, closeOut, sample); err != nil {
		t.Fatalf("writeDataset() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := dataset.ToCSV(sample)
	if string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}

	// the file is closed, so a second close reports an error
	if err := closeOut(); err == nil {
		t.Error("second close returned nil")
	}
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteDatasetErrors(t *testing.T) {
	closeErr := errors.New("close failed")

	tests := []struct {
		name    string
		writer  bool
		close   error
		wantErr error
	}{
		{name: "close error reported", close: closeErr, wantErr: closeErr},
		{name: "write error reported", writer: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			closed := false
			closeOut := func() error {
				closed = true
				return tt.close
			}

			var err error
			if tt.writer {
				err = writeDataset(failWriter{}, closeOut, sample)
			} else {
				err = writeDataset(discard{}, closeOut, sample)
			}

			if err == nil {
				t.Fatal("writeDataset() error = nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if !closed {
				t.Error("destination was not closed")
			}
		})
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
