package build

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestParseCopy(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		workdir string
		src     string
		dest    string
		wantErr bool
	}{
		{
			name:  "absolute dest",
			input: "file.txt /opt/file.txt",
			src:   "file.txt",
			dest:  "/opt/file.txt",
		},
		{
			name:    "relative dest with workdir",
			input:   "file.txt out/",
			workdir: "/app",
			src:     "file.txt",
			dest:    "/app/out",
		},
		{
			name:    "relative dest without workdir",
			input:   "file.txt out/",
			wantErr: true,
		},
		{
			name:    "stage source",
			input:   "build:/app/dist /usr/share/nginx/html",
			src:     "build:/app/dist",
			dest:    "/usr/share/nginx/html",
		},
		{
			name:    "missing destination",
			input:   "file.txt",
			wantErr: true,
		},
		{
			name:    "too many tokens",
			input:   "a b c",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, dest, err := parseCopy(tt.input, tt.workdir)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertParseCopy(t, src, dest, tt.src, tt.dest)
		})
	}
}

func TestPipeTransfer(t *testing.T) {
	var got bytes.Buffer

	err := pipeTransfer(
		func(w io.Writer) error {
			_, err := w.Write([]byte("payload"))
			return err
		},
		func(r io.Reader) error {
			_, err := io.Copy(&got, r)
			return err
		},
	)
	if err != nil {
		t.Fatalf("pipeTransfer: %v", err)
	}
	if got.String() != "payload" {
		t.Fatalf("transferred %q, want payload", got.String())
	}
}

func TestPipeTransferProducerError(t *testing.T) {
	want := errors.New("archive failed")

	err := pipeTransfer(
		func(io.Writer) error { return want },
		func(r io.Reader) error {
			_, err := io.Copy(io.Discard, r)
			return err
		},
	)
	if !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
}

func TestPipeTransferConsumerErrorUnblocksProducer(t *testing.T) {
	want := errors.New("extract failed")
	producerDone := make(chan struct{})

	err := pipeTransfer(
		func(w io.Writer) error {
			defer close(producerDone)
			// The pipe is unbuffered, so this write blocks until the
			// consumer reads or the read end is closed.
			_, err := w.Write([]byte("payload"))
			return err
		},
		func(io.Reader) error { return want },
	)
	if !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}

	// Hangs here (and times out) if the failed consumer leaves the
	// producer blocked on the pipe.
	<-producerDone
}

func assertParseCopy(t *testing.T, gotSrc, gotDest, wantSrc, wantDest string) {
	t.Helper()
	if gotSrc != wantSrc {
		t.Errorf("src = %q, want %q", gotSrc, wantSrc)
	}
	if gotDest != wantDest {
		t.Errorf("dest = %q, want %q", gotDest, wantDest)
	}
}
