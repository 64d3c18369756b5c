package server

import (
	"path/filepath"
	"testing"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	return &Server{
		socketPath: filepath.Join(t.TempDir(), "test.sock"),
		done:       make(chan struct{}),
	}
}

func TestStopIsIdempotent(t *testing.T) {
	s := testServer(t)

	if err := s.Stop(); err != nil {
		t.Fatalf("first Stop: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}

func TestStopSignalsDone(t *testing.T) {
	s := testServer(t)

	select {
	case <-s.Done():
		t.Fatal("done closed before Stop")
	default:
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	select {
	case <-s.Done():
	default:
		t.Fatal("done not closed after Stop")
	}
}
