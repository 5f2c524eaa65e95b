package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	dir := t.TempDir()
	log, closer, err := New(dir, "debug")
	if err != nil {
		t.Fatal(err)
	}
	log.Named("workout").Debug("countdown started", "mode", "running")
	log.Trace("too chatty")
	closer.Close()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "stride.workout: countdown started") || !strings.Contains(out, "mode=running") {
		t.Fatalf("log = %q", out)
	}
	if strings.Contains(out, "too chatty") {
		t.Fatal("trace written at debug level")
	}
}

func TestNewWithoutDirDiscards(t *testing.T) {
	log, closer, err := New("", "bogus")
	if err != nil {
		t.Fatal(err)
	}
	log.Info("nothing")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}
}
