package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/snonux/lingocard/internal/cli"
	"codeberg.org/snonux/lingocard/internal/testutil"
)

func TestRunCommandArchive(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "cards")
	testutil.CreateTestFile(t, filepath.Join(outputDir, "hello_20240305_143000.txt"), []byte("hello\t你好\t阅读\n"))

	flags := cli.NewFlags()
	flags.Archive = true
	flags.OutputDir = outputDir

	var runErr error
	output := testutil.CaptureOutput(t, func() {
		runErr = runCommand(nil, nil, flags)
	})
	if runErr != nil {
		t.Fatalf("runCommand failed: %v", runErr)
	}

	if !strings.Contains(output, "Output directory archived to: ") {
		t.Fatalf("unexpected output: %q", output)
	}
	archived := strings.TrimSpace(strings.TrimPrefix(output, "Output directory archived to: "))
	testutil.AssertFileExists(t, filepath.Join(archived, "hello_20240305_143000.txt"))

	if _, err := os.Stat(outputDir); !os.IsNotExist(err) {
		t.Errorf("Expected %s to be moved away", outputDir)
	}
}

func TestRunCommandArchiveMissingDir(t *testing.T) {
	flags := cli.NewFlags()
	flags.Archive = true
	flags.OutputDir = filepath.Join(t.TempDir(), "missing")

	err := runCommand(nil, nil, flags)
	if err == nil || !strings.Contains(err.Error(), "failed to archive output directory") {
		t.Errorf("Expected archive error, got %v", err)
	}
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	reportError(&buf, errors.New("unknown dictionary source \"foo\""))
	if got := buf.String(); got != "Error: unknown dictionary source \"foo\"\n" {
		t.Errorf("unexpected output: %q", got)
	}
}
