package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"salesclean/pkg/metadata"
)

const rawSales = ` Product Name ,Price,Quantity
  Apple  ,1.25,3
 Widget ,10.5,-2
Gadget,abc,5
Bolt,,3
Free Sample,0,0
Nut,0.10,
`

func writeRaw(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sales_data_raw.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

func TestRun_Success(t *testing.T) {
	input := writeRaw(t, rawSales)
	output := filepath.Join(t.TempDir(), "processed", "clean.csv")

	code, stdout, stderr := runCLI(t, "-input", input, "-output", output, "-log-level", "error")
	require.Equal(t, exitOK, code, "stderr: %s", stderr)

	want := "Cleaning complete. First few rows:\n" +
		"| product_name | price | quantity |\n" +
		"| ------------ | ----- | -------- |\n" +
		"| Apple        | 1.25  | 3        |\n" +
		"| Free Sample  | 0     | 0        |\n"
	require.Equal(t, want, stdout)

	written, err := os.ReadFile(output)
	require.NoError(t, err)
	require.Equal(t, "product_name,price,quantity\nApple,1.25,3\nFree Sample,0,0\n", string(written))

	ok, err := metadata.Verify(output)
	require.NoError(t, err)
	require.True(t, ok, "output should carry a valid signature")
}

func TestRun_PreviewAndDescribe(t *testing.T) {
	input := writeRaw(t, rawSales)
	output := filepath.Join(t.TempDir(), "clean.csv")

	code, stdout, _ := runCLI(t, "-input", input, "-output", output, "-preview", "1", "-describe", "-no-manifest", "-log-level", "error")
	require.Equal(t, exitOK, code)
	require.Contains(t, stdout, "| Apple ")
	require.NotContains(t, stdout, "Free Sample")
	require.Contains(t, stdout, "| mean  |")

	_, err := os.Stat(metadata.SidecarPath(output))
	require.True(t, os.IsNotExist(err), "no sidecar expected with -no-manifest")
}

func TestRun_CustomRequiredColumns(t *testing.T) {
	input := writeRaw(t, "price,qty\n1,2\n1,-2\n")
	output := filepath.Join(t.TempDir(), "clean.csv")

	code, _, stderr := runCLI(t, "-input", input, "-output", output, "-required", "price,qty", "-log-level", "error")
	require.Equal(t, exitOK, code, "stderr: %s", stderr)

	written, err := os.ReadFile(output)
	require.NoError(t, err)
	require.Equal(t, "price,qty\n1,2\n", string(written))
}

func TestRun_ConfigFile(t *testing.T) {
	input := writeRaw(t, rawSales)
	dir := t.TempDir()
	output := filepath.Join(dir, "clean.csv")

	configPath := filepath.Join(dir, "cleaner.yaml")
	content := "cleaner:\n  input:\n    path: " + input + "\n  output:\n    path: " + output + "\n  logging:\n    level: error\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	code, _, stderr := runCLI(t, "-config", configPath)
	require.Equal(t, exitOK, code, "stderr: %s", stderr)
	require.FileExists(t, output)
}

func TestRun_Failures(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{
			name:     "Unknown flag",
			args:     []string{"-bogus"},
			wantCode: exitUsage,
		},
		{
			name:     "Missing config file",
			args:     []string{"-config", filepath.Join(dir, "nope.yaml")},
			wantCode: exitUsage,
			wantErr:  "Error loading config",
		},
		{
			name:     "Invalid log level",
			args:     []string{"-log-level", "loud"},
			wantCode: exitUsage,
			wantErr:  "Invalid configuration",
		},
		{
			name:     "Missing source",
			args:     []string{"-input", filepath.Join(dir, "missing.csv"), "-output", filepath.Join(dir, "out.csv")},
			wantCode: exitFailed,
			wantErr:  "source not found",
		},
		{
			name:     "Missing required column",
			args:     []string{"-input", writeRaw(t, "price,qty\n1,2\n"), "-output", filepath.Join(dir, "out.csv")},
			wantCode: exitFailed,
			wantErr:  "quantity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.args...)
			require.Equal(t, tt.wantCode, code)
			require.Empty(t, stdout)

			if tt.wantErr != "" {
				require.Contains(t, stderr, tt.wantErr)
			}
		})
	}

	require.NoFileExists(t, filepath.Join(dir, "out.csv"))
}

func TestRun_Help(t *testing.T) {
	code, _, stderr := runCLI(t, "-h")
	require.Equal(t, exitOK, code)
	require.Contains(t, stderr, "Usage: cleaner")
}
