package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/dupfinder/pkg/output"
)

// execute runs the root command with args and returns stdout and the error
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), err
}

func exitCodeOf(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "unexpected error: %v", err)
	return exitErr.Code
}

func fixture(t *testing.T) (dir, ref string) {
	t.Helper()
	root := t.TempDir()
	dir = filepath.Join(root, "data")
	require.NoError(t, os.Mkdir(dir, 0o755))

	ref = filepath.Join(root, "ref.txt")
	require.NoError(t, os.WriteFile(ref, []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.txt"), []byte("hellx"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".d.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	return dir, ref
}

func TestScanCommand_JSON(t *testing.T) {
	dir, ref := fixture(t)

	out, err := execute(t, "scan", "--dir", dir, "--file", ref, "--output", "json")
	assert.Equal(t, 0, exitCodeOf(t, err))

	var doc output.JSONReportData
	require.NoError(t, json.Unmarshal([]byte(out), &doc), out)
	assert.Equal(t, "success", doc.Status)
	require.Len(t, doc.Matches, 1)
	assert.Equal(t, dir+"/b.txt", doc.Matches[0].CandidatePath)
	assert.Equal(t, 1, doc.Stats.SkippedHidden)
	assert.Equal(t, 1, doc.Stats.SkippedNotRegular)
	assert.NotEmpty(t, doc.OperationID)
}

func TestScanCommand_Human(t *testing.T) {
	dir, ref := fixture(t)

	out, err := execute(t, "scan", "-d", dir, "-f", ref, "--chunk-size", "2", "--fill-chunks")
	assert.Equal(t, 0, exitCodeOf(t, err))
	assert.Contains(t, out, "Duplicate found: "+ref+" = "+dir+"/b.txt")
	assert.NotContains(t, out, "c.txt =")
}

func TestScanCommand_Quiet(t *testing.T) {
	dir, ref := fixture(t)

	out, err := execute(t, "scan", "-d", dir, "-f", ref, "--quiet")
	assert.Equal(t, 0, exitCodeOf(t, err))
	assert.Empty(t, out)
}

func TestScanCommand_MissingReference(t *testing.T) {
	dir, _ := fixture(t)

	out, err := execute(t, "scan", "-d", dir, "-f", filepath.Join(dir, "absent"), "-o", "json")
	assert.Equal(t, 2, exitCodeOf(t, err))

	var doc output.JSONReportData
	require.NoError(t, json.Unmarshal([]byte(out), &doc), out)
	assert.Equal(t, "failed", doc.Status)
	assert.Empty(t, doc.Matches)
	assert.Contains(t, doc.Error, "fatal_open")
}

func TestScanCommand_ReportFile(t *testing.T) {
	dir, ref := fixture(t)
	reportPath := filepath.Join(t.TempDir(), "dups.json")

	_, err := execute(t, "scan", "-d", dir, "-f", ref, "-q", "--report", reportPath, "--report-format", "json")
	assert.Equal(t, 0, exitCodeOf(t, err))

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), dir+"/b.txt")
}

func TestScanCommand_LogFile(t *testing.T) {
	dir, ref := fixture(t)
	logPath := filepath.Join(t.TempDir(), "scan.log")

	_, err := execute(t, "scan", "-d", dir, "-f", ref, "-q", "--log-file", logPath, "--log-format", "json")
	assert.Equal(t, 0, exitCodeOf(t, err))

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"Duplicate found"`)
	assert.Contains(t, string(data), `"operation_id"`)
}

func TestScanCommand_ConfigFile(t *testing.T) {
	dir, ref := fixture(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "scan:\n  dir_path: " + dir + "\n  filename: " + ref + "\n  exclude: ['b.*']\noutput:\n  format: json\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	out, err := execute(t, "--config", cfgPath, "scan")
	assert.Equal(t, 0, exitCodeOf(t, err))

	var doc output.JSONReportData
	require.NoError(t, json.Unmarshal([]byte(out), &doc), out)
	assert.Empty(t, doc.Matches, "b.txt is excluded by the config file")
	assert.Equal(t, 1, doc.Stats.SkippedExcluded)
}

func TestScanCommand_UsageErrors(t *testing.T) {
	dir, ref := fixture(t)

	tests := []struct {
		name string
		args []string
	}{
		{"MissingDir", []string{"scan", "-f", ref}},
		{"MissingFile", []string{"scan", "-d", dir}},
		{"BadOutput", []string{"scan", "-d", dir, "-f", ref, "-o", "xml"}},
		{"BadChunk", []string{"scan", "-d", dir, "-f", ref, "--chunk-size", "0"}},
		{"BadBandwidth", []string{"scan", "-d", dir, "-f", ref, "-b", "fast"}},
		{"VerboseAndQuiet", []string{"scan", "-d", dir, "-f", ref, "-v", "-q"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			var exitErr *ExitError
			assert.False(t, errors.As(err, &exitErr), "usage errors exit 1, got %v", err)
		})
	}
}

func TestCompareCommand(t *testing.T) {
	dir, ref := fixture(t)

	out, err := execute(t, "compare", ref, filepath.Join(dir, "b.txt"))
	assert.Equal(t, 0, exitCodeOf(t, err))
	assert.Contains(t, out, "identical")

	out, err = execute(t, "compare", "--chunk-size", "1", ref, filepath.Join(dir, "c.txt"))
	assert.Equal(t, 1, exitCodeOf(t, err))
	assert.Contains(t, out, "differ")

	_, err = execute(t, "compare", ref, filepath.Join(dir, "absent"))
	assert.Equal(t, 2, exitCodeOf(t, err))
}

func TestCompareCommand_Root(t *testing.T) {
	dir, _ := fixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "copy.txt"), []byte("hello"), 0o644))

	_, err := execute(t, "compare", "--root", dir, "/b.txt", "/copy.txt")
	assert.Equal(t, 0, exitCodeOf(t, err))

	_, err = execute(t, "compare", "--root", dir+"/../data/", "/b.txt", "/copy.txt")
	assert.Equal(t, 0, exitCodeOf(t, err))

	_, err = execute(t, "compare", "--root", filepath.Join(dir, "absent"), "/b.txt", "/copy.txt")
	assert.Equal(t, 2, exitCodeOf(t, err))
}

func TestCompareCommand_SetupErrorsExitTrouble(t *testing.T) {
	dir, ref := fixture(t)
	cand := filepath.Join(dir, "b.txt")

	_, err := execute(t, "compare", "--chunk-size", "0", ref, cand)
	assert.Equal(t, 2, exitCodeOf(t, err))

	_, err = execute(t, "compare", "-b", "fast", ref, cand)
	assert.Equal(t, 2, exitCodeOf(t, err))
}

func TestResolveRoot(t *testing.T) {
	dir, ref := fixture(t)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(filepath.Dir(dir)))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	got, err := resolveRoot("./data/")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, "data", filepath.Base(got))

	_, err = resolveRoot(ref)
	assert.Error(t, err, "a file is not a root")

	_, err = resolveRoot("")
	assert.Error(t, err)
}

func TestScanCommand_ReferenceIsDirectory(t *testing.T) {
	dir, _ := fixture(t)

	out, err := execute(t, "scan", "-d", dir, "-f", dir, "-o", "json")
	assert.Equal(t, 2, exitCodeOf(t, err))

	var doc output.JSONReportData
	require.NoError(t, json.Unmarshal([]byte(out), &doc), out)
	assert.Equal(t, "failed", doc.Status)
	assert.Contains(t, doc.Error, "is a directory")
}

func TestConfigCommands(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	out, err := execute(t, "--config", cfgPath, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, cfgPath)

	_, err = execute(t, "--config", cfgPath, "config", "init")
	assert.Error(t, err, "init refuses to overwrite without --force")

	_, err = execute(t, "--config", cfgPath, "config", "init", "--force")
	assert.NoError(t, err)

	out, err = execute(t, "--config", cfgPath, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Chunk Size: 1024")
	assert.Contains(t, out, "Output Format: human")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, Version, strings.TrimSpace(out))

	out, err = execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dupfinder "+Version)
}

func TestExitCode(t *testing.T) {
	assert.NoError(t, exitCode(0))
	err := exitCode(3)
	assert.Equal(t, 3, exitCodeOf(t, err))
	assert.Equal(t, "exit status 3", err.Error())
}
