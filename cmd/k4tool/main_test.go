package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/james-see/k4tool/pkg/config"
	"github.com/james-see/k4tool/pkg/k4"
	"github.com/james-see/k4tool/pkg/listing"
	"github.com/james-see/k4tool/pkg/sysex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain points the user config dir at an empty directory
func TestMain(m *testing.M) {
	home, err := os.MkdirTemp("", "k4tool-home")
	if err != nil {
		panic(err)
	}
	_ = os.Setenv("HOME", home)
	_ = os.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))

	code := m.Run()
	_ = os.RemoveAll(home)
	os.Exit(code)
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, name := range []string{"HOST", "PORT", "LOG_LEVEL", "LOG_FORMAT", "WAVE_NAMES", "MAX_UPLOAD_BYTES"} {
		t.Setenv(config.Prefix+"_"+name, "")
		os.Unsetenv(config.Prefix + "_" + name)
	}
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the CLI with args and returns what it wrote to stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runStreams(t, args...)
	return out, err
}

// runStreams is like run but also returns what the CLI wrote to stderr
func runStreams(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	clearEnvVars(t)
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "missing.env")))
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func testBankFile(t *testing.T) string {
	t.Helper()
	b := k4.NewBank()
	b.Singles[0].Name = "Brass 1   "
	b.Multis[0].Name = "Layer     "
	return writeFile(t, "bank.syx", b.ToBytes())
}

func TestWaveCommand(t *testing.T) {
	out, err := run(t, "wave")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, k4.WaveCount)
	assert.Equal(t, "1", lines[0])
	assert.Equal(t, "256", lines[255])
}

func TestWaveCommandSingle(t *testing.T) {
	names := writeFile(t, "waves.yaml", []byte("97: SAW 1\n"))

	out, err := run(t, "wave", "-n", "97", "--names", names)
	require.NoError(t, err)
	assert.Equal(t, "97: SAW 1\n", out)

	out, err = run(t, "wave", "-n", "256")
	require.NoError(t, err)
	assert.Equal(t, "256\n", out)
}

func TestWaveCommandDefaultNames(t *testing.T) {
	dir, err := os.UserConfigDir()
	require.NoError(t, err)
	path := filepath.Join(dir, "k4tool", "waves.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("97: SAW 1\n"), 0o644))
	t.Cleanup(func() { _ = os.Remove(path) })

	out, err := run(t, "wave")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, k4.WaveCount)
	assert.Equal(t, "97: SAW 1", lines[96])
}

func TestWaveCommandOutOfRange(t *testing.T) {
	for _, n := range []string{"0", "257"} {
		_, err := run(t, "wave", "-n", n)
		require.Error(t, err)
		assert.ErrorIs(t, err, k4.ErrOutOfRange)
		assert.Equal(t, exitOutOfRange, exitCode(err))
	}
}

func TestListCommand(t *testing.T) {
	out, err := run(t, "list", "-f", testBankFile(t))
	require.NoError(t, err)
	assert.Contains(t, out, "SINGLE patches:")
	assert.Contains(t, out, "Brass 1")

	out, err = run(t, "list", "-f", testBankFile(t), "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "bank.syx"`)
}

func TestListCommandSave(t *testing.T) {
	target := filepath.Join(t.TempDir(), "bank.html")

	out, err := run(t, "list", "-f", testBankFile(t), "--save", target)
	require.NoError(t, err)
	assert.Contains(t, out, "-> "+target)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<html>")
}

func TestListFormatResolution(t *testing.T) {
	tests := []struct {
		output string
		save   string
		want   listing.Format
	}{
		{"", "", listing.FormatText},
		{"yaml", "", listing.FormatYAML},
		{"", "out.json", listing.FormatJSON},
		{"text", "out.json", listing.FormatText},
		{"", "out.bin", listing.FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.output+"/"+tt.save, func(t *testing.T) {
			outputFormat, saveFile = tt.output, tt.save
			t.Cleanup(func() { outputFormat, saveFile = "", "" })

			got, err := listFormat()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListCommandErrors(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantCode    int
		wantMessage string
	}{
		{
			name:        "unsupported format",
			args:        []string{"-f", "whatever.syx", "-o", "pdf"},
			wantCode:    exitUnsupportedFormat,
			wantMessage: `unsupported output format: "pdf"`,
		},
		{
			name:     "missing file",
			args:     []string{"-f", filepath.Join(t.TempDir(), "nope.syx")},
			wantCode: exitIO,
		},
		{
			name:        "one byte short",
			args:        []string{"-f", writeFile(t, "short.syx", make([]byte, k4.BankDataSize-1))},
			wantCode:    exitNotBank,
			wantMessage: "Not a bank file",
		},
		{
			name:        "all zero",
			args:        []string{"-f", writeFile(t, "zero.syx", make([]byte, k4.BankDataSize))},
			wantCode:    exitDecode,
			wantMessage: "Bank parse failed, error: bank: bad header in start at offset 0 (got 0x00, want 0xF0)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append([]string{"list"}, tt.args...)...)
			require.Error(t, err)
			assert.Empty(t, out)
			assert.Equal(t, tt.wantCode, exitCode(err))
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, errorMessage(err))
			}
		})
	}
}

func TestListCommandRequiresFilename(t *testing.T) {
	_, err := run(t, "list")
	require.Error(t, err)
	assert.Equal(t, exitFailure, exitCode(err))
}

func TestDumpCommand(t *testing.T) {
	path := testBankFile(t)

	out, err := run(t, "dump", "-f", path, "-p", "A-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Name      Brass 1\n")

	out, err = run(t, "dump", "-f", path, "-p", "a-1", "-k", "multi")
	require.NoError(t, err)
	assert.Contains(t, out, "Name      Layer\n")

	out, err = run(t, "dump", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "SINGLE A-1\n")
	assert.Contains(t, out, "SINGLE D-16\n")
	assert.Contains(t, out, "MULTI D-16\n")
}

func TestDumpCommandErrors(t *testing.T) {
	path := testBankFile(t)

	_, err := run(t, "dump", "-f", path, "-p", "E-1")
	assert.ErrorContains(t, err, `invalid patch label "E-1"`)

	_, err = run(t, "dump", "-f", path, "-p", "A-1", "-k", "drum")
	assert.ErrorContains(t, err, "invalid patch kind")
}

func TestIdentifyCommand(t *testing.T) {
	out, err := run(t, "identify", "-f", testBankFile(t))
	require.NoError(t, err)
	assert.Contains(t, out, "bank.syx: 15 kB (15,123 bytes), 1 SysEx message")
	assert.Contains(t, out, "Kawai Musical Instruments MFG. CO. Ltd (40H)")
	assert.Contains(t, out, "Block / All / INT")
}

func TestVerifyCommand(t *testing.T) {
	good := testBankFile(t)
	out, errOut, err := runStreams(t, "verify", good, good)
	require.NoError(t, err)
	assert.Equal(t, good+": OK\n"+good+": OK\n", out)
	assert.Empty(t, errOut)

	short := writeFile(t, "short.syx", []byte{0xF0, 0xF7})
	zero := writeFile(t, "zero.syx", make([]byte, k4.BankDataSize))

	out, errOut, err = runStreams(t, "verify", good, short, zero)
	require.Error(t, err)
	assert.Equal(t, good+": OK\n", out)
	assert.Equal(t, short+": Not a bank file\n"+
		zero+": Bank parse failed, error: bank: bad header in start at offset 0 (got 0x00, want 0xF0)\n", errOut)

	assert.Equal(t, "2 of 3 files failed verification", errorMessage(err))
	assert.Equal(t, exitNotBank, exitCode(err))
}

func TestInvalidLogFormat(t *testing.T) {
	_, err := run(t, "wave", "--log-format", "xml")
	assert.ErrorContains(t, err, "invalid log format")
}

func TestExitCode(t *testing.T) {
	_, pathErr := os.Open(filepath.Join(t.TempDir(), "missing"))

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"other", errors.New("boom"), exitFailure},
		{"io", pathErr, exitIO},
		{"size", &sysex.SizeError{Got: 1, Want: 2}, exitNotBank},
		{"decode", sysex.ChecksumError(10, 1, 2), exitDecode},
		{"wrapped decode", fmt.Errorf("bank.syx: %w", sysex.ChecksumError(10, 1, 2)), exitDecode},
		{"range", &k4.RangeError{Name: "wave number", Value: 0, Min: 1, Max: 256}, exitOutOfRange},
		{"format", fmt.Errorf("%w: %q", listing.ErrUnsupportedFormat, "pdf"), exitUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
