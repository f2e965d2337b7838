// Package main is the entry point for the k4tool CLI
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/james-see/k4tool/pkg/api"
	"github.com/james-see/k4tool/pkg/config"
	"github.com/james-see/k4tool/pkg/k4"
	"github.com/james-see/k4tool/pkg/listing"
	"github.com/james-see/k4tool/pkg/logging"
	"github.com/james-see/k4tool/pkg/tui"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	envFile      string
	logLevel     string
	logFormat    string
	waveNamesArg string
	waveNumber   int
	bankFile     string
	outputFormat string
	saveFile     string
	patchLabel   string
	patchKind    string
	serverPort   int
)

// Loaded by the root command before any subcommand runs
var (
	cfg    config.Config
	logger = logging.Nop()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorMessage(err))
		os.Exit(exitCode(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "k4tool",
	Short: "Inspect Kawai K4 System Exclusive bank dumps",
	Long: `k4tool validates and decodes Kawai K4 SysEx bank files (.syx) and lists
their singles, multis, drum and effect settings.

Settings are read from K4TOOL_* environment variables and an optional .env file.
Wave names are loaded from --names, K4TOOL_WAVE_NAMES or k4tool/waves.yaml in the
user config dir (see examples/waves.yaml).

Examples:
  k4tool wave
  k4tool wave -n 97 --names waves.yaml
  k4tool list -f A401.SYX -o html --save A401.html
  k4tool dump -f A401.SYX -p A-1
  k4tool identify -f A401.SYX
  k4tool verify banks/*.syx
  k4tool tui
  k4tool serve --port 8080`,
	Version:           fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var waveCmd = &cobra.Command{
	Use:   "wave",
	Short: "List the K4 waves",
	Long:  `Prints the 256 K4 wave numbers in ascending order, one per line, or a single wave with -n.`,
	Args:  cobra.NoArgs,
	RunE:  runWave,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the patches of a bank",
	Long: `Decodes a bank file and lists its patches as text, html, json or yaml.

Without --output the format follows the extension of --save, falling back to text.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Show every parameter of bank patches",
	Long:  `Prints the parameter report of one patch (-p A-1) or of every single and multi in the bank.`,
	Args:  cobra.NoArgs,
	RunE:  runDump,
}

var identifyCmd = &cobra.Command{
	Use:   "identify",
	Short: "Identify the SysEx messages in a file",
	Long:  `Shows the size of a file and the manufacturer and content of each SysEx message it holds.`,
	Args:  cobra.NoArgs,
	RunE:  runIdentify,
}

var verifyCmd = &cobra.Command{
	Use:   "verify <file>...",
	Short: "Check that files are valid K4 banks",
	Long: `Decodes each file concurrently. Valid files are reported as OK on stdout,
the first problem found in any other file goes to stderr.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (pretty, json)")
	rootCmd.PersistentFlags().StringVar(&waveNamesArg, "names", "", "YAML file mapping wave numbers to names")

	waveCmd.Flags().IntVarP(&waveNumber, "number", "n", 0, "Show only this wave (1-256)")

	listCmd.Flags().StringVarP(&bankFile, "filename", "f", "", "Bank file (.syx)")
	listCmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format ("+strings.Join(listing.SupportedFormats(), ", ")+")")
	listCmd.Flags().StringVarP(&saveFile, "save", "s", "", "Write the listing to this file instead of stdout")
	_ = listCmd.MarkFlagRequired("filename")

	dumpCmd.Flags().StringVarP(&bankFile, "filename", "f", "", "Bank file (.syx)")
	dumpCmd.Flags().StringVarP(&patchLabel, "patch", "p", "", "Patch label, e.g. A-1")
	dumpCmd.Flags().StringVarP(&patchKind, "kind", "k", "single", "Patch kind for --patch (single, multi)")
	_ = dumpCmd.MarkFlagRequired("filename")

	identifyCmd.Flags().StringVarP(&bankFile, "filename", "f", "", "SysEx file")
	_ = identifyCmd.MarkFlagRequired("filename")

	serveCmd.Flags().IntVarP(&serverPort, "port", "p", config.DefaultPort, "Server port")

	rootCmd.AddCommand(waveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(identifyCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

// setup loads the configuration, letting flags override the environment
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if logFormat != "" {
		c.LogFormat = logFormat
	}
	if waveNamesArg != "" {
		c.WaveNames = waveNamesArg
	}
	if err := c.Validate(); err != nil {
		return err
	}

	cfg = c
	logger = logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	return nil
}

func loadWaveNames() (k4.WaveNames, error) {
	if cfg.WaveNames == "" {
		return k4.WaveNames{}, nil
	}
	f, err := os.Open(cfg.WaveNames)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	names, err := k4.LoadWaveNames(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.WaveNames, err)
	}
	logger.Debug().Str("file", cfg.WaveNames).Int("names", len(names)).Msg("loaded wave names")
	return names, nil
}

func loadBank(path string) (*k4.Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("file", path).Int("bytes", len(data)).Msg("read bank")
	return k4.ParseBank(data)
}

func runWave(cmd *cobra.Command, args []string) error {
	names, err := loadWaveNames()
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("number") {
		return listing.WriteWaveList(cmd.OutOrStdout(), names)
	}
	n, err := k4.NewWaveNumber(waveNumber)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), names.Wave(n))
	return err
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := listFormat()
	if err != nil {
		return err
	}

	bank, err := loadBank(bankFile)
	if err != nil {
		return err
	}
	l := listing.FromBank(filepath.Base(bankFile), bank)

	if saveFile == "" {
		return listing.Render(cmd.OutOrStdout(), l, format)
	}

	f, err := os.Create(saveFile)
	if err != nil {
		return err
	}
	if err := listing.Render(f, l, format); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Listed %s -> %s\n", bankFile, saveFile)
	return nil
}

// listFormat resolves --output, or the --save extension when it is empty
func listFormat() (listing.Format, error) {
	if outputFormat != "" {
		return listing.ParseFormat(outputFormat)
	}
	if saveFile != "" {
		if f := listing.DetectFormat(saveFile); f != listing.FormatUnknown {
			return f, nil
		}
	}
	return listing.FormatText, nil
}

func runDump(cmd *cobra.Command, args []string) error {
	bank, err := loadBank(bankFile)
	if err != nil {
		return err
	}
	names, err := loadWaveNames()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if patchLabel != "" {
		switch strings.ToLower(patchKind) {
		case "single", "s":
			p, err := bank.Single(patchLabel)
			if err != nil {
				return err
			}
			return listing.WriteSingleReport(out, p, names)
		case "multi", "m":
			p, err := bank.Multi(patchLabel)
			if err != nil {
				return err
			}
			return listing.WriteMultiReport(out, p, bank)
		default:
			return fmt.Errorf("invalid patch kind %q (want single or multi)", patchKind)
		}
	}

	for i := range bank.Singles {
		fmt.Fprintf(out, "SINGLE %s\n", k4.PatchLabel(i))
		if err := listing.WriteSingleReport(out, &bank.Singles[i], names); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
	for i := range bank.Multis {
		fmt.Fprintf(out, "MULTI %s\n", k4.PatchLabel(i))
		if err := listing.WriteMultiReport(out, &bank.Multis[i], bank); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
	return nil
}

func runIdentify(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(bankFile)
	if err != nil {
		return err
	}
	return listing.WriteInventory(cmd.OutOrStdout(), listing.Identify(filepath.Base(bankFile), data))
}

func runVerify(cmd *cobra.Command, args []string) error {
	results := make([]error, len(args))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range args {
		g.Go(func() error {
			_, results[i] = loadBank(path)
			return nil
		})
	}
	_ = g.Wait()

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	failed := &verifyError{Total: len(args)}
	for i, path := range args {
		if err := results[i]; err != nil {
			fmt.Fprintf(errOut, "%s: %s\n", path, errorMessage(err))
			logger.Debug().Err(err).Str("file", path).Msg("verify failed")
			failed.add(err)
			continue
		}
		fmt.Fprintf(out, "%s: OK\n", path)
	}
	if failed.Failed > 0 {
		return failed
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	names, err := loadWaveNames()
	if err != nil {
		return err
	}
	return tui.Run(names)
}

func runServe(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("port") {
		cfg.Port = serverPort
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	names, err := loadWaveNames()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Starting k4tool API server on %s...\n", cfg.Addr())
	fmt.Fprintf(cmd.OutOrStdout(), "Swagger docs available at http://localhost:%d/swagger/index.html\n", cfg.Port)
	return api.NewServer(cfg, names, logger.With().Str("component", "api").Logger()).Run(ctx)
}
