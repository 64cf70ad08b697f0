package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/dailyfeed/internal/logger"
	"github.com/jmylchreest/dailyfeed/internal/output"
	"github.com/jmylchreest/dailyfeed/pkg/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file.html]",
	Short: "Parse an HTML fragment into content blocks",
	Long: `Parse an HTML fragment and print the resulting content blocks. The
fragment is read from the named file, or from stdin when no file is given.
Parser warnings are logged; use --strict to fail on them.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	flags := parseCmd.Flags()
	flags.StringP("format", "f", "json", "output format: json, yaml")
	flags.Bool("strict", false, "exit with an error when the parser reports warnings")
}

func runParse(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0]) //#nosec G304 -- CLI tool reads user-specified input file
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	formatStr, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	result := parser.ParseWithResult(string(data))
	for _, w := range result.Warnings {
		logger.Warn("parser warning", "phase", w.Phase, "message", w.Message, "context", w.Context)
	}

	writer, err := output.NewWriter(cmd.OutOrStdout(), format)
	if err != nil {
		return err
	}
	if err := writer.Write(result.Blocks); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	if strict, _ := cmd.Flags().GetBool("strict"); strict && result.HasWarnings() {
		return fmt.Errorf("parser reported %d warning(s)", len(result.Warnings))
	}
	return nil
}
