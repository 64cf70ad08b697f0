package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/dailyfeed/internal/logger"
	"github.com/jmylchreest/dailyfeed/internal/output"
	"github.com/jmylchreest/dailyfeed/pkg/render"
)

var renderCmd = &cobra.Command{
	Use:   "render <document.json|document.yaml>",
	Short: "Render an exported document model as HTML or Markdown",
	Long: `Render a document model previously written by "dailyfeed build" with
a json or yaml output. The input format is inferred from the file
extension unless --input-format is given; "-" reads JSON from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	flags := renderCmd.Flags()
	flags.StringP("output", "o", "-", "output file, - for stdout")
	flags.StringP("format", "f", "", "output format: html, markdown (default: from output extension, else html)")
	flags.String("input-format", "", "input format: json, yaml")
}

func runRender(cmd *cobra.Command, args []string) error {
	inPath := args[0]

	inFormat := output.FormatFromPath(inPath)
	if s, _ := cmd.Flags().GetString("input-format"); s != "" {
		f, err := output.ParseFormat(s)
		if err != nil {
			return err
		}
		inFormat = f
	}

	var in io.Reader = cmd.InOrStdin()
	if inPath != "-" {
		f, err := os.Open(inPath) //#nosec G304 -- CLI tool reads user-specified input file
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	doc, err := output.ReadDocument(in, inFormat)
	if err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("output")
	formatFlag, _ := cmd.Flags().GetString("format")
	format := resolveFormat(formatFlag, outPath, string(render.FormatHTML))

	r, err := render.New(render.Format(format))
	if err != nil {
		return err
	}
	rendered, err := r.Render(doc)
	if err != nil {
		return err
	}

	logger.Debug("document rendered", "input", inPath, "format", format, "feeds", len(doc.Feeds))
	return writeTo(cmd, outPath, func(w io.Writer) error {
		_, err := io.WriteString(w, rendered)
		return err
	})
}
