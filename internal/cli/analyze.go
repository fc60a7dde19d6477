package cli

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd(d deps, load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze an incident text or image",
	}
	cmd.AddCommand(newAnalyzeTextCmd(d, load))
	cmd.AddCommand(newAnalyzeImageCmd(d, load))
	return cmd
}

func newAnalyzeTextCmd(d deps, load configLoader) *cobra.Command {
	var (
		file       string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "text [incident text...]",
		Short: "Analyze incident text into a structured safety report",
		Example: `  sirenctl analyze text "비계 해체 작업 중 작업자 추락"
  sirenctl analyze text --file report.txt --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("reading %s: %w", file, err)
				}
				text = string(data)
			}

			cfg, err := load()
			if err != nil {
				return err
			}
			svc, err := d.analyzer(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			res, err := svc.AnalyzeText(cmd.Context(), text)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}
			if jsonOutput {
				return renderJSON(cmd, res)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderReport(res, ""))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read incident text from a file")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the report as JSON")
	return cmd
}

func newAnalyzeImageCmd(d deps, load configLoader) *cobra.Command {
	var (
		file       string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "image --file <image>",
		Short: "Run OCR on an incident image and analyze the text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("reading %s: %w", file, err)
			}

			cfg, err := load()
			if err != nil {
				return err
			}
			svc, err := d.analyzer(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			res, err := svc.AnalyzeImage(cmd.Context(), base64.StdEncoding.EncodeToString(data))
			if err != nil {
				return fmt.Errorf("image analysis failed: %w", err)
			}
			if jsonOutput {
				return renderJSON(cmd, res)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderReport(&res.Analysis, res.OCRText))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Image file to analyze")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the report as JSON")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func renderJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
