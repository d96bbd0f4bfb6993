package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"fitocr/pkg/ocr"
)

func newExtractCmd(g *globals) *cobra.Command {
	var (
		textPath  string
		explain   bool
		writeSide bool
	)
	cmd := &cobra.Command{
		Use:   "extract [image]",
		Short: "Extract the fields of one screenshot or transcript as YAML",
		Example: `  fitocr extract "images/2024-03-09.1 Corsa Parco - Casa.jpg"
  fitocr extract --text transcript.txt --explain
  cat transcript.txt | fitocr extract --text -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := g.settings()
			if err != nil {
				return err
			}
			var text string
			switch {
			case textPath == "-":
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				text = string(b)
			case textPath != "":
				b, err := os.ReadFile(textPath)
				if err != nil {
					return err
				}
				text = string(b)
			case len(args) == 1:
				text, err = s.Transcriber().Transcribe(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("ocr %s: %w", args[0], err)
				}
				if writeSide {
					if err := ocr.WriteSidecar(args[0], text); err != nil {
						return err
					}
				}
			default:
				return fmt.Errorf("give an image or --text")
			}

			ex := s.Extractor()
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			if explain {
				return enc.Encode(ex.Explain(text))
			}
			return enc.Encode(ex.Extract(text))
		},
	}
	cmd.Flags().StringVar(&textPath, "text", "", "read a transcript file instead of running OCR (- for stdin)")
	cmd.Flags().BoolVar(&explain, "explain", false, "include the candidates each field was chosen from")
	cmd.Flags().BoolVar(&writeSide, "save-transcript", false, "store the transcript next to the image for later runs")
	return cmd
}
