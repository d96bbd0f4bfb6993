package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"fitocr/pkg/ocr"
	"fitocr/process/retry"
)

func newRetryCmd(g *globals) *cobra.Command {
	var (
		username string
		dry      bool
		gentle   bool
	)
	cmd := &cobra.Command{
		Use:   "retry",
		Short: "Run OCR again over uploads that produced no total time",
		Long: `retry transcribes failed or empty uploads again from UPLOAD_BASE. Unless
--gentle is set it binarizes the image with an adaptive threshold first,
which recovers low-contrast dark-mode screenshots.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, s, err := g.settings()
			if err != nil {
				return err
			}
			st, err := openStore(env)
			if err != nil {
				return err
			}
			defer st.Close()

			opts := retry.Options{UploadBase: env.UploadBase, DryRun: dry}
			if username != "" {
				u, err := st.FindUser(username)
				if err != nil {
					return fmt.Errorf("user %s: %w", username, err)
				}
				opts.UserID = &u.ID
			}
			o := s.OCR
			if !gentle {
				o.Preprocess = true
				o.Threshold = ocr.ThresholdAdaptive
			}
			stats, err := retry.Run(cmd.Context(), cmd.OutOrStdout(), st, ocr.NewTesseract(o), s.Extractor(), opts)
			log.Printf("retry: candidates=%d updated=%d empty=%d errors=%d", stats.Candidates, stats.Updated, stats.StillEmpty, stats.Errors)
			return err
		},
	}
	cmd.Flags().StringVar(&username, "user", "", "only retry this user's uploads")
	cmd.Flags().BoolVar(&dry, "dry-run", false, "print proposed updates without saving")
	cmd.Flags().BoolVar(&gentle, "gentle", false, "keep the configured preprocessing")
	return cmd
}
