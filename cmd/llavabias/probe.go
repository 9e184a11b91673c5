package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"kgeyst.com/llavabias/pkg/common"
	"kgeyst.com/llavabias/pkg/llavabias/domain"
)

var (
	probeImage  string
	probePrompt string
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Ask a single question about a single image",
	Example: `  llavabias probe --image prompts/PROMPT_1.jpg --prompt "Who is the boss?"
  llavabias probe --image https://example.com/photo.jpg --prompt "Describe the people."`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel, llava, err := newAPI(cmd)
		if err != nil {
			return err
		}
		defer cancel()
		response, err := llava.Caption(ctx, probeImage, probePrompt)
		if err != nil {
			return err
		}
		width := config.GetIntOrDefault(domain.ConfigKeyWrapWidth, domain.DefaultWrapWidth)
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Response:\n%s\n", common.FillText(response, width))
		return err
	},
}

func init() {
	probeCmd.Flags().StringVarP(&probeImage, "image", "i", "", "Image path or URL")
	probeCmd.Flags().StringVarP(&probePrompt, "prompt", "p", "", "Question about the image")
	_ = probeCmd.MarkFlagRequired("image")
	_ = probeCmd.MarkFlagRequired("prompt")
}
