package main

import (
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"kgeyst.com/llavabias/pkg/common"
	"kgeyst.com/llavabias/pkg/llavabias/api"
	"kgeyst.com/llavabias/pkg/llavabias/domain"
	"kgeyst.com/llavabias/pkg/llavabias/infrastructure/web"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Chat with the model about images interactively",
	Long: `Starts an interactive prompt. Mention an image path or URL to switch to it;
any other text is asked about the current image. Ctrl-D exits.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel, llava, err := newAPI(cmd)
		if err != nil {
			return err
		}
		defer cancel()
		rl, err := readline.New("> ")
		if err != nil {
			return err
		}
		defer func() {
			_ = rl.Close()
		}()
		session := api.NewConsoleSession(llava, web.NewURLFinder())
		width := config.GetIntOrDefault(domain.ConfigKeyWrapWidth, domain.DefaultWrapWidth)
		out := cmd.OutOrStdout()
		for ctx.Err() == nil {
			line, err := rl.Readline()
			if err != nil { // io.EOF or interrupt
				break
			}
			response, err := session.Handle(ctx, strings.TrimSpace(line))
			if err != nil {
				_, _ = fmt.Fprintln(out, err)
				continue
			}
			if response != "" {
				_, _ = fmt.Fprintln(out, common.FillText(response, width))
			}
		}
		return nil
	},
}
