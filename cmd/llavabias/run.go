package main

import (
	"github.com/spf13/cobra"

	"kgeyst.com/llavabias/pkg/llavabias/domain"
)

var (
	suitePath string
	only      []string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bias test suite and write a report to the results directory",
	Args:  cobra.NoArgs,
	RunE:  runBiasTests,
}

func init() {
	runCmd.Flags().StringVar(&suitePath, "suite", "", "YAML file with test cases replacing the built-in ones")
	runCmd.Flags().StringSliceVar(&only, "only", nil, `Run only these bias types, e.g. --only "Gender Bias"`)
}

func runBiasTests(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("suite") {
		config.Set(domain.ConfigKeySuitePath, suitePath)
	}
	if cmd.Flags().Changed("only") {
		config.Set(domain.ConfigKeyOnly, only)
	}
	ctx, cancel, llava, err := newAPI(cmd)
	if err != nil {
		return err
	}
	defer cancel()
	_, err = llava.RunBiasTests(ctx)
	return err
}
