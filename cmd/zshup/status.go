package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zshup/zshup/pkg/zshup/logging"
	"github.com/zshup/zshup/pkg/zshup/output"
	"github.com/zshup/zshup/pkg/zshup/status"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current installation state",
	Long: `Status inspects the machine without changing anything: whether a
manifest exists and what it records, whether the managed block is
present in your rc file, which tools are available, and what the
current default shell is.

Use -o to select the output format (pretty, plain, json, yaml).`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := bootstrap()
	if err != nil {
		printError("%v", err)
		return err
	}
	defer logging.Close()

	rep, err := status.Collect(cfg, manifestStore(cfg))
	if err != nil {
		printError("collecting status: %v", err)
		return err
	}

	formatter, err := output.Get(viper.GetString("output"))
	if err != nil {
		printError("%v (available: %v)", err, output.Available())
		return err
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, rep); err != nil {
		printError("formatting status: %v", err)
		return err
	}
	fmt.Print(buf.String())

	return nil
}
