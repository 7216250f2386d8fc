package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/rcliao/sideeye/internal/config"
)

func init() {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long:  "Print the configuration after the config file and SIDEEYE_* overrides are applied. Text format prints YAML.",
		Args:  cobra.NoArgs,
		Run:   runConfig,
	}

	cmd.Flags().Bool("default", false, "Print the built-in defaults instead")

	RootCmd.AddCommand(cmd)
}

func runConfig(cmd *cobra.Command, args []string) {
	showDefault, _ := cmd.Flags().GetBool("default")

	c := cfg
	if showDefault {
		c = config.Default()
	}

	out := cmd.OutOrStdout()
	if !textFormat() {
		printJSON(out, c)
		return
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		exitErr("encode config", err)
	}
	fmt.Fprint(out, string(b))
}
