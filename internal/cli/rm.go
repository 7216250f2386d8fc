package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/sideeye/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm <run-id>",
		Short: "Delete a stored run",
		Args:  cobra.ExactArgs(1),
		Run:   runRm,
	}

	cmd.Flags().Bool("hard", false, "Permanent delete, including results (irreversible)")

	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	hard, _ := cmd.Flags().GetBool("hard")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	run, err := s.GetRun(cmd.Context(), args[0])
	if err != nil {
		exitErr("rm", err)
	}
	if err := s.RmRun(cmd.Context(), store.RmParams{ID: run.ID, Hard: hard}); err != nil {
		exitErr("rm", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"id":%q,"hard":%t}`+"\n", run.ID, hard)
}
