package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/sideeye/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import runs from JSON",
		Long:  "Import runs from JSON (stdin or file). Expects the format produced by export. Imported runs get new ids.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			exitErr("open", err)
		}
		defer f.Close()
		in = f
	}

	exports, err := store.ReadExports(in)
	if err != nil {
		exitErr("parse json", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	runs, err := s.Import(cmd.Context(), exports)
	if err != nil {
		exitErr("import", err)
	}

	ids := make([]string, len(runs))
	for i, r := range runs {
		ids[i] = r.ID
	}
	printJSON(cmd.OutOrStdout(), map[string]any{"ok": true, "imported": len(runs), "ids": ids})
}
