// Package cli implements the sideeye CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rcliao/sideeye/internal/config"
	"github.com/rcliao/sideeye/internal/logging"
	"github.com/rcliao/sideeye/internal/store"
)

var (
	dbPath     string
	formatFlag string
	configPath string
	logFormat  string
	verbosity  int

	cfg    *config.Config
	logger *slog.Logger
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "sideeye",
	Short: "Eye-tracking reading measures",
	Long: "Computes region and trial reading measures from DA1 and ASC eye-tracking files.\n" +
		"Results are written as CSV or XLSX reports and kept in a SQLite run history.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $SIDEEYE_DB or ~/.sideeye/results.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file, .json or .yaml (default: $SIDEEYE_CONFIG)")
	RootCmd.PersistentFlags().StringVar(&logFormat, "log-format", logging.FormatText, "Log format: text or json")
	RootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (overrides terminal_output)")
}

// setup loads the configuration and builds the logger shared by all
// commands.
func setup(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = os.Getenv("SIDEEYE_CONFIG")
	}
	c, err := config.Load(path)
	if err != nil {
		return err
	}

	level := logging.LevelForVerbosity(c.TerminalOutput)
	if verbosity > 0 {
		level = logging.LevelForVerbosity(verbosity)
	}
	l, err := logging.New(cmd.ErrOrStderr(), level, logFormat)
	if err != nil {
		return err
	}

	cfg, logger = c, l
	return nil
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("SIDEEYE_DB"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".sideeye", "results.db")
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

func textFormat() bool {
	return formatFlag == "text"
}

func printJSON(w io.Writer, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
