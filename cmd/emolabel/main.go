package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	emolabel "github.com/unowned-ai/emolabel/pkg"
	"github.com/unowned-ai/emolabel/pkg/config"
	pkgdb "github.com/unowned-ai/emolabel/pkg/db"
	"github.com/unowned-ai/emolabel/pkg/logging"
)

var (
	configFile string
	logLevel   string
	dbPath     string
	walMode    bool
	syncMode   string

	// Resolved in PersistentPreRunE.
	cfg    *config.Config
	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:     "emolabel",
	Short:   "Label texts with emotions and measure annotator agreement.",
	Long:    ``,
	Version: fmt.Sprintf("v%s", emolabel.Version),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configFile)
		if err != nil {
			return err
		}

		// Explicit flags win over file and environment.
		flags := cmd.Flags()
		if flags.Changed("log-level") {
			c.Log.Level = logLevel
		}
		if flags.Changed("db") {
			c.Dataset.Path = dbPath
		}
		if flags.Changed("wal") {
			c.Dataset.WAL = walMode
		}
		if flags.Changed("sync") {
			c.Dataset.Sync = strings.ToUpper(syncMode)
		}

		l, err := logging.NewStderr(c.Log.Level)
		if err != nil {
			return err
		}
		cfg, logger = c, l
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = &cobra.Command{
	Use:   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for emolabel.

The command prints a completion script to stdout. You can source it in your shell
or install it to the appropriate location for your shell to enable completions permanently.

Examples:

  Bash (current shell):
    $ source <(emolabel completion bash)

  Zsh:
    $ emolabel completion zsh > "${fpath[1]}/_emolabel"

  Fish:
    $ emolabel completion fish > ~/.config/fish/completions/emolabel.fish

  PowerShell:
    PS> emolabel completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells,
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of emolabel",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), emolabel.Version)
	},
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the dataset archive database",
	Long:  `Provides commands for managing the SQLite dataset archive, including schema upgrades.`,
}

var dbUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade the dataset archive schema to the latest version",
	Long: `Connects to the SQLite dataset archive (--db, dataset.path in the config file, or the
system-specific default) and brings the datasetdb component up to the current schema version.
If the database does not exist or is uninitialized, it is created with the latest schema.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := cfg.DatasetPath()
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Attempting to upgrade datasetdb component in database at: %s (WAL: %t, Sync: %s)\n", path, cfg.Dataset.WAL, cfg.Dataset.Sync)

		dbConn, err := pkgdb.Open(path, archiveOptions())
		if err != nil {
			return err
		}
		defer dbConn.Close()

		return pkgdb.UpgradeDB(dbConn, path, pkgdb.TargetSchemaVersion, logger)
	},
}

func initCmd() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML config file (default: <user config dir>/emolabel/config.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the dataset archive (uses a system-specific default if not provided)")
	rootCmd.PersistentFlags().BoolVar(&walMode, "wal", false, "Enable SQLite WAL (Write-Ahead Logging) mode for the dataset archive")
	rootCmd.PersistentFlags().StringVar(&syncMode, "sync", "FULL", "SQLite synchronous pragma (OFF, NORMAL, FULL, EXTRA)")

	dbCmd.AddCommand(dbUpgradeCmd)

	initTUICmd()
	initMCPCmd()
	initConvertCmd()
	initAgreementCmd()
	initDatasetsCmd()
	rootCmd.AddCommand(completionCmd, versionCmd, labelsCmd, dbCmd, tuiCmd, mcpCmd, convertCmd, agreementCmd, datasetsCmd)
}

func main() {
	initCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
