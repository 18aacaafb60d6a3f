// Package commands holds the cobra command tree of the dreamlog binary.
package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dreamlog/internal/config"
)

// rootOptions carries the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	v          *viper.Viper
}

func New() *cobra.Command {
	o := &rootOptions{v: config.NewViper()}

	cmd := &cobra.Command{
		Use:   "dreamlog",
		Short: "A dream journal for the terminal and the browser.",
		Long: `dreamlog records dreams with their emotions, tags and dream signs.

Run without a subcommand to open the interactive journal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd, o)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&o.configPath, "config", "", "Config file (default $DREAMLOG_CONFIG or ~/.config/dreamlog/config.toml).")
	flags.String("db", "", "SQLite database path.")
	flags.String("store-dir", "", "Directory of the fallback key-value store.")
	flags.String("log-file", "", "Log file used by the interactive journal.")
	flags.String("log-level", "", "Log level: debug, info, warn or error.")
	_ = o.v.BindPFlag(config.KeyDBPath, flags.Lookup("db"))
	_ = o.v.BindPFlag(config.KeyStoreDir, flags.Lookup("store-dir"))
	_ = o.v.BindPFlag(config.KeyLogPath, flags.Lookup("log-file"))
	_ = o.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	AddCommands(cmd, o)
	return cmd
}

func AddCommands(topLevel *cobra.Command, o *rootOptions) {
	addUI(topLevel, o)
	addAdd(topLevel, o)
	addList(topLevel, o)
	addShow(topLevel, o)
	addDelete(topLevel, o)
	addExport(topLevel, o)
	addServe(topLevel, o)
	addSuggest(topLevel, o)
}

func (o *rootOptions) load() (config.Config, string, error) {
	path := o.configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return cfg, path, err
	}
	return config.Overlay(cfg, o.v), path, nil
}
