package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"quizo/internal/config"
)

var configPath string

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "quizo",
		Short:         "Terminal client for Quizo real-time multiplayer quiz sessions",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config (env: QUIZO_CONFIG)")
	cmd.AddCommand(newJoinCmd())
	cmd.AddCommand(newHostCmd())
	cmd.AddCommand(newCreateCmd())

	v := viper.New()
	v.SetEnvPrefix("QUIZO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	bindEnv(v, cmd)

	return cmd
}

// bindEnv lets every flag default from a QUIZO_* environment variable, on
// the root command and all subcommands.
func bindEnv(v *viper.Viper, cmd *cobra.Command) {
	apply := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = v.BindPFlag(f.Name, f)
			_ = v.BindEnv(f.Name)
			if !f.Changed && v.IsSet(f.Name) {
				_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
			}
		})
	}
	apply(cmd.PersistentFlags())
	apply(cmd.Flags())
	for _, sub := range cmd.Commands() {
		bindEnv(v, sub)
	}
}

// loadConfig falls back to the built-in defaults when no config file was
// given; a named file that cannot be read is an error.
func loadConfig() (config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}
