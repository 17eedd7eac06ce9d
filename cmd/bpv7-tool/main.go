// SPDX-FileCopyrightText: 2020, 2021 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

// bpv7-tool creates, inspects and checks Bundles stored as files.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// tool holds the state shared by all sub-commands.
type tool struct {
	configFile string
	conf       tomlConfig
}

// newRootCmd creates the bpv7-tool command with all its sub-commands.
func newRootCmd() *cobra.Command {
	t := &tool{conf: defaultConfig()}

	rootCmd := &cobra.Command{
		Use:          "bpv7-tool",
		Short:        "Create, show and check Bundle Protocol Version 7 bundles",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			conf, err := loadConfig(t.configFile)
			if err != nil {
				return err
			}

			t.conf = conf
			conf.Logging.apply()
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&t.configFile, "config", "c", "", "TOML configuration file")

	rootCmd.AddCommand(
		newCreateCmd(t),
		newShowCmd(t),
		newCheckCmd(t),
		newWatchCmd(t))

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
