// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the bidibo CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// log is the diagnostic logger shared by all commands.
var log = logrus.New()

// rootCmd is the base command for the bidibo CLI.
var rootCmd = &cobra.Command{
	Use:   "bidibo",
	Short: "Turn slide decks into printable black-and-white handouts",
	Long: `bidibo converts a slide-deck PDF into a compact black-and-white handout.
Every slide is rendered, binarized for sharp monochrome printing and stacked
several to an A4 page.

Use "inspect" to list the pages of a deck and "process" to build the handout.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return configureLogging()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./bidibo.yaml or ~/.config/bidibo/bidibo.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log diagnostic detail to stderr")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bidibo")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "bidibo"))
		}
	}

	viper.SetEnvPrefix("BIDIBO")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func configureLogging() error {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	if viper.GetBool("verbose") {
		log.SetLevel(logrus.DebugLevel)
		return nil
	}
	level, err := logrus.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	log.SetLevel(level)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
