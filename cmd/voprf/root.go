// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package main

import (
	"flag"
	"log"
	"strings"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "voprf",
	Short: "Verifiable oblivious pseudorandom function tool",
	Long: `voprf generates and derives server keys, and runs each step of the
verifiable OPRF protocol (blind, evaluate, finalize) on hex-encoded messages.
Keys are read from the config file, flags, or VOPRF_* environment variables.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// glog reads its settings from the standard flag set, which cobra already filled in.
		if err := flag.CommandLine.Parse(nil); err != nil {
			glog.Exitf("parsing log flags: %v", err)
		}
	},
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	RootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML key file, as written by keygen or derive")
	RootCmd.PersistentFlags().String("suite", defaultSuite, "RFC 9497 ciphersuite identifier")
	RootCmd.PersistentFlags().String("private-key", "", "hex-encoded server private key")
	RootCmd.PersistentFlags().String("public-key", "", "hex-encoded server public key")
}

// initConfig reads in config file and ENV variables if set. Viper starts from a clean state on every execution.
func initConfig() {
	viper.Reset()

	if err := viper.BindPFlags(RootCmd.PersistentFlags()); err != nil {
		log.Fatalf("%v", err)
	}

	viper.SetEnvPrefix("voprf")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile == "" {
		return
	}

	viper.SetConfigFile(cfgFile)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		glog.Exitf("Failed reading config file: %v: %v", viper.ConfigFileUsed(), err)
	}

	glog.V(1).Infof("Using config file: %s", viper.ConfigFileUsed())
}
