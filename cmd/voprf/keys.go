// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package main

import (
	"encoding/hex"
	"fmt"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a random server key pair",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		suite, err := loadSuite()
		if err != nil {
			return err
		}

		server, err := suite.NewServer(nil)
		if err != nil {
			return err
		}
		defer server.Zeroize()

		glog.V(1).Infof("Generated a %s key pair", suite)

		out, _ := cmd.Flags().GetString("out")

		return writeKeyFile(newKeyFile(server), out, cmd.OutOrStdout())
	},
}

var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive a server key pair from a secret seed and public info",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		suite, err := loadSuite()
		if err != nil {
			return err
		}

		seedHex, _ := cmd.Flags().GetString("seed")
		info, _ := cmd.Flags().GetString("info")

		seed, err := hex.DecodeString(seedHex)
		if err != nil {
			return fmt.Errorf("invalid hex in seed: %w", err)
		}

		if len(seed) == 0 {
			return fmt.Errorf("field not provided: seed")
		}

		server, err := suite.NewServerFromSeed(seed, []byte(info))
		if err != nil {
			return err
		}
		defer server.Zeroize()

		glog.V(1).Infof("Derived a %s key pair with info %q", suite, info)

		out, _ := cmd.Flags().GetString("out")

		return writeKeyFile(newKeyFile(server), out, cmd.OutOrStdout())
	},
}

var pubkeyCmd = &cobra.Command{
	Use:   "pubkey [key file]",
	Short: "Write the public part of a key file, for distribution to clients",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := ReadKeyFile(args[0])
		if err != nil {
			return err
		}

		k.PrivateKey = ""
		out, _ := cmd.Flags().GetString("out")

		return writeKeyFile(k, out, cmd.OutOrStdout())
	},
}

func init() {
	for _, c := range []*cobra.Command{keygenCmd, deriveCmd, pubkeyCmd} {
		c.Flags().StringP("out", "o", "", "output file (default stdout)")
		RootCmd.AddCommand(c)
	}

	deriveCmd.Flags().String("seed", "", "hex-encoded secret seed")
	deriveCmd.Flags().String("info", "", "public key info")
}
