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
	"io"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	voprf "github.com/bytemare/verifiable-oprf"
)

// BlindOutput is what blind prints for each input. State is secret and must be kept by the client for finalize.
type BlindOutput struct {
	Input   string `yaml:"input"`
	State   string `yaml:"state"`
	Blinded string `yaml:"blinded"`
}

// EvaluateOutput is the server response to a batch of blinded elements.
type EvaluateOutput struct {
	Evaluations []string `yaml:"evaluations"`
	Proof       string   `yaml:"proof"`
}

// FinalizeOutput holds the finalized output of one input, or the reason it failed.
type FinalizeOutput struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output,omitempty"`
	Error  string `yaml:"error,omitempty"`
}

func printYAML(w io.Writer, v any) error {
	raw, err := yaml.Marshal(v)
	if err != nil {
		return err
	}

	_, err = w.Write(raw)

	return err
}

func decodeHexList(name string, values []string) ([][]byte, error) {
	out := make([][]byte, len(values))

	for i, v := range values {
		d, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("invalid hex in %s #%d: %w", name, i, err)
		}

		out[i] = d
	}

	return out, nil
}

var blindCmd = &cobra.Command{
	Use:   "blind [input...]",
	Short: "Blind inputs for evaluation by the server",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		suite, err := loadSuite()
		if err != nil {
			return err
		}

		out := make([]BlindOutput, len(args))

		for i, input := range args {
			client, blinded, err := suite.Blind([]byte(input), nil)
			if err != nil {
				return fmt.Errorf("input #%d: %w", i, err)
			}

			out[i] = BlindOutput{
				Input:   input,
				State:   hex.EncodeToString(client.Serialize()),
				Blinded: hex.EncodeToString(blinded.Serialize()),
			}

			client.Zeroize()
		}

		glog.V(1).Infof("Blinded %d inputs with %s", len(args), suite)

		return printYAML(cmd.OutOrStdout(), out)
	},
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [blinded...]",
	Short: "Evaluate hex-encoded blinded elements and prove it with a single proof",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := loadServer()
		if err != nil {
			return err
		}
		defer server.Zeroize()

		suite := server.Ciphersuite()

		encoded, err := decodeHexList("blinded element", args)
		if err != nil {
			return err
		}

		blinded := make([]*voprf.BlindedElement, len(encoded))
		for i, e := range encoded {
			if blinded[i], err = suite.DeserializeBlindedElement(e); err != nil {
				return fmt.Errorf("blinded element #%d: %w", i, err)
			}
		}

		workers, _ := cmd.Flags().GetInt("workers")

		prepared, err := server.BatchBlindEvaluatePrepareParallel(cmd.Context(), blinded, workers)
		if err != nil {
			return err
		}

		evaluations, proof, err := server.BatchBlindEvaluateFinish(nil, blinded, prepared)
		if err != nil {
			return err
		}

		out := EvaluateOutput{
			Evaluations: make([]string, len(evaluations)),
			Proof:       hex.EncodeToString(proof.Serialize()),
		}

		for i, e := range evaluations {
			out.Evaluations[i] = hex.EncodeToString(e.Serialize())
		}

		glog.V(1).Infof("Evaluated %d blinded elements with %s", len(blinded), suite)

		return printYAML(cmd.OutOrStdout(), out)
	},
}

var finalizeCmd = &cobra.Command{
	Use:   "finalize [input...]",
	Short: "Verify the server proof and unblind the evaluations into PRF outputs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		suite, err := loadSuite()
		if err != nil {
			return err
		}

		pk, err := loadPublicKey(suite)
		if err != nil {
			return err
		}

		states, _ := cmd.Flags().GetStringSlice("state")
		evals, _ := cmd.Flags().GetStringSlice("evaluation")
		proofHex, _ := cmd.Flags().GetString("proof")

		encodedStates, err := decodeHexList("state", states)
		if err != nil {
			return err
		}

		encodedEvals, err := decodeHexList("evaluation", evals)
		if err != nil {
			return err
		}

		encodedProof, err := hex.DecodeString(proofHex)
		if err != nil {
			return fmt.Errorf("invalid hex in proof: %w", err)
		}

		proof, err := suite.DeserializeProof(encodedProof)
		if err != nil {
			return fmt.Errorf("proof: %w", err)
		}

		clients := make([]*voprf.Client, len(encodedStates))
		for i, s := range encodedStates {
			if clients[i], err = suite.DeserializeClient(s); err != nil {
				return fmt.Errorf("state #%d: %w", i, err)
			}
		}

		defer func() {
			for _, c := range clients {
				c.Zeroize()
			}
		}()

		evaluations := make([]*voprf.EvaluationElement, len(encodedEvals))
		for i, e := range encodedEvals {
			if evaluations[i], err = suite.DeserializeEvaluationElement(e); err != nil {
				return fmt.Errorf("evaluation #%d: %w", i, err)
			}
		}

		inputs := make([][]byte, len(args))
		for i, a := range args {
			inputs[i] = []byte(a)
		}

		results, err := voprf.BatchFinalize(inputs, clients, evaluations, proof, pk)
		if err != nil {
			return err
		}

		out := make([]FinalizeOutput, len(results))

		for i, r := range results {
			out[i].Input = args[i]
			if r.Err != nil {
				glog.Warningf("Input #%d could not be finalized: %v", i, r.Err)
				out[i].Error = r.Err.Error()

				continue
			}

			out[i].Output = hex.EncodeToString(r.Output)
		}

		glog.V(1).Infof("Finalized %d inputs with %s", len(results), suite)

		return printYAML(cmd.OutOrStdout(), out)
	},
}

var prfCmd = &cobra.Command{
	Use:   "prf [input]",
	Short: "Compute the PRF output of an input directly with the server key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := loadServer()
		if err != nil {
			return err
		}
		defer server.Zeroize()

		output, err := server.Evaluate([]byte(args[0]))
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(output))

		return err
	},
}

func init() {
	evaluateCmd.Flags().Int("workers", 0, "number of concurrent workers for the evaluation (0 uses all CPUs)")

	finalizeCmd.Flags().StringSlice("state", nil, "hex-encoded client states, as printed by blind, in input order")
	finalizeCmd.Flags().StringSlice("evaluation", nil, "hex-encoded evaluations, as printed by evaluate, in input order")
	finalizeCmd.Flags().String("proof", "", "hex-encoded proof, as printed by evaluate")

	RootCmd.AddCommand(blindCmd, evaluateCmd, finalizeCmd, prfCmd)
}
