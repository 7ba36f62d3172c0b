// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package voprf_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	voprf "github.com/bytemare/verifiable-oprf"
)

func TestVOPRF(t *testing.T) {
	inputs := [][]byte{
		[]byte("input"),
		{0x00},
		randomBytes(1024),
		make([]byte, 65535),
	}

	testAll(t, func(t *testing.T, c *configuration) {
		server := newServer(t, c)

		for _, input := range inputs {
			client, blinded := blind(t, c, input)

			evaluation, proof, err := server.BlindEvaluate(nil, blinded)
			require.NoError(t, err)

			output, err := client.Finalize(input, evaluation, proof, server.PublicKey())
			require.NoError(t, err)
			assert.Len(t, output, c.hash.Size())

			direct, err := server.Evaluate(input)
			require.NoError(t, err)

			if !bytes.Equal(output, direct) {
				t.Fatalf("blind and direct evaluation differ for input of length %d", len(input))
			}

			assert.True(t, server.VerifyFinalize(input, output))
			assert.False(t, server.VerifyFinalize([]byte("other"), output))
		}
	})
}

func TestEvaluate_Deterministic(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		server := newServer(t, c)
		input := []byte("input")

		o1, err := server.Evaluate(input)
		require.NoError(t, err)
		o2, err := server.Evaluate(input)
		require.NoError(t, err)
		assert.Equal(t, o1, o2)

		o3, err := newServer(t, c).Evaluate(input)
		require.NoError(t, err)
		assert.NotEqual(t, o1, o3)
	})
}

func TestEvaluate_BadInput(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		server := newServer(t, c)

		for _, input := range [][]byte{nil, make([]byte, 65536)} {
			_, err := server.Evaluate(input)
			expectErrorIs(t, err, voprf.ErrInput)

			_, _, err = c.ciphersuite.Blind(input, nil)
			expectErrorIs(t, err, voprf.ErrInput)
		}

		assert.False(t, server.VerifyFinalize(nil, nil))
	})
}

func TestBlind_Unlinkable(t *testing.T) {
	const trials = 64

	testAll(t, func(t *testing.T, c *configuration) {
		input := []byte("input")
		seen := make(map[string]struct{}, trials)

		for range trials {
			_, blinded := blind(t, c, input)

			key := string(blinded.Serialize())
			if _, ok := seen[key]; ok {
				t.Fatal("two blinds of the same input produced the same blinded element")
			}

			seen[key] = struct{}{}
		}
	})
}

func TestDeterministicBlindUnchecked(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		input := []byte("input")
		b := c.group.NewScalar().Random()

		c1, blinded1, err := c.ciphersuite.DeterministicBlindUnchecked(input, b)
		require.NoError(t, err)
		_, blinded2, err := c.ciphersuite.DeterministicBlindUnchecked(input, b)
		require.NoError(t, err)
		assert.Equal(t, blinded1.Serialize(), blinded2.Serialize())

		// The client holds its own copy of the blind.
		c1.Zeroize()
		assert.False(t, b.IsZero())

		_, _, err = c.ciphersuite.DeterministicBlindUnchecked(input, nil)
		expectErrorIs(t, err, voprf.ErrInput)

		_, _, err = c.ciphersuite.DeterministicBlindUnchecked(input, c.group.NewScalar())
		expectErrorIs(t, err, voprf.ErrInput)
	})
}

func TestBlind_DeterministicRNG(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		_, b1, err := c.ciphersuite.Blind([]byte("input"), zeroReader{})
		require.NoError(t, err)
		_, b2, err := c.ciphersuite.Blind([]byte("input"), zeroReader{})
		require.NoError(t, err)
		assert.Equal(t, b1.Serialize(), b2.Serialize())
	})
}

func TestFinalize_ProofSoundness(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		server := newServer(t, c)
		input := []byte("input")
		client, blinded := blind(t, c, input)

		evaluation, proof, err := server.BlindEvaluate(nil, blinded)
		require.NoError(t, err)

		t.Run("wrong public key", func(t *testing.T) {
			_, err := client.Finalize(input, evaluation, proof, newServer(t, c).PublicKey())
			expectErrorIs(t, err, voprf.ErrProofVerification)
		})

		t.Run("wrong blinded element", func(t *testing.T) {
			other, _ := blind(t, c, input)
			_, err := other.Finalize(input, evaluation, proof, server.PublicKey())
			expectErrorIs(t, err, voprf.ErrProofVerification)
		})

		t.Run("wrong evaluation element", func(t *testing.T) {
			_, otherBlinded := blind(t, c, []byte("other"))
			otherEval, _, err := server.BlindEvaluate(nil, otherBlinded)
			require.NoError(t, err)

			_, err = client.Finalize(input, otherEval, proof, server.PublicKey())
			expectErrorIs(t, err, voprf.ErrProofVerification)
		})

		t.Run("evaluation with another key", func(t *testing.T) {
			eval, proof, err := newServer(t, c).BlindEvaluate(nil, blinded)
			require.NoError(t, err)

			_, err = client.Finalize(input, eval, proof, server.PublicKey())
			expectErrorIs(t, err, voprf.ErrProofVerification)
		})

		t.Run("nil proof", func(t *testing.T) {
			_, err := client.Finalize(input, evaluation, nil, server.PublicKey())
			expectErrorIs(t, err, voprf.ErrProofVerification)
		})

		t.Run("nil or identity public key", func(t *testing.T) {
			_, err := client.Finalize(input, evaluation, proof, nil)
			expectErrorIs(t, err, voprf.ErrInput)

			_, err = client.Finalize(input, evaluation, proof, c.group.NewElement())
			expectErrorIs(t, err, voprf.ErrInput)
		})

		t.Run("nil evaluation", func(t *testing.T) {
			_, err := client.Finalize(input, nil, proof, server.PublicKey())
			expectErrorIs(t, err, voprf.ErrInput)
		})

		// The valid exchange still succeeds after all the failures.
		_, err = client.Finalize(input, evaluation, proof, server.PublicKey())
		require.NoError(t, err)
	})
}

func TestBatch_Equivalence(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		server := newServer(t, c)
		inputs := make([][]byte, 5)

		for i := range inputs {
			inputs[i] = []byte(fmt.Sprintf("input %d", i))
		}

		clients, blinded := blindBatch(t, c, inputs)

		evaluations, proof, err := server.BatchBlindEvaluate(nil, blinded)
		require.NoError(t, err)
		require.Len(t, evaluations, len(inputs))

		results, err := voprf.BatchFinalize(inputs, clients, evaluations, proof, server.PublicKey())
		require.NoError(t, err)

		batched := make([][]byte, len(results))
		for i, r := range results {
			require.NoError(t, r.Err)
			batched[i] = r.Output
		}

		single := make([][]byte, len(inputs))

		for i, input := range inputs {
			client, b := blind(t, c, input)

			evaluation, proof, err := server.BlindEvaluate(nil, b)
			require.NoError(t, err)

			single[i], err = client.Finalize(input, evaluation, proof, server.PublicKey())
			require.NoError(t, err)
		}

		if diff := cmp.Diff(single, batched); diff != "" {
			t.Fatalf("batched and single outputs differ (-single +batched):\n%s", diff)
		}
	})
}

func TestBatch_PrepareFinish(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		server := newServer(t, c)
		inputs := [][]byte{[]byte("a"), []byte("b"), []byte("c")}
		clients, blinded := blindBatch(t, c, inputs)

		prepared, err := server.BatchBlindEvaluatePrepare(blinded)
		require.NoError(t, err)
		require.Len(t, prepared, len(blinded))

		evaluations, proof, err := server.BatchBlindEvaluateFinish(nil, blinded, prepared)
		require.NoError(t, err)

		results, err := voprf.BatchFinalize(inputs, clients, evaluations, proof, server.PublicKey())
		require.NoError(t, err)

		for i, r := range results {
			require.NoError(t, r.Err)

			direct, err := server.Evaluate(inputs[i])
			require.NoError(t, err)
			assert.Equal(t, direct, r.Output)
		}

		_, _, err = server.BatchBlindEvaluateFinish(nil, blinded[:2], prepared)
		expectErrorIs(t, err, voprf.ErrBatch)

		_, _, err = server.BatchBlindEvaluateFinish(nil, nil, nil)
		expectErrorIs(t, err, voprf.ErrBatch)

		_, _, err = server.BatchBlindEvaluateFinish(nil, blinded, []*voprf.PreparedEvaluationElement{prepared[0], nil, prepared[2]})
		expectErrorIs(t, err, voprf.ErrBatch)
	})
}

func TestBatch_PrepareParallel(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		server := newServer(t, c)
		inputs := make([][]byte, 17)

		for i := range inputs {
			inputs[i] = randomBytes(16)
		}

		clients, blinded := blindBatch(t, c, inputs)

		for _, workers := range []int{0, 1, 4, 64} {
			prepared, err := server.BatchBlindEvaluatePrepareParallel(context.Background(), blinded, workers)
			require.NoError(t, err)
			require.Len(t, prepared, len(blinded))

			evaluations, proof, err := server.BatchBlindEvaluateFinish(nil, blinded, prepared)
			require.NoError(t, err)

			sequential, err := server.BatchBlindEvaluatePrepare(blinded)
			require.NoError(t, err)

			expected, _, err := server.BatchBlindEvaluateFinish(nil, blinded, sequential)
			require.NoError(t, err)

			for i := range evaluations {
				assert.Equal(t, expected[i].Serialize(), evaluations[i].Serialize())
			}

			results, err := voprf.BatchFinalize(inputs, clients, evaluations, proof, server.PublicKey())
			require.NoError(t, err)

			for _, r := range results {
				require.NoError(t, r.Err)
			}
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := server.BatchBlindEvaluatePrepareParallel(ctx, blinded, 4)
		expectErrorIs(t, err, context.Canceled)
	})
}

func TestBatch_SizeMismatch(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		server := newServer(t, c)
		inputs := [][]byte{[]byte("a"), []byte("b")}
		clients, blinded := blindBatch(t, c, inputs)

		evaluations, proof, err := server.BatchBlindEvaluate(nil, blinded)
		require.NoError(t, err)

		pk := server.PublicKey()

		_, err = voprf.BatchFinalize(inputs[:1], clients, evaluations, proof, pk)
		expectErrorIs(t, err, voprf.ErrBatch)

		_, err = voprf.BatchFinalize(inputs, clients[:1], evaluations, proof, pk)
		expectErrorIs(t, err, voprf.ErrBatch)

		_, err = voprf.BatchFinalize(inputs, clients, evaluations[:1], proof, pk)
		expectErrorIs(t, err, voprf.ErrBatch)

		_, err = voprf.BatchFinalize(nil, nil, nil, proof, pk)
		expectErrorIs(t, err, voprf.ErrBatch)

		_, err = voprf.BatchFinalize(inputs, []*voprf.Client{clients[0], nil}, evaluations, proof, pk)
		expectErrorIs(t, err, voprf.ErrBatch)

		_, _, err = server.BatchBlindEvaluate(nil, nil)
		expectErrorIs(t, err, voprf.ErrBatch)
	})
}

func TestBatch_MixedCiphersuites(t *testing.T) {
	a, b := &configurationTable[0], &configurationTable[1]
	inputs := [][]byte{[]byte("a"), []byte("b")}

	ca, _ := blind(t, a, inputs[0])
	cb, _ := blind(t, b, inputs[1])

	server := newServer(t, a)
	_, blinded := blind(t, a, inputs[0])
	evaluation, proof, err := server.BlindEvaluate(nil, blinded)
	require.NoError(t, err)

	_, err = voprf.BatchFinalize(inputs, []*voprf.Client{ca, cb},
		[]*voprf.EvaluationElement{evaluation, evaluation}, proof, server.PublicKey())
	expectErrorIs(t, err, voprf.ErrBatch)
}

func TestForeignCiphersuiteValues(t *testing.T) {
	for i := range configurationTable {
		c := &configurationTable[i]
		other := &configurationTable[(i+1)%len(configurationTable)]

		t.Run(c.name+"/"+other.name, func(t *testing.T) {
			input := []byte("input")
			server := newServer(t, c)
			foreign := newServer(t, other)
			pk := server.PublicKey()

			client, blinded := blind(t, c, input)
			evaluation, proof, err := server.BlindEvaluate(nil, blinded)
			require.NoError(t, err)

			_, foreignBlinded := blind(t, other, input)
			foreignEvaluation, foreignProof, err := foreign.BlindEvaluate(nil, foreignBlinded)
			require.NoError(t, err)

			_, err = client.Finalize(input, evaluation, proof, foreign.PublicKey())
			expectErrorIs(t, err, voprf.ErrProofVerification)

			_, err = client.Finalize(input, evaluation, foreignProof, pk)
			expectErrorIs(t, err, voprf.ErrProofVerification)

			_, err = client.Finalize(input, evaluation, &voprf.Proof{C: proof.C, S: foreignProof.S}, pk)
			expectErrorIs(t, err, voprf.ErrProofVerification)

			_, err = client.Finalize(input, foreignEvaluation, proof, pk)
			expectErrorIs(t, err, voprf.ErrInput)

			_, _, err = foreign.BlindEvaluate(nil, blinded)
			expectErrorIs(t, err, voprf.ErrInput)

			_, err = foreign.BatchBlindEvaluatePrepareParallel(context.Background(), []*voprf.BlindedElement{blinded}, 2)
			expectErrorIs(t, err, voprf.ErrInput)

			prepared, err := foreign.BatchBlindEvaluatePrepare([]*voprf.BlindedElement{foreignBlinded})
			require.NoError(t, err)

			_, _, err = foreign.BatchBlindEvaluateFinish(nil, []*voprf.BlindedElement{blinded}, prepared)
			expectErrorIs(t, err, voprf.ErrInput)

			_, _, err = other.ciphersuite.DeterministicBlindUnchecked(input, c.group.NewScalar().Random())
			expectErrorIs(t, err, voprf.ErrInput)

			kp, err := c.ciphersuite.KeyGen(nil)
			require.NoError(t, err)

			_, err = other.ciphersuite.NewServerFromKeyPair(kp.SecretKey, kp.PublicKey)
			expectErrorIs(t, err, voprf.ErrInput)

			output, err := client.Finalize(input, evaluation, proof, pk)
			require.NoError(t, err)
			assert.True(t, server.VerifyFinalize(input, output))
		})
	}
}

func TestBatch_PerItemInputError(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		server := newServer(t, c)
		inputs := [][]byte{[]byte("a"), []byte("b"), []byte("c")}
		clients, blinded := blindBatch(t, c, inputs)

		evaluations, proof, err := server.BatchBlindEvaluate(nil, blinded)
		require.NoError(t, err)

		finalizeInputs := [][]byte{inputs[0], nil, inputs[2]}

		results, err := voprf.BatchFinalize(finalizeInputs, clients, evaluations, proof, server.PublicKey())
		require.NoError(t, err)
		require.Len(t, results, 3)

		expectErrorIs(t, results[1].Err, voprf.ErrInput)
		assert.Nil(t, results[1].Output)

		for _, i := range []int{0, 2} {
			require.NoError(t, results[i].Err)
			assert.True(t, server.VerifyFinalize(inputs[i], results[i].Output))
		}
	})
}

func TestServer_BadBlindedElement(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		server := newServer(t, c)

		for _, b := range []*voprf.BlindedElement{nil, {}, {Element: c.group.NewElement()}} {
			_, _, err := server.BlindEvaluate(nil, b)
			expectErrorIs(t, err, voprf.ErrInput)

			_, err = server.BatchBlindEvaluatePrepare([]*voprf.BlindedElement{b})
			expectErrorIs(t, err, voprf.ErrInput)

			_, err = server.BatchBlindEvaluatePrepareParallel(context.Background(), []*voprf.BlindedElement{b}, 2)
			expectErrorIs(t, err, voprf.ErrInput)
		}
	})
}

func TestUnavailableCiphersuite(t *testing.T) {
	c := voprf.Ciphersuite(0)
	require.False(t, c.Available())

	_, _, err := c.Blind([]byte("input"), nil)
	expectErrorIs(t, err, voprf.ErrInput)

	_, err = c.NewServer(nil)
	expectErrorIs(t, err, voprf.ErrInput)

	_, err = c.DeriveKeyPair([]byte("seed"), nil)
	expectErrorIs(t, err, voprf.ErrInput)
}
