// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package voprf_test

import (
	"crypto/rand"
	"errors"
	"fmt"
	"testing"

	"github.com/bytemare/ecc"
	"github.com/bytemare/hash"

	voprf "github.com/bytemare/verifiable-oprf"
)

type configuration struct {
	name        string
	ciphersuite voprf.Ciphersuite
	group       ecc.Group
	hash        hash.Hash
}

var configurationTable = []configuration{
	{
		name:        "Ristretto255",
		ciphersuite: voprf.Ristretto255Sha512,
		group:       ecc.Ristretto255Sha512,
		hash:        hash.SHA512,
	},
	{
		name:        "P256Sha256",
		ciphersuite: voprf.P256Sha256,
		group:       ecc.P256Sha256,
		hash:        hash.SHA256,
	},
	{
		name:        "P384Sha384",
		ciphersuite: voprf.P384Sha384,
		group:       ecc.P384Sha384,
		hash:        hash.SHA384,
	},
	{
		name:        "P521Sha512",
		ciphersuite: voprf.P521Sha512,
		group:       ecc.P521Sha512,
		hash:        hash.SHA512,
	},
	{
		name:        "Secp256k1Sha256",
		ciphersuite: voprf.Secp256k1,
		group:       ecc.Secp256k1Sha256,
		hash:        hash.SHA256,
	},
}

func testAll(t *testing.T, f func(t *testing.T, c *configuration)) {
	for _, test := range configurationTable {
		t.Run(test.name, func(t *testing.T) {
			f(t, &test)
		})
	}
}

func randomBytes(length int) []byte {
	r := make([]byte, length)
	if _, err := rand.Read(r); err != nil {
		panic(fmt.Errorf("unexpected error in generating random bytes : %w", err))
	}

	return r
}

func expectErrorIs(t *testing.T, err, target error) {
	t.Helper()

	if !errors.Is(err, target) {
		t.Fatalf("expected error %q, got %v", target, err)
	}
}

func newServer(t *testing.T, c *configuration) *voprf.Server {
	t.Helper()

	server, err := c.ciphersuite.NewServer(nil)
	if err != nil {
		t.Fatal(err)
	}

	return server
}

func blind(t *testing.T, c *configuration, input []byte) (*voprf.Client, *voprf.BlindedElement) {
	t.Helper()

	client, blinded, err := c.ciphersuite.Blind(input, nil)
	if err != nil {
		t.Fatal(err)
	}

	return client, blinded
}

func blindBatch(t *testing.T, c *configuration, inputs [][]byte) ([]*voprf.Client, []*voprf.BlindedElement) {
	t.Helper()

	clients := make([]*voprf.Client, len(inputs))
	blinded := make([]*voprf.BlindedElement, len(inputs))

	for i, in := range inputs {
		clients[i], blinded[i] = blind(t, c, in)
	}

	return clients, blinded
}

// zeroReader returns zero bytes, and makes every randomized operation deterministic.
type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}

	return len(p), nil
}
