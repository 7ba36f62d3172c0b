// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package voprf

import (
	"fmt"
	"io"

	"github.com/bytemare/ecc"
	"github.com/bytemare/hash"

	"github.com/bytemare/verifiable-oprf/internal"
)

// Ciphersuite identifies the group and hash function pair used in a protocol instance.
type Ciphersuite byte

const (
	// Ristretto255Sha512 identifies the Ristretto255 group and SHA-512.
	Ristretto255Sha512 = Ciphersuite(ecc.Ristretto255Sha512)

	// decaf448Shake256 identifies the Decaf448 group and Shake-256. Not supported.
	// decaf448Shake256 = 2.

	// P256Sha256 identifies the NIST P-256 group and SHA-256.
	P256Sha256 = Ciphersuite(ecc.P256Sha256)

	// P384Sha384 identifies the NIST P-384 group and SHA-384.
	P384Sha384 = Ciphersuite(ecc.P384Sha384)

	// P521Sha512 identifies the NIST P-512 group and SHA-512.
	P521Sha512 = Ciphersuite(ecc.P521Sha512)

	// Secp256k1 identifies the SECp256k1 group and SHA-256.
	Secp256k1 = Ciphersuite(ecc.Secp256k1Sha256)
)

// FromGroup returns a Ciphersuite given a Group.
func FromGroup(g ecc.Group) (Ciphersuite, error) {
	c := Ciphersuite(g)
	if !c.Available() {
		return 0, errInvalidCiphersuite
	}

	return c, nil
}

// FromName returns the Ciphersuite given its RFC 9497 identifier, e.g. "P256-SHA256".
func FromName(name string) (Ciphersuite, error) {
	for g, id := range internal.CiphersuiteIdentifier {
		if id == name {
			return Ciphersuite(g), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", errInvalidCiphersuite, name)
}

// Available returns whether the ciphersuite is supported.
func (c Ciphersuite) Available() bool {
	_, ok := internal.HashForGroup(ecc.Group(c))
	return ok
}

// Group returns the elliptic curve prime-order group of the ciphersuite.
func (c Ciphersuite) Group() ecc.Group {
	return ecc.Group(c)
}

// Hash returns the hash function of the ciphersuite.
func (c Ciphersuite) Hash() hash.Hash {
	h, _ := internal.HashForGroup(ecc.Group(c))
	return h
}

// Name returns the RFC 9497 compliant identifier of the ciphersuite.
func (c Ciphersuite) Name() string {
	return internal.CiphersuiteIdentifier[ecc.Group(c)]
}

// String implements the fmt.Stringer interface.
func (c Ciphersuite) String() string {
	return c.Name()
}

// ElementLength returns the byte length of encoded group elements, i.e. of encoded BlindedElement and
// EvaluationElement messages.
func (c Ciphersuite) ElementLength() int {
	return c.Group().ElementLength()
}

// ScalarLength returns the byte length of encoded scalars. An encoded Proof is twice that length.
func (c Ciphersuite) ScalarLength() int {
	return c.Group().ScalarLength()
}

// verifiables holds one immutable configuration per supported ciphersuite, shared by all clients and servers.
var verifiables = func() map[Ciphersuite]*internal.Verifiable {
	m := make(map[Ciphersuite]*internal.Verifiable, len(internal.CiphersuiteIdentifier))
	for g := range internal.CiphersuiteIdentifier {
		m[Ciphersuite(g)] = internal.NewVerifiable(internal.LoadConfiguration(g, internal.VOPRF))
	}

	return m
}()

func (c Ciphersuite) verifiable() (*internal.Verifiable, error) {
	v, ok := verifiables[c]
	if !ok {
		return nil, errInvalidCiphersuite
	}

	return v, nil
}

// KeyPair assembles a VOPRF key pair for the Ciphersuite.
type KeyPair struct {
	SecretKey   *ecc.Scalar
	PublicKey   *ecc.Element
	Ciphersuite Ciphersuite
}

// Zeroize wipes the secret key.
func (k *KeyPair) Zeroize() {
	internal.WipeScalars(k.SecretKey)
}

// KeyGen returns a fresh, random key pair, using rng as the source of randomness. A nil rng defaults to crypto/rand.
func (c Ciphersuite) KeyGen(rng io.Reader) (*KeyPair, error) {
	v, err := c.verifiable()
	if err != nil {
		return nil, err
	}

	sk, err := v.RandomScalar(rng)
	if err != nil {
		return nil, err
	}

	return &KeyPair{
		SecretKey:   sk,
		PublicKey:   c.Group().Base().Multiply(sk),
		Ciphersuite: c,
	}, nil
}

// DeriveKeyPair deterministically derives a VOPRF key pair from a secret seed and instance specific info. It fails
// with ErrDeriveKeyPair if seed and info are together longer than 65532 bytes.
func (c Ciphersuite) DeriveKeyPair(seed, info []byte) (*KeyPair, error) {
	v, err := c.verifiable()
	if err != nil {
		return nil, err
	}

	sk, pk, err := v.DeriveKeyPair(seed, info)
	if err != nil {
		return nil, err
	}

	return &KeyPair{
		SecretKey:   sk,
		PublicKey:   pk,
		Ciphersuite: c,
	}, nil
}
