// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package internal handles all core VOPRF functionalities.
package internal

import (
	"crypto/rand"
	"fmt"
	"io"
	"math"

	"github.com/bytemare/ecc"
	"github.com/bytemare/hash"
)

// Mode distinguishes execution between the OPRF base, VOPRF, and POPRF modes. Only VOPRF is executed by this module,
// but the mode is part of every domain separation tag.
type Mode byte

const (
	// OPRF identifies the base mode.
	OPRF Mode = iota

	// VOPRF identifies the verifiable mode.
	VOPRF

	// POPRF identifies the partially-oblivious mode.
	POPRF
)

const (
	// Version is a string explicitly stating the Version name.
	Version = "OPRFV1"

	contextStringPrefix   = Version + "-"
	hash2groupDSTPrefix   = "HashToGroup-"
	hash2scalarDSTPrefix  = "HashToScalar-"
	randomScalarDSTPrefix = "RandomScalar-"
	deriveKeyPairDST      = "DeriveKeyPair"
	dstSeed               = "Seed-"
	dstFinalize           = "Finalize"

	// randomScalarLength is the number of random bytes reduced into a scalar. 64 bytes is at least twice the size of
	// every supported group order, which makes the modular bias negligible.
	randomScalarLength = 64
	maxRandomAttempts  = 8
)

// CiphersuiteIdentifier maps a group to its RFC 9497 compliant identifier.
var CiphersuiteIdentifier = map[ecc.Group]string{
	ecc.Ristretto255Sha512: "ristretto255-SHA512",
	ecc.P256Sha256:         "P256-SHA256",
	ecc.P384Sha384:         "P384-SHA384",
	ecc.P521Sha512:         "P521-SHA512",
	ecc.Secp256k1Sha256:    "secp256k1-SHA256",
}

var suiteHash = map[ecc.Group]hash.Hash{
	ecc.Ristretto255Sha512: hash.SHA512,
	ecc.P256Sha256:         hash.SHA256,
	ecc.P384Sha384:         hash.SHA384,
	ecc.P521Sha512:         hash.SHA512,
	ecc.Secp256k1Sha256:    hash.SHA256,
}

// A Core holds the cryptographic configuration and methods used for VOPRF operations. A Core is immutable after
// creation and safe for concurrent use.
type Core struct {
	contextString []byte
	dstH2g        []byte
	dstH2s        []byte
	dstRandom     []byte
	Hash          hash.Hash
	Group         ecc.Group
	Mode          Mode
}

// ContextString builds the constant string used in all domain separation tags.
func ContextString(mode Mode, name string) []byte {
	return []byte(contextStringPrefix + string([]byte{byte(mode)}) + "-" + name)
}

// Dst returns the domain separation tag, i.e. the concatenation of the prefix and the context string.
func Dst(prefix string, contextString []byte) []byte {
	return []byte(prefix + string(contextString))
}

// HashForGroup returns the hash function paired with g, and whether g is a supported group.
func HashForGroup(g ecc.Group) (hash.Hash, bool) {
	h, ok := suiteHash[g]
	return h, ok
}

// LoadConfiguration returns a core configuration given the group and mode. It panics on unsupported groups, and on
// hash functions whose output exceeds their block size, since these are programming errors.
func LoadConfiguration(g ecc.Group, mode Mode) *Core {
	h, ok := suiteHash[g]
	if !ok {
		panic(fmt.Sprintf("invalid OPRF dependency - Group: %v", g))
	}

	if h.Size() > h.BlockSize() {
		panic(fmt.Sprintf("invalid OPRF dependency - hash output larger than its block size: %v", h))
	}

	ctx := ContextString(mode, CiphersuiteIdentifier[g])

	return &Core{
		contextString: ctx,
		dstH2g:        Dst(hash2groupDSTPrefix, ctx),
		dstH2s:        Dst(hash2scalarDSTPrefix, ctx),
		dstRandom:     Dst(randomScalarDSTPrefix, ctx),
		Hash:          h,
		Group:         g,
		Mode:          mode,
	}
}

// ContextString returns a copy of the configuration's context string.
func (c *Core) ContextString() []byte {
	return concatenate(c.contextString)
}

// DST returns the domain separation tag for the given purpose prefix under this configuration.
func (c *Core) DST(prefix string) []byte {
	return Dst(prefix, c.contextString)
}

// HashToScalar maps the input data to a scalar.
func (c *Core) HashToScalar(data []byte) *ecc.Scalar {
	return c.Group.HashToScalar(data, c.dstH2s)
}

// HashToGroup maps the input data to an element of the Group.
func (c *Core) HashToGroup(data []byte) *ecc.Element {
	return c.Group.HashToGroup(data, c.dstH2g)
}

// HashToGroupChecked maps the input to the group, and fails if the input has an invalid length or maps to the
// identity element.
func (c *Core) HashToGroupChecked(input []byte) (*ecc.Element, error) {
	if !ValidInputLength(input) {
		return nil, fmt.Errorf("%w: input length must be in [1, %d], got %d", ErrInput, MaxInputLength, len(input))
	}

	p := c.HashToGroup(input)
	if p.IsIdentity() {
		return nil, errInputIdentity
	}

	return p, nil
}

// RandomScalar samples a uniformly random non-zero scalar using rng. A nil rng defaults to crypto/rand.
func (c *Core) RandomScalar(rng io.Reader) (*ecc.Scalar, error) {
	if rng == nil {
		rng = rand.Reader
	}

	buf := make([]byte, randomScalarLength)
	defer WipeBytes(buf)

	for i := 0; i < maxRandomAttempts; i++ {
		if _, err := io.ReadFull(rng, buf); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRandomness, err)
		}

		s := c.Group.HashToScalar(buf, c.dstRandom)
		if !s.IsZero() {
			return s, nil
		}
	}

	return nil, errRandomExhausted
}

// DeriveKeyPair derives a private-public key pair given a secret seed and instance specific info.
func (c *Core) DeriveKeyPair(seed, info []byte) (*ecc.Scalar, *ecc.Element, error) {
	// Two 2-byte length prefixes and the counter byte must fit in the encodable range.
	if len(seed)+len(info) > MaxInputLength-3 {
		return nil, nil, errDeriveTooLong
	}

	dst := concatenate([]byte(deriveKeyPairDST), c.contextString)
	deriveInput := concatenate(seed, lengthPrefixEncode(info))
	defer WipeBytes(deriveInput)

	for counter := 0; counter <= math.MaxUint8; counter++ {
		sk := c.Group.HashToScalar(concatenate(deriveInput, []byte{byte(counter)}), dst)
		if !sk.IsZero() {
			return sk, c.Group.Base().Multiply(sk), nil
		}
	}

	return nil, nil, errDeriveExhausted
}

// HashTranscript hashes a VOPRF run's transcript (without the blind) to produce the protocol's output. The input
// length must have been validated by the caller.
func (c *Core) HashTranscript(input, unblinded []byte) []byte {
	encInput := lengthPrefixEncode(input)
	encElement := lengthPrefixEncode(unblinded)
	encDST := []byte(dstFinalize)

	return c.Hash.New().Hash(0, encInput, encElement, encDST)
}
