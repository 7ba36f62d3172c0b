// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package internal

import (
	"fmt"

	"github.com/bytemare/ecc"
)

const (
	dstComposite = "Composite"
	dstChallenge = "Challenge"
)

// Verifiable enables the DLEQ proofs of the VOPRF mode over the core operations.
type Verifiable struct {
	*Core
	seedDST []byte
}

// NewVerifiable returns the proof configuration for the core.
func NewVerifiable(c *Core) *Verifiable {
	return &Verifiable{
		Core:    c,
		seedDST: c.DST(dstSeed),
	}
}

// CheckBatch returns an error if the two sequences of a batch don't have the same, encodable, non-zero length.
func CheckBatch(blinded, evaluated int) error {
	switch {
	case blinded != evaluated:
		return fmt.Errorf("%w: %d blinded elements but %d evaluated elements", ErrBatch, blinded, evaluated)
	case blinded == 0:
		return fmt.Errorf("%w: no elements", ErrBatch)
	case blinded > MaxInputLength:
		return fmt.Errorf("%w: %d elements exceed the maximum batch size of %d", ErrBatch, blinded, MaxInputLength)
	default:
		return nil
	}
}

func (v *Verifiable) challenge(encPk []byte, m, z, t2, t3 *ecc.Element) *ecc.Scalar {
	input := concatenate(encPk,
		lengthPrefixEncode(m.Encode()),
		lengthPrefixEncode(z.Encode()),
		lengthPrefixEncode(t2.Encode()),
		lengthPrefixEncode(t3.Encode()),
		[]byte(dstChallenge))

	return v.HashToScalar(input)
}

// GenerateProof produces a non-interactive zero-knowledge (NIZK) proof that the same k links the base element to pk,
// and every cs[i] to ds[i]. random is wiped before returning.
func (v *Verifiable) GenerateProof(
	random, k *ecc.Scalar,
	pk *ecc.Element,
	cs, ds []*ecc.Element,
) (*ecc.Scalar, *ecc.Scalar) {
	if len(cs) != len(ds) {
		panic("internal error: proof over sequences of different length")
	}

	defer WipeScalars(random)

	encPk := lengthPrefixEncode(pk.Encode())
	m, z := v.computeComposites(k, encPk, cs, ds)

	t2 := v.Group.Base().Multiply(random)
	t3 := m.Copy().Multiply(random)

	proofC := v.challenge(encPk, m, z, t2, t3)
	proofS := random.Copy().Subtract(proofC.Copy().Multiply(k))

	return proofC, proofS
}

// VerifyProof verifies the non-interactive zero-knowledge (NIZK) proof on the evaluated elements produced by
// GenerateProof.
func (v *Verifiable) VerifyProof(proofC, proofS *ecc.Scalar, pk *ecc.Element, cs, ds []*ecc.Element) error {
	if proofC == nil || proofS == nil || proofC.IsZero() || proofS.IsZero() {
		return errProofNil
	}

	if len(cs) != len(ds) {
		panic("internal error: proof over sequences of different length")
	}

	encPk := lengthPrefixEncode(pk.Encode())
	m, z := v.computeComposites(nil, encPk, cs, ds)

	t2 := v.Group.Base().Multiply(proofS).Add(pk.Copy().Multiply(proofC))
	t3 := m.Copy().Multiply(proofS).Add(z.Copy().Multiply(proofC))

	expectedC := v.challenge(encPk, m, z, t2, t3)

	if !CtEqual(expectedC.Encode(), proofC.Encode()) {
		return errProofFailed
	}

	return nil
}

func (v *Verifiable) ccScalar(encSeed []byte, index int, ci, di *ecc.Element) *ecc.Scalar {
	input := concatenate(encSeed, I2osp2(index),
		lengthPrefixEncode(ci.Encode()),
		lengthPrefixEncode(di.Encode()),
		[]byte(dstComposite))

	return v.HashToScalar(input)
}

func (v *Verifiable) computeCompositesFast(
	k *ecc.Scalar,
	encSeed []byte,
	cs, ds []*ecc.Element,
) (*ecc.Element, *ecc.Element) {
	m := v.Group.NewElement().Identity()

	for i, ci := range cs {
		di := v.ccScalar(encSeed, i, ci, ds[i])
		m.Add(ci.Copy().Multiply(di))
	}

	return m, m.Copy().Multiply(k)
}

func (v *Verifiable) computeCompositesClient(
	encSeed []byte,
	cs, ds []*ecc.Element,
) (*ecc.Element, *ecc.Element) {
	m := v.Group.NewElement().Identity()
	z := v.Group.NewElement().Identity()

	for i, ci := range cs {
		di := v.ccScalar(encSeed, i, ci, ds[i])
		m.Add(ci.Copy().Multiply(di))
		z.Add(ds[i].Copy().Multiply(di))
	}

	return m, z
}

// computeComposites combines all pairs into a single pair with weights derived from the transcript. A non-nil k
// means the prover is calling, which knows Z = k * M.
func (v *Verifiable) computeComposites(
	k *ecc.Scalar,
	encPk []byte,
	cs, ds []*ecc.Element,
) (*ecc.Element, *ecc.Element) {
	seed := v.Hash.New().Hash(0, encPk, lengthPrefixEncode(v.seedDST))
	encSeed := lengthPrefixEncode(seed)

	if k != nil {
		return v.computeCompositesFast(k, encSeed, cs, ds)
	}

	return v.computeCompositesClient(encSeed, cs, ds)
}
