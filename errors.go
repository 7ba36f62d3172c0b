// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package voprf

import (
	"errors"
	"fmt"

	"github.com/bytemare/verifiable-oprf/internal"
)

// Error kinds. Every error returned by this package wraps one of these, and can be tested with errors.Is.
var (
	// ErrInput indicates an empty or too long input, an input mapping to the identity element, or an invalid
	// argument.
	ErrInput = internal.ErrInput

	// ErrDeriveKeyPair indicates a seed and info too long to be encoded, or an exhausted derivation.
	ErrDeriveKeyPair = internal.ErrDeriveKeyPair

	// ErrBatch indicates sequences of different lengths, an empty batch, or a batch too large to be encoded.
	ErrBatch = internal.ErrBatch

	// ErrProofVerification indicates that the server's proof is invalid for the given elements and public key.
	ErrProofVerification = internal.ErrProofVerification

	// ErrDeserialization indicates malformed key, element, scalar, or state encodings.
	ErrDeserialization = internal.ErrDeserialization

	// ErrRandomness indicates a failing random number generator.
	ErrRandomness = internal.ErrRandomness

	// ErrZeroized indicates the use of a Client or Server after its secrets were wiped.
	ErrZeroized = errors.New("secret material has been wiped")
)

var (
	errInvalidCiphersuite = fmt.Errorf("%w: invalid or unsupported ciphersuite", ErrInput)
	errInvalidPublicKey   = fmt.Errorf("%w: server public key is either nil or the identity element", ErrInput)
	errInvalidPrivateKey  = fmt.Errorf("%w: private key is nil, zero, or from another ciphersuite", ErrInput)
	errInvalidBlind       = fmt.Errorf("%w: blind is nil, zero, or from another ciphersuite", ErrInput)
	errNilBlinded         = fmt.Errorf("%w: blinded element is nil, the identity, or from another ciphersuite", ErrInput)
	errNilEvaluation      = fmt.Errorf("%w: evaluation element is nil, the identity, or from another ciphersuite", ErrInput)
	errNilClient          = fmt.Errorf("%w: nil client", ErrBatch)
	errMixedCiphersuites  = fmt.Errorf("%w: clients use different ciphersuites", ErrBatch)
	errNilPrepared        = fmt.Errorf("%w: nil prepared evaluation element", ErrBatch)
	errNilProof           = fmt.Errorf("%w: proof is nil", ErrProofVerification)
	errForeignProof       = fmt.Errorf("%w: proof scalars are from another ciphersuite", ErrProofVerification)
	errForeignPublicKey   = fmt.Errorf("%w: public key is from another ciphersuite", ErrProofVerification)
	errDecodeLength       = fmt.Errorf("%w: invalid encoding length", ErrDeserialization)
	errDecodeIdentity     = fmt.Errorf("%w: element is the identity element", ErrDeserialization)
	errDecodeZeroScalar   = fmt.Errorf("%w: scalar is zero", ErrDeserialization)
)
