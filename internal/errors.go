// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package internal

import (
	"errors"
	"fmt"
)

// Error kinds shared by the packages of this module. Specific errors wrap exactly one of them.
var (
	ErrInput             = errors.New("invalid input")
	ErrDeriveKeyPair     = errors.New("key pair derivation failed")
	ErrBatch             = errors.New("invalid batch")
	ErrProofVerification = errors.New("proof verification failed")
	ErrDeserialization   = errors.New("deserialization failed")
	ErrRandomness        = errors.New("random number generation failed")
)

var (
	errInputIdentity = fmt.Errorf(
		"%w: OPRF input deterministically maps to the group identity element", ErrInput)
	errDeriveTooLong   = fmt.Errorf("%w: combined seed and info length exceeds 65532 bytes", ErrDeriveKeyPair)
	errDeriveExhausted = fmt.Errorf("%w: impossible to generate non-zero scalar", ErrDeriveKeyPair)
	errRandomExhausted = fmt.Errorf("%w: could not sample a non-zero scalar", ErrRandomness)
	errProofFailed     = fmt.Errorf("%w: invalid proof", ErrProofVerification)
	errProofNil        = fmt.Errorf("%w: proof scalars are nil or zero", ErrProofVerification)
)
