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

// Blind maps the input to the group and multiplies it with the blinding scalar.
func (c *Core) Blind(input []byte, blind *ecc.Scalar) (*ecc.Element, error) {
	p, err := c.HashToGroupChecked(input)
	if err != nil {
		return nil, err
	}

	return p.Multiply(blind), nil
}

// Unblind removes the blind from the evaluated element.
func (c *Core) Unblind(blind *ecc.Scalar, evaluated *ecc.Element) *ecc.Element {
	inv := blind.Copy().Invert()
	defer WipeScalars(inv)

	return evaluated.Copy().Multiply(inv)
}

// Finalize unblinds the evaluated element and hashes the transcript into the protocol output.
func (c *Core) Finalize(input []byte, blind *ecc.Scalar, evaluated *ecc.Element) ([]byte, error) {
	if !ValidInputLength(input) {
		return nil, fmt.Errorf("%w: input length must be in [1, %d], got %d", ErrInput, MaxInputLength, len(input))
	}

	unblinded := c.Unblind(blind, evaluated)

	return c.HashTranscript(input, unblinded.Encode()), nil
}

// Evaluate computes the PRF output directly from the input and the private key, without blinding.
func (c *Core) Evaluate(key *ecc.Scalar, input []byte) ([]byte, error) {
	p, err := c.HashToGroupChecked(input)
	if err != nil {
		return nil, err
	}

	return c.HashTranscript(input, p.Multiply(key).Encode()), nil
}
