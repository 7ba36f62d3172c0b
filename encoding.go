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

	"github.com/bytemare/ecc"
)

// DecodeElement decodes e to an element in the group. The identity element is rejected.
func (c Ciphersuite) DecodeElement(e []byte) (*ecc.Element, error) {
	if !c.Available() {
		return nil, errInvalidCiphersuite
	}

	if len(e) != c.ElementLength() {
		return nil, errDecodeLength
	}

	result := c.Group().NewElement()
	if err := result.Decode(e); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeserialization, err)
	}

	if result.IsIdentity() {
		return nil, errDecodeIdentity
	}

	return result, nil
}

// DecodeScalar decodes s to a scalar in the group. The zero scalar is accepted.
func (c Ciphersuite) DecodeScalar(s []byte) (*ecc.Scalar, error) {
	if !c.Available() {
		return nil, errInvalidCiphersuite
	}

	if len(s) != c.ScalarLength() {
		return nil, errDecodeLength
	}

	result := c.Group().NewScalar()
	if err := result.Decode(s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeserialization, err)
	}

	return result, nil
}

func (c Ciphersuite) decodeNonZeroScalar(s []byte) (*ecc.Scalar, error) {
	result, err := c.DecodeScalar(s)
	if err != nil {
		return nil, err
	}

	if result.IsZero() {
		return nil, errDecodeZeroScalar
	}

	return result, nil
}

// DeserializePublicKey decodes a server public key.
func (c Ciphersuite) DeserializePublicKey(data []byte) (*ecc.Element, error) {
	return c.DecodeElement(data)
}
