// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package internal

import (
	"crypto/subtle"
	"encoding/binary"
	"math"

	"github.com/bytemare/ecc"
)

// MaxInputLength is the largest byte string that fits a 2-byte length prefix.
const MaxInputLength = math.MaxUint16

// I2osp2 encodes the integer to a 2-byte byte string. Callers must have checked that value fits.
func I2osp2(value int) []byte {
	if value < 0 || value > MaxInputLength {
		panic("internal error: value does not fit in a 2-byte encoding")
	}

	out := make([]byte, 2)
	binary.BigEndian.PutUint16(out, uint16(value))

	return out
}

func lengthPrefixEncode(input []byte) []byte {
	return append(I2osp2(len(input)), input...)
}

// CtEqual returns whether a and b are equal, in constant time with respect to their content.
func CtEqual(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

func concatenate(input ...[]byte) []byte {
	length := 0
	for _, in := range input {
		length += len(in)
	}

	buf := make([]byte, 0, length)

	for _, in := range input {
		buf = append(buf, in...)
	}

	return buf
}

// ValidInputLength reports whether input is non-empty and can be length-prefixed on 2 bytes.
func ValidInputLength(input []byte) bool {
	return len(input) != 0 && len(input) <= MaxInputLength
}

// WipeScalars sets all given non-nil scalars to zero.
func WipeScalars(scalars ...*ecc.Scalar) {
	for _, s := range scalars {
		if s != nil {
			s.Zero()
		}
	}
}

// WipeBytes overwrites b with zeros.
func WipeBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
