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

// BlindedElement is the Client's message to the Server.
type BlindedElement struct {
	Element *ecc.Element
}

// Serialize returns the fixed-length encoding of the blinded element.
func (b *BlindedElement) Serialize() []byte {
	return b.Element.Encode()
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (b *BlindedElement) MarshalBinary() ([]byte, error) {
	return b.Serialize(), nil
}

// EvaluationElement is the Server's evaluation of a BlindedElement, sent to the Client along with a Proof.
type EvaluationElement struct {
	Element *ecc.Element
}

// Serialize returns the fixed-length encoding of the evaluation element.
func (e *EvaluationElement) Serialize() []byte {
	return e.Element.Encode()
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (e *EvaluationElement) MarshalBinary() ([]byte, error) {
	return e.Serialize(), nil
}

// PreparedEvaluationElement is an evaluation that is not yet covered by a proof. It is produced by
// Server.BatchBlindEvaluatePrepare and consumed by Server.BatchBlindEvaluateFinish.
type PreparedEvaluationElement struct {
	evaluated *ecc.Element
}

// Proof is the non-interactive zero-knowledge proof that a set of evaluations was computed with the private key of
// the server's public key.
type Proof struct {
	C *ecc.Scalar
	S *ecc.Scalar
}

// Serialize returns the fixed-length encoding of the proof, c || s.
func (p *Proof) Serialize() []byte {
	c := p.C.Encode()
	s := p.S.Encode()

	out := make([]byte, 0, len(c)+len(s))
	out = append(out, c...)
	out = append(out, s...)

	return out
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (p *Proof) MarshalBinary() ([]byte, error) {
	return p.Serialize(), nil
}

// DeserializeBlindedElement decodes a BlindedElement.
func (c Ciphersuite) DeserializeBlindedElement(data []byte) (*BlindedElement, error) {
	e, err := c.DecodeElement(data)
	if err != nil {
		return nil, fmt.Errorf("blinded element: %w", err)
	}

	return &BlindedElement{Element: e}, nil
}

// DeserializeEvaluationElement decodes an EvaluationElement.
func (c Ciphersuite) DeserializeEvaluationElement(data []byte) (*EvaluationElement, error) {
	e, err := c.DecodeElement(data)
	if err != nil {
		return nil, fmt.Errorf("evaluation element: %w", err)
	}

	return &EvaluationElement{Element: e}, nil
}

// DeserializeProof decodes a Proof.
func (c Ciphersuite) DeserializeProof(data []byte) (*Proof, error) {
	if !c.Available() {
		return nil, errInvalidCiphersuite
	}

	sLen := c.ScalarLength()
	if len(data) != 2*sLen {
		return nil, fmt.Errorf("proof: %w", errDecodeLength)
	}

	pc, err := c.DecodeScalar(data[:sLen])
	if err != nil {
		return nil, fmt.Errorf("invalid c proof encoding: %w", err)
	}

	ps, err := c.DecodeScalar(data[sLen:])
	if err != nil {
		return nil, fmt.Errorf("invalid s proof encoding: %w", err)
	}

	return &Proof{C: pc, S: ps}, nil
}
