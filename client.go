// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package voprf

import (
	"io"

	"github.com/bytemare/ecc"

	"github.com/bytemare/verifiable-oprf/internal"
)

// Client holds the state of one VOPRF execution on the client side: the blinding scalar and the blinded element. A
// Client must not be reused for another input, and should be wiped with Zeroize once finalized.
type Client struct {
	verifiable     *internal.Verifiable
	blind          *ecc.Scalar
	blindedElement *ecc.Element
	suite          Ciphersuite
}

// Result is the outcome of finalizing one element of a batch.
type Result struct {
	Output []byte
	Err    error
}

// Blind blinds the input with a fresh random scalar drawn from rng, and returns the client state to keep and the
// message to send to the server. A nil rng defaults to crypto/rand.
// Blind fails with ErrInput if the input is empty, longer than 65535 bytes, or maps to the identity element.
func (c Ciphersuite) Blind(input []byte, rng io.Reader) (*Client, *BlindedElement, error) {
	v, err := c.verifiable()
	if err != nil {
		return nil, nil, err
	}

	blind, err := v.RandomScalar(rng)
	if err != nil {
		return nil, nil, err
	}

	return c.blind(v, input, blind)
}

// DeterministicBlindUnchecked blinds the input with the given blind instead of a random one.
//
// This is dangerous: using the same blind for two inputs reveals the relation between their evaluations to anyone
// seeing both blinded elements. It is intended for test vectors and for rebuilding a state from a blind that was
// drawn at random. Prefer Blind.
func (c Ciphersuite) DeterministicBlindUnchecked(input []byte, blind *ecc.Scalar) (*Client, *BlindedElement, error) {
	v, err := c.verifiable()
	if err != nil {
		return nil, nil, err
	}

	if blind == nil || blind.Group() != c.Group() || blind.IsZero() {
		return nil, nil, errInvalidBlind
	}

	return c.blind(v, input, blind.Copy())
}

func (c Ciphersuite) blind(v *internal.Verifiable, input []byte, blind *ecc.Scalar) (*Client, *BlindedElement, error) {
	blinded, err := v.Blind(input, blind)
	if err != nil {
		internal.WipeScalars(blind)
		return nil, nil, err
	}

	client := &Client{
		verifiable:     v,
		blind:          blind,
		blindedElement: blinded,
		suite:          c,
	}

	return client, client.BlindedElement(), nil
}

// Ciphersuite returns the client's ciphersuite.
func (c *Client) Ciphersuite() Ciphersuite {
	return c.suite
}

// BlindedElement returns the message to send to the server.
func (c *Client) BlindedElement() *BlindedElement {
	return &BlindedElement{Element: c.blindedElement.Copy()}
}

func (c *Client) zeroized() bool {
	return c.blind == nil || c.blind.IsZero()
}

// Zeroize wipes the client's blind. The client can't be used afterwards.
func (c *Client) Zeroize() {
	if c == nil {
		return
	}

	internal.WipeScalars(c.blind)
}

func checkPublicKey(pk *ecc.Element) error {
	if pk == nil || pk.IsIdentity() {
		return errInvalidPublicKey
	}

	return nil
}

func checkProof(proof *Proof, g ecc.Group) error {
	switch {
	case proof == nil || proof.C == nil || proof.S == nil:
		return errNilProof
	case proof.C.Group() != g || proof.S.Group() != g:
		return errForeignProof
	default:
		return nil
	}
}

func checkEvaluation(evaluation *EvaluationElement, g ecc.Group) error {
	if evaluation == nil || evaluation.Element == nil ||
		evaluation.Element.Group() != g || evaluation.Element.IsIdentity() {
		return errNilEvaluation
	}

	return nil
}

// Finalize verifies the server's proof over the evaluation against the server public key pk, and, if valid, unblinds
// the evaluated element and returns the protocol output for input.
func (c *Client) Finalize(input []byte, evaluation *EvaluationElement, proof *Proof, pk *ecc.Element) ([]byte, error) {
	if c.zeroized() {
		return nil, ErrZeroized
	}

	results, err := BatchFinalize([][]byte{input}, []*Client{c}, []*EvaluationElement{evaluation}, proof, pk)
	if err != nil {
		return nil, err
	}

	return results[0].Output, results[0].Err
}

// BatchFinalize verifies the server's single proof over all evaluations, and then finalizes every client with its
// input and evaluation, in order. The whole batch fails if the sequences have different lengths or the proof is
// invalid. Otherwise, there is one Result per input, and an invalid input only affects its own Result.
func BatchFinalize(
	inputs [][]byte,
	clients []*Client,
	evaluations []*EvaluationElement,
	proof *Proof,
	pk *ecc.Element,
) ([]Result, error) {
	if err := internal.CheckBatch(len(clients), len(evaluations)); err != nil {
		return nil, err
	}

	if err := internal.CheckBatch(len(inputs), len(clients)); err != nil {
		return nil, err
	}

	if clients[0] == nil {
		return nil, errNilClient
	}

	g := clients[0].suite.Group()

	if err := checkPublicKey(pk); err != nil {
		return nil, err
	}

	if pk.Group() != g {
		return nil, errForeignPublicKey
	}

	if err := checkProof(proof, g); err != nil {
		return nil, err
	}

	cs := make([]*ecc.Element, len(clients))
	ds := make([]*ecc.Element, len(evaluations))

	for i, client := range clients {
		switch {
		case client == nil:
			return nil, errNilClient
		case client.suite != clients[0].suite:
			return nil, errMixedCiphersuites
		case client.zeroized():
			return nil, ErrZeroized
		}

		if err := checkEvaluation(evaluations[i], g); err != nil {
			return nil, err
		}

		cs[i] = client.blindedElement
		ds[i] = evaluations[i].Element
	}

	v := clients[0].verifiable
	if err := v.VerifyProof(proof.C, proof.S, pk, cs, ds); err != nil {
		return nil, err
	}

	results := make([]Result, len(clients))

	for i, client := range clients {
		out, err := v.Finalize(inputs[i], client.blind, ds[i])
		results[i] = Result{Output: out, Err: err}
	}

	return results, nil
}

// Serialize encodes the client state as blind || blinded element, to resume the execution later with
// Ciphersuite.DeserializeClient. The output contains the secret blind and must be protected accordingly.
func (c *Client) Serialize() []byte {
	blind := c.blind.Encode()
	blinded := c.blindedElement.Encode()

	out := make([]byte, 0, len(blind)+len(blinded))
	out = append(out, blind...)
	out = append(out, blinded...)

	internal.WipeBytes(blind)

	return out
}

// DeserializeClient decodes a client state produced by Client.Serialize.
func (c Ciphersuite) DeserializeClient(data []byte) (*Client, error) {
	v, err := c.verifiable()
	if err != nil {
		return nil, err
	}

	sLen := c.ScalarLength()
	if len(data) != sLen+c.ElementLength() {
		return nil, errDecodeLength
	}

	blind, err := c.decodeNonZeroScalar(data[:sLen])
	if err != nil {
		return nil, err
	}

	blinded, err := c.DecodeElement(data[sLen:])
	if err != nil {
		internal.WipeScalars(blind)
		return nil, err
	}

	return &Client{
		verifiable:     v,
		blind:          blind,
		blindedElement: blinded,
		suite:          c,
	}, nil
}
