// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package voprf

import (
	"context"
	"io"
	"runtime"

	"github.com/bytemare/ecc"
	"golang.org/x/sync/errgroup"

	"github.com/bytemare/verifiable-oprf/internal"
)

// Server holds a VOPRF private key and evaluates blinded elements with it. A Server is safe for concurrent use, except
// for Zeroize. Rotating keys is done by replacing the Server.
type Server struct {
	verifiable *internal.Verifiable
	privateKey *ecc.Scalar
	publicKey  *ecc.Element
	suite      Ciphersuite
}

func (c Ciphersuite) newServer(privateKey *ecc.Scalar, publicKey *ecc.Element) (*Server, error) {
	v, err := c.verifiable()
	if err != nil {
		return nil, err
	}

	return &Server{
		verifiable: v,
		privateKey: privateKey,
		publicKey:  publicKey,
		suite:      c,
	}, nil
}

// NewServer returns a server with a new, random key pair, using rng as the source of randomness. A nil rng defaults
// to crypto/rand.
func (c Ciphersuite) NewServer(rng io.Reader) (*Server, error) {
	kp, err := c.KeyGen(rng)
	if err != nil {
		return nil, err
	}

	return c.newServer(kp.SecretKey, kp.PublicKey)
}

// NewServerWithKey returns a server using the encoded private key.
func (c Ciphersuite) NewServerWithKey(privateKey []byte) (*Server, error) {
	sk, err := c.decodeNonZeroScalar(privateKey)
	if err != nil {
		return nil, err
	}

	return c.newServer(sk, c.Group().Base().Multiply(sk))
}

// NewServerFromKeyPair returns a server using the given key pair, after checking that the keys match.
func (c Ciphersuite) NewServerFromKeyPair(privateKey *ecc.Scalar, publicKey *ecc.Element) (*Server, error) {
	if err := checkPublicKey(publicKey); err != nil {
		return nil, err
	}

	if !c.Available() {
		return nil, errInvalidCiphersuite
	}

	if publicKey.Group() != c.Group() {
		return nil, errInvalidPublicKey
	}

	if privateKey == nil || privateKey.Group() != c.Group() || privateKey.IsZero() {
		return nil, errInvalidPrivateKey
	}

	if !c.Group().Base().Multiply(privateKey).Equal(publicKey) {
		return nil, errInvalidPublicKey
	}

	return c.newServer(privateKey.Copy(), publicKey.Copy())
}

// NewServerFromSeed returns a server with a key pair deterministically derived from seed and info.
func (c Ciphersuite) NewServerFromSeed(seed, info []byte) (*Server, error) {
	kp, err := c.DeriveKeyPair(seed, info)
	if err != nil {
		return nil, err
	}

	return c.newServer(kp.SecretKey, kp.PublicKey)
}

// Ciphersuite returns the server's ciphersuite.
func (s *Server) Ciphersuite() Ciphersuite {
	return s.suite
}

// PublicKey returns the server's public key, to be distributed to clients.
func (s *Server) PublicKey() *ecc.Element {
	return s.publicKey.Copy()
}

// SerializePrivateKey returns the encoding of the server's private key.
func (s *Server) SerializePrivateKey() []byte {
	return s.privateKey.Encode()
}

// Zeroize wipes the server's private key. All subsequent operations fail with ErrZeroized.
func (s *Server) Zeroize() {
	internal.WipeScalars(s.privateKey)
}

func (s *Server) checkKey() error {
	if s.privateKey == nil || s.privateKey.IsZero() {
		return ErrZeroized
	}

	return nil
}

func checkBlinded(blinded []*BlindedElement, g ecc.Group) error {
	for _, b := range blinded {
		if b == nil || b.Element == nil || b.Element.Group() != g || b.Element.IsIdentity() {
			return errNilBlinded
		}
	}

	return nil
}

// BlindEvaluate evaluates a client's blinded element, and returns the evaluation and its proof. rng provides the
// proof's randomness, and a nil rng defaults to crypto/rand.
func (s *Server) BlindEvaluate(rng io.Reader, blinded *BlindedElement) (*EvaluationElement, *Proof, error) {
	evaluations, proof, err := s.BatchBlindEvaluate(rng, []*BlindedElement{blinded})
	if err != nil {
		return nil, nil, err
	}

	return evaluations[0], proof, nil
}

// BatchBlindEvaluate evaluates all blinded elements and returns the evaluations in the same order, with a single
// proof covering all of them.
func (s *Server) BatchBlindEvaluate(
	rng io.Reader,
	blinded []*BlindedElement,
) ([]*EvaluationElement, *Proof, error) {
	prepared, err := s.BatchBlindEvaluatePrepare(blinded)
	if err != nil {
		return nil, nil, err
	}

	return s.BatchBlindEvaluateFinish(rng, blinded, prepared)
}

func (s *Server) prepare(blinded *BlindedElement) *PreparedEvaluationElement {
	return &PreparedEvaluationElement{evaluated: blinded.Element.Copy().Multiply(s.privateKey)}
}

// BatchBlindEvaluatePrepare applies the private key to every blinded element, without proof. There is exactly one
// output per input, in order. Use BatchBlindEvaluateFinish to produce the messages and proof.
func (s *Server) BatchBlindEvaluatePrepare(blinded []*BlindedElement) ([]*PreparedEvaluationElement, error) {
	if err := s.checkKey(); err != nil {
		return nil, err
	}

	if err := checkBlinded(blinded, s.suite.Group()); err != nil {
		return nil, err
	}

	prepared := make([]*PreparedEvaluationElement, len(blinded))
	for i, b := range blinded {
		prepared[i] = s.prepare(b)
	}

	return prepared, nil
}

// BatchBlindEvaluatePrepareParallel is BatchBlindEvaluatePrepare with the work split across up to workers
// goroutines. A non-positive workers value uses GOMAXPROCS. It stops early and returns the context's error if ctx is
// done.
func (s *Server) BatchBlindEvaluatePrepareParallel(
	ctx context.Context,
	blinded []*BlindedElement,
	workers int,
) ([]*PreparedEvaluationElement, error) {
	if err := s.checkKey(); err != nil {
		return nil, err
	}

	if err := checkBlinded(blinded, s.suite.Group()); err != nil {
		return nil, err
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	workers = min(workers, len(blinded))
	prepared := make([]*PreparedEvaluationElement, len(blinded))

	if workers == 0 {
		return prepared, nil
	}

	chunk := (len(blinded) + workers - 1) / workers
	g, ctx := errgroup.WithContext(ctx)

	for start := 0; start < len(blinded); start += chunk {
		end := min(start+chunk, len(blinded))

		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}

				prepared[i] = s.prepare(blinded[i])
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return prepared, nil
}

// BatchBlindEvaluateFinish generates the proof over the blinded elements and their prepared evaluations, and returns
// the evaluation messages in order along with the proof. It fails with ErrBatch if the sequences differ in length, are
// empty, or hold more than 65535 elements.
func (s *Server) BatchBlindEvaluateFinish(
	rng io.Reader,
	blinded []*BlindedElement,
	prepared []*PreparedEvaluationElement,
) ([]*EvaluationElement, *Proof, error) {
	if err := s.checkKey(); err != nil {
		return nil, nil, err
	}

	if err := internal.CheckBatch(len(blinded), len(prepared)); err != nil {
		return nil, nil, err
	}

	if err := checkBlinded(blinded, s.suite.Group()); err != nil {
		return nil, nil, err
	}

	cs := make([]*ecc.Element, len(blinded))
	ds := make([]*ecc.Element, len(prepared))
	evaluations := make([]*EvaluationElement, len(prepared))

	for i, p := range prepared {
		if p == nil || p.evaluated == nil {
			return nil, nil, errNilPrepared
		}

		cs[i] = blinded[i].Element
		ds[i] = p.evaluated
		evaluations[i] = &EvaluationElement{Element: p.evaluated.Copy()}
	}

	r, err := s.verifiable.RandomScalar(rng)
	if err != nil {
		return nil, nil, err
	}

	c, z := s.verifiable.GenerateProof(r, s.privateKey, s.publicKey, cs, ds)

	return evaluations, &Proof{C: c, S: z}, nil
}

// Evaluate computes the PRF output for the input directly, without blinding. The output is the same as the one the
// client obtains through Blind, BlindEvaluate, and Finalize. It fails with ErrInput if the input is empty, longer
// than 65535 bytes, or maps to the identity element.
func (s *Server) Evaluate(input []byte) ([]byte, error) {
	if err := s.checkKey(); err != nil {
		return nil, err
	}

	return s.verifiable.Evaluate(s.privateKey, input)
}

// VerifyFinalize returns whether output is the PRF output for input under the server's key, in constant time with
// respect to output.
func (s *Server) VerifyFinalize(input, output []byte) bool {
	expected, err := s.Evaluate(input)
	if err != nil {
		return false
	}

	return internal.CtEqual(expected, output)
}
