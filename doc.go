// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package voprf implements the verifiable mode of RFC9497 Oblivious Pseudorandom Functions (VOPRF) using Elliptic
// Curve Prime Order Groups.
//
// A Client blinds its input and sends the BlindedElement to the Server. The Server evaluates it with its private key
// and returns an EvaluationElement and a Proof. The Client verifies the Proof against the Server's public key,
// unblinds the evaluation, and obtains the PRF output, which equals the Server's direct Evaluate on the same input.
// Batches of elements are evaluated with a single Proof.
//
// Clients and Servers hold secret scalars: call Zeroize once they are no longer needed.
package voprf
