// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Command voprf generates VOPRF keys and runs the client and server steps of the protocol on hex-encoded messages.
package main

import (
	"os"

	"github.com/golang/glog"
)

func main() {
	err := RootCmd.Execute()
	glog.Flush()

	if err != nil {
		os.Exit(1)
	}
}
