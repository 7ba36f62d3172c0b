// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/bytemare/ecc"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	voprf "github.com/bytemare/verifiable-oprf"
)

const defaultSuite = "ristretto255-SHA512"

// KeyFile specifies the file format of key files. It is also a valid config file.
type KeyFile struct {
	Suite      string `yaml:"suite"`
	PrivateKey string `yaml:"private-key,omitempty"` // hex-encoded
	PublicKey  string `yaml:"public-key"`            // hex-encoded
}

func newKeyFile(server *voprf.Server) *KeyFile {
	return &KeyFile{
		Suite:      server.Ciphersuite().Name(),
		PrivateKey: hex.EncodeToString(server.SerializePrivateKey()),
		PublicKey:  hex.EncodeToString(server.PublicKey().Encode()),
	}
}

// writeKeyFile writes the key file as YAML to path, or to w if path is empty.
func writeKeyFile(k *KeyFile, path string, w io.Writer) error {
	raw, err := yaml.Marshal(k)
	if err != nil {
		return fmt.Errorf("encoding key file: %w", err)
	}

	if path == "" {
		_, err = w.Write(raw)
		return err
	}

	return os.WriteFile(path, raw, 0o600)
}

// ReadKeyFile reads and validates a key file.
func ReadKeyFile(path string) (*KeyFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var parsed KeyFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, err
	}

	if parsed.Suite == "" {
		return nil, fmt.Errorf("field not provided: suite")
	} else if parsed.PublicKey == "" {
		return nil, fmt.Errorf("field not provided: public-key")
	}

	return &parsed, nil
}

func loadSuite() (voprf.Ciphersuite, error) {
	return voprf.FromName(viper.GetString("suite"))
}

func decodeHexField(name string) ([]byte, error) {
	value := viper.GetString(name)
	if value == "" {
		return nil, fmt.Errorf("field not provided: %s", name)
	}

	decoded, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid hex in %s: %w", name, err)
	}

	return decoded, nil
}

func loadServer() (*voprf.Server, error) {
	suite, err := loadSuite()
	if err != nil {
		return nil, err
	}

	sk, err := decodeHexField("private-key")
	if err != nil {
		return nil, err
	}

	server, err := suite.NewServerWithKey(sk)
	if err != nil {
		return nil, fmt.Errorf("private-key: %w", err)
	}

	return server, nil
}

func loadPublicKey(suite voprf.Ciphersuite) (*ecc.Element, error) {
	pk, err := decodeHexField("public-key")
	if err != nil {
		return nil, err
	}

	decoded, err := suite.DeserializePublicKey(pk)
	if err != nil {
		return nil, fmt.Errorf("public-key: %w", err)
	}

	return decoded, nil
}
