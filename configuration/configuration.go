// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - node configuration file handling
//
// the configuration file is a Lua script returning a table; command
// line flags override whatever it sets
package configuration

import (
	"os"
	"path/filepath"

	"github.com/ivantse/turtlecoin-v2/parameter"
)

// defaults relative to the data directory
const (
	defaultDataDirectory = ".TurtleCoin"
	defaultPeerDatabase  = "peerlist"
	defaultLogDirectory  = "log"
	defaultLogFile       = "seed-node.log"
	defaultLogCount      = 10
	defaultLogSize       = 1024 * 1024
	defaultLogLevel      = 4
)

// Configuration - the seed node settings
type Configuration struct {
	DataDirectory string   `gluamapper:"data_directory"`
	Port          int      `gluamapper:"port"`
	SeedNodes     []string `gluamapper:"seed_nodes"`
	LogFile       string   `gluamapper:"log_file"`
	LogLevel      int      `gluamapper:"log_level"`
	LogSize       int      `gluamapper:"log_size"`
	LogCount      int      `gluamapper:"log_count"`
}

// Default - the built in settings
func Default() *Configuration {
	home, err := os.UserHomeDir()
	if nil != err {
		home = "."
	}
	return &Configuration{
		DataDirectory: filepath.Join(home, defaultDataDirectory),
		Port:          int(parameter.DefaultBindPort),
		LogFile:       defaultLogFile,
		LogLevel:      defaultLogLevel,
		LogSize:       defaultLogSize,
		LogCount:      defaultLogCount,
	}
}

// Load - defaults overlaid with an optional Lua configuration file
func Load(fileName string) (*Configuration, error) {
	config := Default()
	if "" == fileName {
		return config, nil
	}

	err := ParseConfigurationFile(fileName, config)
	if nil != err {
		return nil, err
	}
	return config, nil
}

// PeerDatabasePath - where the peer database lives
func (config *Configuration) PeerDatabasePath() string {
	return filepath.Join(config.DataDirectory, defaultPeerDatabase)
}

// LogDirectory - where rotating logs are written
func (config *Configuration) LogDirectory() string {
	return filepath.Join(config.DataDirectory, defaultLogDirectory)
}
