// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivantse/turtlecoin-v2/configuration"
)

const testConfig = `
local M = {}

M.data_directory = "/tmp/turtle-test"
M.port = 22897
M.seed_nodes = { "10.0.0.1:12897", "10.0.0.2" }
M.log_level = 6

return M
`

func TestLoadFile(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "seed.lua")
	require.NoError(t, os.WriteFile(fileName, []byte(testConfig), 0600))

	config, err := configuration.Load(fileName)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/turtle-test", config.DataDirectory)
	assert.Equal(t, 22897, config.Port)
	assert.Equal(t, []string{"10.0.0.1:12897", "10.0.0.2"}, config.SeedNodes)
	assert.Equal(t, 6, config.LogLevel)

	// untouched values keep their defaults
	defaults := configuration.Default()
	assert.Equal(t, defaults.LogSize, config.LogSize)
	assert.Equal(t, defaults.LogCount, config.LogCount)

	assert.Equal(t, filepath.Join("/tmp/turtle-test", "peerlist"), config.PeerDatabasePath())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := configuration.Load(filepath.Join(t.TempDir(), "absent.lua"))
	assert.Error(t, err)
}

func TestLoadEmptyName(t *testing.T) {
	config, err := configuration.Load("")
	require.NoError(t, err)
	assert.NotNil(t, config)
	assert.NotEmpty(t, config.DataDirectory)
}
