// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// seed node daemon
//
// serves the peer to peer overlay in seed mode: it learns and spreads
// peers but never accepts data packets
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/ivantse/turtlecoin-v2/configuration"
	"github.com/ivantse/turtlecoin-v2/p2p"
	"github.com/ivantse/turtlecoin-v2/parameter"
)

// log level number to logger level name, matching --log-level 0..6
var logLevels = []string{
	"trace",
	"debug",
	"info",
	"warning",
	"error",
	"critical",
	"off",
}

func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	aliases := getoptions.AliasMap{
		"c": "config",
		"d": "db-path",
		"p": "port",
		"h": "help",
	}

	program, options, _ := getoptions.GetOS(aliases)

	if len(options["help"]) > 0 {
		exitwithstatus.Usage(
			"usage: %s [--help] [--config=FILE] [--db-path=DIR] [--port=PORT] [--reset] [--seed-node=HOST[:PORT]]… [--log-file=FILE] [--log-level=0..6]\n",
			program)
	}
	if len(options["version"]) > 0 {
		exitwithstatus.Usage("%s version: %s\n", program, Version())
	}

	configFile := lastOption(options, "config", "")
	config, err := configuration.Load(configFile)
	if nil != err {
		exitwithstatus.Usage("configuration file: %s error: %s\n", configFile, err)
	}

	// flags override the configuration file
	config.DataDirectory = lastOption(options, "db-path", config.DataDirectory)
	config.LogFile = lastOption(options, "log-file", config.LogFile)
	config.Port = numericOption(options, "port", config.Port, 1, 65535)
	config.LogLevel = numericOption(options, "log-level", config.LogLevel, 0, len(logLevels)-1)
	seedNodes := append(config.SeedNodes, options["seed-node"]...)

	err = os.MkdirAll(config.LogDirectory(), 0700)
	if nil != err {
		exitwithstatus.Usage("cannot create log directory: %s error: %s\n", config.LogDirectory(), err)
	}

	err = logger.Initialise(logger.Configuration{
		Directory: config.LogDirectory(),
		File:      config.LogFile,
		Size:      config.LogSize,
		Count:     config.LogCount,
		Levels: map[string]string{
			logger.DefaultTag: logLevels[config.LogLevel],
		},
	})
	if nil != err {
		exitwithstatus.Usage("logger setup failed: %s\n", err)
	}
	defer logger.Finalise()

	log := logger.New("main")
	log.Infof("starting %s v%s…", program, Version())
	defer log.Info("shutting down…")

	if len(options["reset"]) > 0 {
		err = os.RemoveAll(config.PeerDatabasePath())
		if nil != err {
			log.Errorf("could not reset peer database: %s", err)
			exitwithstatus.Exit(1)
		}
		log.Info("reset peer database")
	}

	node, err := p2p.NewNode(config.PeerDatabasePath(), uint16(config.Port), true, parameter.NetworkID)
	if nil != err {
		log.Errorf("node setup failed: %s", err)
		fmt.Fprintf(os.Stderr, "node setup failed: %s\n", err)
		exitwithstatus.Exit(1)
	}

	err = node.Start(seedNodes)
	if nil != err {
		log.Errorf("seed node could not start: %s", err)
		fmt.Fprintf(os.Stderr, "seed node could not start: %s\n", err)
		exitwithstatus.Exit(1)
	}
	defer node.Stop()

	log.Infof("p2p seed node started on *:%d", config.Port)
	log.Infof("version: %s  p2p: %d  minimum p2p: %d", Version(), parameter.Version, parameter.MinimumVersion)
	log.Infof("peer id: %s", node.PeerID())
	log.Infof("known peers: %d", node.Peers().Count())
	log.Infof("incoming connections: %d  outgoing connections: %d",
		node.IncomingConnections(), node.OutgoingConnections())

	// wait for termination
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
}

// the last occurrence of a repeatable option wins
func lastOption(options getoptions.OptionsMap, name string, fallback string) string {
	values := options[name]
	if 0 == len(values) {
		return fallback
	}
	return values[len(values)-1]
}

func numericOption(options getoptions.OptionsMap, name string, fallback int, minimum int, maximum int) int {
	text := lastOption(options, name, "")
	if "" == text {
		return fallback
	}
	value, err := strconv.Atoi(text)
	if nil != err || value < minimum || value > maximum {
		exitwithstatus.Usage("invalid %s: %q\n", name, text)
	}
	return value
}
