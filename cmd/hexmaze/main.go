// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command hexmaze generates and solves hexagonal mazes from the
// command line.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Config is the optional YAML configuration file. Flags override it.
type Config struct {
	// RemoteURL is the websocket endpoint of the solving service,
	// e.g. "ws://localhost:12280/v1/maze/ws". Empty solves locally.
	RemoteURL string `yaml:"remote_url"`

	// RemoteRESTURL is the REST fallback base URL,
	// e.g. "http://localhost:12280". Empty disables the fallback.
	RemoteRESTURL string `yaml:"remote_rest_url"`

	// DeadlineMS is the per-component search budget in milliseconds.
	DeadlineMS int `yaml:"deadline_ms"`

	// CacheDir enables the solve result cache at the given directory.
	CacheDir string `yaml:"cache_dir"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

var (
	config     Config
	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if configPath == "" {
			return
		}
		yamlFile, err := os.ReadFile(configPath)
		if err != nil {
			log.Fatalf("Error reading %s: %v", configPath, err)
		}
		if err := yaml.Unmarshal(yamlFile, &config); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
	}
}
