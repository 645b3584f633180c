// Package main writes a chiptune configuration file holding the built-in defaults.
// The file is written to ~/.chiptune/config.yaml unless a path is given.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/chiptune-stack/chiptune/internal/config"
	"github.com/chiptune-stack/chiptune/internal/constants"

	"github.com/spf13/afero"
)

func main() {
	var (
		path     string
		location string
		force    bool
	)
	flag.StringVar(&path, "out", "", "configuration file to write (default ~/.chiptune/config.yaml)")
	flag.StringVar(&location, "location", constants.DefaultLocation, "Azure region to record")
	flag.BoolVar(&force, "force", false, "overwrite an existing file")
	flag.Parse()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("error: failed to resolve home directory: %v", err)
		}
		path = constants.ConfigFilePath(home)
	}

	fs := afero.NewOsFs()
	exists, err := afero.Exists(fs, path)
	if err != nil {
		log.Fatalf("error: failed to check %s: %v", path, err)
	}
	if exists && !force {
		log.Fatalf("error: %s already exists, use -force to overwrite it", path)
	}

	cfg := config.Default()
	cfg.Location = location
	if err := config.Save(fs, path, cfg); err != nil {
		log.Fatalf("error: failed to save config file: %v", err)
	}

	log.Printf("config file written to %s", path)
}
