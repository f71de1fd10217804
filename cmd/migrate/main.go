// Command migrate inspects and changes the PetChef database schema.
package main

import (
	"fmt"
	"os"

	"petchef/internal/config"
	"petchef/internal/database"

	"gorm.io/gorm"
)

func main() {
	root := newRootCmd(func() (*gorm.DB, *config.Config, error) {
		cfg, err := config.LoadConfig()
		if err != nil {
			return nil, nil, fmt.Errorf("load config: %w", err)
		}
		// Open without ApplySchema so each subcommand controls what runs.
		dialector, err := database.Dialector(cfg)
		if err != nil {
			return nil, nil, err
		}
		db, err := database.Open(dialector)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		return db, cfg, nil
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
