// Command admin provides account maintenance utilities for PetChef operators.
package main

import (
	"fmt"
	"os"

	"petchef/internal/bootstrap"
	"petchef/internal/config"
	"petchef/internal/repository"
)

func main() {
	root := newRootCmd(func() (*repository.Storage, error) {
		cfg, err := config.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		rt, err := bootstrap.InitRuntime(cfg)
		if err != nil {
			return nil, err
		}
		return bootstrap.NewStorage(cfg, rt.DB, rt.Redis), nil
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
