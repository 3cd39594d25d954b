package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ghelioth/les-bons-artisants-test/internal/bootstrap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	if err := bootstrap.Run(context.Background(), bootstrap.Options{ConfigPath: *configPath}); err != nil {
		fmt.Fprintf(os.Stderr, "catalog-server: %v\n", err)
		os.Exit(1)
	}
}
