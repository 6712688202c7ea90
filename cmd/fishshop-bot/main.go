package main

import (
	"log"

	corecmd "github.com/dkotov/fishshop-bot/core/cmd"
	"github.com/dkotov/fishshop-bot/internal/app"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		Bootstrap:         app.Bootstrap,
	})
	if err != nil {
		log.Fatalf("fishshop-bot: %v", err)
	}
}
