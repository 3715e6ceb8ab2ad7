package main

import (
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/netifaces/internal/runner"
)

func main() {
	options := runner.ParseOptions()

	ifacesRunner, err := runner.NewRunner(options)
	if err != nil {
		gologger.Fatal().Msgf("Could not create runner: %s\n", err)
	}

	if err := ifacesRunner.Run(); err != nil {
		gologger.Fatal().Msgf("Could not run netifaces: %s\n", err)
	}
}
