package main

import (
	"os"

	"github.com/alepar/bme680-mqtt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
