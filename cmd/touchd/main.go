// Package main is the touchd command.
package main

import (
	"log"
	"os"

	"github.com/viam-modules/resistive-touch/cli"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
