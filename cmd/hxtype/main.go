package main

import (
	"log"
	"os"

	"github.com/funvibe/hxtype/pkg/cli"
)

func main() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)

	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
