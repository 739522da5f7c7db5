// Command imged is an interactive terminal image editor.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Fepozopo/imged/pkg/cli"
	"github.com/Fepozopo/imged/pkg/config"
)

func main() {
	showVersion := flag.Bool("version", false, "print the version and exit")
	envFile := flag.String("env", ".env", "settings file read before the environment")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [image]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(cli.Version)
		return
	}

	logger := log.New(os.Stderr, "imged: ", 0)
	cfg := config.Load(logger, *envFile)
	if err := cli.RunCLI(cfg, flag.Args()); err != nil {
		logger.Fatal(err)
	}
}
