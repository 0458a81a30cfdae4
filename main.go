package main

import (
	"fmt"
	"os"

	flag "github.com/ogier/pflag"

	"github.com/ddvk/kanahwr/config"
	"github.com/ddvk/kanahwr/log"
	"github.com/ddvk/kanahwr/shell"
	"github.com/ddvk/kanahwr/version"
)

func main() {
	configPath := flag.StringP("config", "c", "", "config file (default $"+config.EnvConfig+" or the user config dir)")
	server := flag.BoolP("server", "s", false, "serve the judging API")
	port := flag.IntP("port", "p", 0, "port of the judging API")
	showVersion := flag.BoolP("version", "v", false, "show version")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Version)
		return
	}

	log.InitLog()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error.Fatal(err)
	}
	if *port != 0 {
		cfg.Port = *port
	}

	if *server {
		runServerMode(cfg)
		return
	}

	if err := shell.RunShell(cfg, flag.Args()); err != nil {
		log.Error.Println("Error: ", err)
		os.Exit(1)
	}
}
