package main

import (
	"context"
	"flag"
	"os"
	"path"

	"expense_tracker/internal/cli"
	"expense_tracker/internal/config"
	"expense_tracker/internal/store"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.LoadConfig()
	if os.Getenv("STORE_BACKEND") == "" {
		cfg.StoreBackend = store.BackendSQLite // Keep the session between invocations by default
	}
	if err := cfg.Validate(false); err != nil {
		logrus.Fatal(err)
	}
	level, _ := logrus.ParseLevel(cfg.LogLevel)
	if os.Getenv("LOG_LEVEL") == "" {
		level = logrus.WarnLevel // Only problems unless asked otherwise
	}
	logrus.SetLevel(level)

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range cli.Commands(cli.NewEnv(cfg)) {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
