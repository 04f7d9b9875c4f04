package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/fordscott/portfolio-builder/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatalf("builder: %v", err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "builder",
		Usage: "build, evaluate and share client investment portfolios",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "load environment variables from `FILE`",
				Value: ".env",
			},
		},
		Before: func(c *cli.Context) error {
			config.LoadDotEnv(c.String("env-file"))
			return nil
		},
		Commands: []*cli.Command{
			serveCommand(),
			totalsCommand(),
			reportCommand(),
			exportCommand(),
			catalogueCommand(),
			sharedCommand(),
		},
	}
}
