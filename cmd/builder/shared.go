package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/fordscott/portfolio-builder/internal/format"
)

func sharedCommand() *cli.Command {
	return &cli.Command{
		Name:  "shared",
		Usage: "work with portfolios shared with the team",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list recently shared portfolios",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 20},
				},
				Action: func(c *cli.Context) error {
					return withServices(c, func(svc *services) error {
						store, err := svc.requireShared()
						if err != nil {
							return err
						}
						list, err := store.List(c.Context, c.Int("limit"))
						if err != nil {
							return err
						}
						tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
						fmt.Fprintln(tw, "ID\tNAME\tCREATED BY\tCREATED")
						for _, p := range list {
							fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.CreatedBy, format.Date(p.CreatedAt))
						}
						return tw.Flush()
					})
				},
			},
			{
				Name:      "save",
				Usage:     "share a portfolio file with the team",
				ArgsUsage: "<portfolio.json|->",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "description"},
				},
				Action: func(c *cli.Context) error {
					s, err := readSession(c.Args().First(), c.App.Reader)
					if err != nil {
						return err
					}
					return withServices(c, func(svc *services) error {
						store, err := svc.requireShared()
						if err != nil {
							return err
						}
						cat, err := svc.catalogue.Catalogue(c.Context)
						if err != nil {
							return err
						}
						p, err := store.Share(c.Context, c.String("name"), c.String("description"), s.Document(), s.Evaluate(cat.Investments))
						if err != nil {
							return err
						}
						_, err = fmt.Fprintln(c.App.Writer, p.ID)
						return err
					})
				},
			},
			{
				Name:      "open",
				Usage:     "write a shared portfolio back to a portfolio file",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output `FILE` (default stdout)"},
				},
				Action: func(c *cli.Context) error {
					id := c.Args().First()
					if id == "" {
						return fmt.Errorf("shared portfolio id is required")
					}
					return withServices(c, func(svc *services) error {
						store, err := svc.requireShared()
						if err != nil {
							return err
						}
						payload, err := store.Open(c.Context, id)
						if err != nil {
							return err
						}
						return writeOutput(c.String("out"), c.App.Writer, func(w io.Writer) error {
							return writeJSONTo(w, payload.Portfolio)
						})
					})
				},
			},
		},
	}
}
