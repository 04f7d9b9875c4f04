package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/fordscott/portfolio-builder/internal/allocation"
	"github.com/fordscott/portfolio-builder/internal/api"
	"github.com/fordscott/portfolio-builder/internal/catalogue"
	"github.com/fordscott/portfolio-builder/internal/config"
	"github.com/fordscott/portfolio-builder/internal/domain"
	"github.com/fordscott/portfolio-builder/internal/export"
	"github.com/fordscott/portfolio-builder/internal/format"
	"github.com/fordscott/portfolio-builder/internal/indicator"
	"github.com/fordscott/portfolio-builder/internal/report"
	"github.com/fordscott/portfolio-builder/internal/session"
	"github.com/fordscott/portfolio-builder/internal/validation"
	"github.com/fordscott/portfolio-builder/internal/worker"
)

// withServices runs fn with wired services and closes them afterwards.
func withServices(c *cli.Context, fn func(*services) error) error {
	svc, err := setup(c.Context, config.Load())
	if err != nil {
		return err
	}
	defer svc.Close()
	return fn(svc)
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API and the catalogue refresh worker",
		Action: func(c *cli.Context) error {
			return withServices(c, func(svc *services) error {
				return serve(c.Context, svc)
			})
		},
	}
}

func serve(ctx context.Context, svc *services) error {
	cfg := svc.cfg

	catalogueWorker := worker.NewCatalogueWorker(svc.catalogue, cfg.CatalogueRefreshInterval)
	go catalogueWorker.Run(ctx)

	if cfg.AdminAPIKey == "" {
		slog.Warn("ADMIN_API_KEY not set, mutating endpoints are unprotected")
	}

	h := api.NewHandler(svc.catalogue, svc.shared, svc.indicators, svc.exports, svc.rules)
	srv := api.NewServer(cfg.HTTPPort, h, cfg.AdminAPIKey)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("HTTP server: %w", err)
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}
	slog.Info("shutdown complete")
	return nil
}

type totalsOutput struct {
	Evaluation allocation.Evaluation     `json:"evaluation"`
	Indicators indicator.Report          `json:"indicators"`
	Validation map[int]validation.Report `json:"validation"`
}

// evaluate computes totals, indicators and checks for every account of s.
func evaluate(svc *services, s *session.Session, cat catalogue.Catalogue) (totalsOutput, error) {
	accounts := s.Accounts()
	ev := s.Evaluate(cat.Investments)

	inds, err := svc.indicators.CalculateEvaluation(accounts, ev)
	if err != nil {
		return totalsOutput{}, fmt.Errorf("calculating indicators: %w", err)
	}
	checks := make(map[int]validation.Report, len(accounts))
	for i, a := range accounts {
		checks[a.ID] = validation.Check(validation.AccountInput(a, ev.Accounts[i]), svc.rules)
	}
	return totalsOutput{Evaluation: ev, Indicators: inds, Validation: checks}, nil
}

const loadModelFlagName = "load-model"

func loadModelFlag() cli.Flag {
	return &cli.IntSliceFlag{
		Name:  loadModelFlagName,
		Usage: "replace the holdings of account `ID` with its model allocation before evaluating (repeatable)",
	}
}

// loadModels applies the model allocation to each account named by --load-model.
// A lookup miss leaves the account unchanged.
func loadModels(c *cli.Context, s *session.Session, models domain.ModelTable) error {
	for _, id := range c.IntSlice(loadModelFlagName) {
		loaded, err := s.LoadModel(id, models)
		if err != nil {
			return fmt.Errorf("loading model for account %d: %w", id, err)
		}
		if !loaded {
			slog.Warn("no model for account", "account", id)
		}
	}
	return nil
}

func totalsCommand() *cli.Command {
	return &cli.Command{
		Name:      "totals",
		Usage:     "print per-account and combined totals of a portfolio file as JSON",
		ArgsUsage: "<portfolio.json|->",
		Flags:     []cli.Flag{loadModelFlag()},
		Action: func(c *cli.Context) error {
			s, err := readSession(c.Args().First(), c.App.Reader)
			if err != nil {
				return err
			}
			return withServices(c, func(svc *services) error {
				cat, err := svc.catalogue.Catalogue(c.Context)
				if err != nil {
					return err
				}
				if err := loadModels(c, s, cat.Models); err != nil {
					return err
				}
				out, err := evaluate(svc, s, cat)
				if err != nil {
					return err
				}
				return writeJSONTo(c.App.Writer, out)
			})
		},
	}
}

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "render a portfolio summary in the terminal",
		ArgsUsage: "<portfolio.json|->",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "style", Usage: "glamour style (dark, light, notty); empty detects the terminal"},
			&cli.IntFlag{Name: "width", Value: 100, Usage: "word wrap width"},
			&cli.BoolFlag{Name: "markdown", Usage: "print raw Markdown instead of rendering"},
			loadModelFlag(),
		},
		Action: func(c *cli.Context) error {
			s, err := readSession(c.Args().First(), c.App.Reader)
			if err != nil {
				return err
			}
			return withServices(c, func(svc *services) error {
				cat, err := svc.catalogue.Catalogue(c.Context)
				if err != nil {
					return err
				}
				if err := loadModels(c, s, cat.Models); err != nil {
					return err
				}
				out, err := evaluate(svc, s, cat)
				if err != nil {
					return err
				}

				in := report.Input{
					Document:   export.Build(s.Document(), out.Evaluation, cat.Investments, time.Now()),
					Indicators: &out.Indicators,
					Validation: out.Validation,
				}
				if cmp, err := s.Compare(cat.Investments); err == nil {
					in.Comparison = &cmp
				}

				md := report.Markdown(in)
				if c.Bool("markdown") {
					_, err := io.WriteString(c.App.Writer, md)
					return err
				}
				rendered, err := report.Render(md, c.String("style"), c.Int("width"))
				if err != nil {
					return err
				}
				_, err = io.WriteString(c.App.Writer, rendered)
				return err
			})
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "export a portfolio file as csv, json or xlsx",
		ArgsUsage: "<portfolio.json|->",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "csv", Usage: "csv, json or xlsx"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output `FILE` (default stdout)"},
			&cli.BoolFlag{Name: "publish", Usage: "also write the export to the configured Google spreadsheet"},
			loadModelFlag(),
		},
		Action: func(c *cli.Context) error {
			f, err := export.ParseFormat(c.String("format"))
			if err != nil {
				return err
			}
			s, err := readSession(c.Args().First(), c.App.Reader)
			if err != nil {
				return err
			}
			return withServices(c, func(svc *services) error {
				cat, err := svc.catalogue.Catalogue(c.Context)
				if err != nil {
					return err
				}
				if err := loadModels(c, s, cat.Models); err != nil {
					return err
				}
				doc, _ := svc.exports.Build(s.Document(), cat.Investments)

				if c.Bool("publish") {
					if err := svc.exports.Publish(c.Context, doc); err != nil {
						return err
					}
				}
				return writeOutput(c.String("out"), c.App.Writer, func(w io.Writer) error {
					return export.Encode(w, f, doc)
				})
			})
		},
	}
}

func catalogueCommand() *cli.Command {
	return &cli.Command{
		Name:  "catalogue",
		Usage: "show the investment catalogue in use",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "toml", Usage: "print the catalogue in the bundled defaults layout"},
		},
		Action: func(c *cli.Context) error {
			return withServices(c, func(svc *services) error {
				cat, err := svc.catalogue.Catalogue(c.Context)
				if err != nil {
					return err
				}
				if c.Bool("toml") {
					data, err := catalogue.EncodeTOML(cat)
					if err != nil {
						return err
					}
					_, err = c.App.Writer.Write(data)
					return err
				}
				return printCatalogue(c.App.Writer, cat)
			})
		},
	}
}

func printCatalogue(w io.Writer, cat catalogue.Catalogue) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Investments (%s)\n\n", cat.InvestmentsSource)
	fmt.Fprintln(tw, "NAME\tCLASS\tMER\tGROWTH\tDEFENSIVE")
	for _, name := range cat.Investments.Names() {
		inv := cat.Investments[name]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", inv.Name, inv.AssetClass,
			format.Percent(inv.MER, 2), format.Percent(inv.Growth, 0), format.Percent(inv.Defensive, 0))
	}
	fmt.Fprintf(tw, "\nModels (%s)\n\n", cat.ModelsSource)
	for _, key := range cat.Models.Keys() {
		fmt.Fprintf(tw, "%s\t%d profiles\n", key, len(cat.Models[key]))
	}
	return tw.Flush()
}
