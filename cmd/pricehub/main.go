package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/InteliJR/pricehub/internal/authorization"
	"github.com/InteliJR/pricehub/internal/clock"
	"github.com/InteliJR/pricehub/internal/config"
	"github.com/InteliJR/pricehub/internal/fixedcost"
	"github.com/InteliJR/pricehub/internal/freight"
	"github.com/InteliJR/pricehub/internal/migration"
	"github.com/InteliJR/pricehub/internal/observability"
	"github.com/InteliJR/pricehub/internal/pricing"
	pricingdomain "github.com/InteliJR/pricehub/internal/pricing/domain"
	"github.com/InteliJR/pricehub/internal/product"
	"github.com/InteliJR/pricehub/internal/productgroup"
	"github.com/InteliJR/pricehub/internal/ratelimit"
	"github.com/InteliJR/pricehub/internal/rawmaterial"
	"github.com/InteliJR/pricehub/internal/reference"
	"github.com/InteliJR/pricehub/internal/seed"
	"github.com/InteliJR/pricehub/internal/server"
	"github.com/InteliJR/pricehub/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/casbin/casbin/v2"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "pricehub",
		Usage:   "Product costing and price simulation service",
		Version: version,
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			seedCommand(),
			simulateCommand(),
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run migrations and start the HTTP API",
		Action: func(c *cli.Context) error {
			app := fx.New(
				infrastructure(),
				migration.Module,
				domains(),
				authorization.Module,
				ratelimit.Module,
				server.Module,
			)
			app.Run()
			return app.Err()
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply database migrations and seed authorization policies",
		Action: func(c *cli.Context) error {
			return runOnce(c.Context,
				infrastructure(),
				migration.Module,
				fx.Provide(authorization.NewEnforcer),
				fx.Invoke(func(log *zap.Logger, _ *casbin.SyncedEnforcer) {
					log.Info("migrations applied")
				}),
			)
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Create demo freight, raw materials, fixed cost, product group and product",
		Action: func(c *cli.Context) error {
			ctx := c.Context
			return runOnce(ctx,
				infrastructure(),
				migration.Module,
				domains(),
				fx.Invoke(func(p seed.Params) error {
					return seed.EnsureDemoData(ctx, p)
				}),
			)
		},
	}
}

func simulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "Price a bill of materials read from a JSON file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Path to a JSON request with rawMaterials and an optional fixedCostId",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			raw, err := os.ReadFile(c.String("file"))
			if err != nil {
				return fmt.Errorf("read request: %w", err)
			}
			var req pricingdomain.CalculateRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				return fmt.Errorf("parse request: %w", err)
			}

			ctx := c.Context
			var result *pricingdomain.Result
			err = runOnce(ctx,
				fx.NopLogger,
				infrastructure(),
				pricing.Module,
				fx.Invoke(func(calc pricingdomain.Calculator) error {
					res, err := calc.Calculate(ctx, req)
					if err != nil {
						return err
					}
					result = res
					return nil
				}),
			)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(c.App.Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
}

func infrastructure() fx.Option {
	return fx.Options(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
	)
}

func domains() fx.Option {
	return fx.Options(
		reference.Module,
		freight.Module,
		fixedcost.Module,
		productgroup.Module,
		rawmaterial.Module,
		pricing.Module,
		product.Module,
	)
}

// runOnce builds the graph, lets the invokes do their work, then shuts down.
func runOnce(ctx context.Context, opts ...fx.Option) error {
	app := fx.New(opts...)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer stopCancel()
	return app.Stop(stopCtx)
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.NodeID)
}
