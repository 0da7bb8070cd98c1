// predictorctl operates the match prediction pipeline from the command line.
//
// Usage:
//
//	predictorctl pregenerate [--limit N] [--force]
//	predictorctl evict
//	predictorctl show <match-id>
//	predictorctl regenerate <match-id>
//	predictorctl coefficients show|set
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/cypherlabdev/match-prediction-service/internal/app"
	"github.com/cypherlabdev/match-prediction-service/internal/config"
	"github.com/cypherlabdev/match-prediction-service/internal/models"
	"github.com/cypherlabdev/match-prediction-service/internal/service"
)

func main() {
	_ = godotenv.Load()

	cliApp := &cli.App{
		Name:  "predictorctl",
		Usage: "Operate the match prediction pipeline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				EnvVars: []string{"MATCH_PREDICTOR_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			pregenerateCommand(),
			evictCommand(),
			showCommand(),
			regenerateCommand(),
			coefficientsCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// withApp loads the configuration, wires the application and runs fn
func withApp(c *cli.Context, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	logger := app.SetupLogger(cfg.Logging)

	a, err := app.New(c.Context, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(c.Context, a)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func matchIDArg(c *cli.Context) (int64, error) {
	if c.NArg() != 1 {
		return 0, fmt.Errorf("expected exactly one match id")
	}
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid match id %q", c.Args().First())
	}
	return id, nil
}

func pregenerateCommand() *cli.Command {
	return &cli.Command{
		Name:  "pregenerate",
		Usage: "Generate and cache predictions for upcoming matches",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of matches (0 uses the configured limit)",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Regenerate even if a valid prediction is cached",
			},
		},
		Action: func(c *cli.Context) error {
			return withApp(c, func(ctx context.Context, a *app.App) error {
				report, err := a.Service.Pregenerate(ctx, service.PregenerateOptions{
					Limit: c.Int("limit"),
					Force: c.Bool("force"),
				})
				if err != nil {
					return err
				}
				return printJSON(report)
			})
		},
	}
}

func evictCommand() *cli.Command {
	return &cli.Command{
		Name:  "evict",
		Usage: "Remove expired predictions from the cache",
		Action: func(c *cli.Context) error {
			return withApp(c, func(ctx context.Context, a *app.App) error {
				removed, err := a.Service.EvictExpired(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("evicted %d expired predictions\n", removed)
				return nil
			})
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print the cached prediction of a match",
		ArgsUsage: "<match-id>",
		Action: func(c *cli.Context) error {
			matchID, err := matchIDArg(c)
			if err != nil {
				return err
			}
			return withApp(c, func(ctx context.Context, a *app.App) error {
				prediction, err := a.Service.GetPrediction(ctx, matchID)
				if errors.Is(err, models.ErrPredictionNotReady) {
					fmt.Printf("prediction for match %d is not ready\n", matchID)
					return nil
				} else if err != nil {
					return err
				}
				return printJSON(prediction)
			})
		},
	}
}

func regenerateCommand() *cli.Command {
	return &cli.Command{
		Name:      "regenerate",
		Usage:     "Recompute and cache the prediction of a match",
		ArgsUsage: "<match-id>",
		Action: func(c *cli.Context) error {
			matchID, err := matchIDArg(c)
			if err != nil {
				return err
			}
			return withApp(c, func(ctx context.Context, a *app.App) error {
				prediction, err := a.Service.RegenerateMatch(ctx, matchID)
				if err != nil {
					return err
				}
				return printJSON(prediction)
			})
		},
	}
}

func coefficientsCommand() *cli.Command {
	return &cli.Command{
		Name:  "coefficients",
		Usage: "Inspect or record learning adjustments of the statistical estimator",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the latest adjustments",
				Action: func(c *cli.Context) error {
					return withApp(c, func(ctx context.Context, a *app.App) error {
						adj, err := a.Store.LoadCoefficients(ctx)
						if err != nil {
							return err
						}
						return printJSON(adj)
					})
				},
			},
			{
				Name:  "set",
				Usage: "Record a new set of adjustments",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: "home-win", Usage: "Home win probability adjustment (points)"},
					&cli.Float64Flag{Name: "away-win", Usage: "Away win probability adjustment (points)"},
					&cli.Float64Flag{Name: "draw", Usage: "Draw probability adjustment (points)"},
					&cli.Float64Flag{Name: "goals", Usage: "Expected total goals adjustment"},
				},
				Action: func(c *cli.Context) error {
					adj := models.LearningAdjustments{
						HomeWin: c.Float64("home-win"),
						AwayWin: c.Float64("away-win"),
						Draw:    c.Float64("draw"),
						Goals:   c.Float64("goals"),
					}
					return withApp(c, func(ctx context.Context, a *app.App) error {
						if err := a.Store.SaveCoefficients(ctx, adj); err != nil {
							return err
						}
						return printJSON(adj)
					})
				},
			},
		},
	}
}
