// Package main provides the mcpradar CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mcpradar/internal/app"
	"mcpradar/internal/config"
	"mcpradar/internal/domain"
	"mcpradar/internal/infrastructure/scheduler"
	"mcpradar/internal/logging"
	"mcpradar/internal/usecase"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)
	application := app.New(cfg, logger)

	if err := newRootCmd(application).ExecuteContext(ctx); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd(application *app.Application) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mcpradar",
		Short:         "Scan blogs, LinkedIn, and Reddit for MCP-related content",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newSeedCmd(application))
	rootCmd.AddCommand(newScrapeCmd(application))
	rootCmd.AddCommand(newSourcesCmd(application))
	rootCmd.AddCommand(newContentCmd(application))
	rootCmd.AddCommand(newReportCmd(application))
	rootCmd.AddCommand(newAuthorityCmd(application))

	return rootCmd
}

func newSeedCmd(application *app.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the schema and insert config-declared sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := application.Seed(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d sources\n", count)
			return nil
		},
	}
}

func newScrapeCmd(application *app.Application) *cobra.Command {
	var every time.Duration

	cmd := &cobra.Command{
		Use:   "scrape [blogs|linkedin|reddit|all]",
		Short: "Run the ingestion pipeline for one source kind or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "all"
			if len(args) == 1 {
				target = args[0]
			}

			if err := application.RequireLLMKey(); err != nil {
				return err
			}
			if target == string(domain.KindLinkedIn) {
				if err := application.RequireApifyToken(); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			if err := application.EnsureSchema(ctx); err != nil {
				return err
			}

			run := func() (usecase.Stats, error) {
				if target == "all" {
					return application.Runner.ScrapeAll(ctx)
				}
				kind, ok := domain.ParseKind(target)
				if !ok {
					return usecase.Stats{}, fmt.Errorf("unknown source kind %q", target)
				}
				return application.Runner.ScrapeKind(ctx, kind)
			}

			if every > 0 {
				loop := scheduler.NewInterval(every)
				return loop.Start(ctx, func() {
					if stats, err := run(); err != nil {
						application.Logger().Error("scheduled scrape failed", "error", err)
					} else {
						fmt.Fprintf(cmd.OutOrStdout(), "scrape complete: %s\n", stats)
					}
				})
			}

			stats, err := run()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scrape complete: %s\n", stats)
			return nil
		},
	}

	cmd.Flags().DurationVar(&every, "every", 0, "rerun the scrape on this interval (e.g. 24h)")
	return cmd
}

func newSourcesCmd(application *app.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "sources <blogs|linkedin|reddit>",
		Short: "List tracked sources of one kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := domain.ParseKind(args[0])
			if !ok {
				return fmt.Errorf("unknown source kind %q", args[0])
			}

			sources, err := application.Store.List(cmd.Context(), kind)
			if err != nil {
				return err
			}

			for _, src := range sources {
				fmt.Fprintf(cmd.OutOrStdout(), "%-40s authority=%.2f type=%s %s\n",
					src.Name, src.Authority, src.Type, src.Address)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d sources\n", len(sources))
			return nil
		},
	}
}

func newContentCmd(application *app.Application) *cobra.Command {
	var week string

	cmd := &cobra.Command{
		Use:   "content <blogs|linkedin|reddit>",
		Short: "List stored content of one kind for a publication week",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := domain.ParseKind(args[0])
			if !ok {
				return fmt.Errorf("unknown source kind %q", args[0])
			}
			if week == "" {
				week = domain.PublicationWeek(time.Now())
			}

			ctx := cmd.Context()
			var (
				items []domain.RankedItem
				err   error
			)
			switch kind {
			case domain.KindBlogs:
				items, err = application.Store.ArticlesByWeek(ctx, week)
			case domain.KindLinkedIn:
				items, err = application.Store.LinkedInPostsByWeek(ctx, week)
			case domain.KindReddit:
				items, err = application.Store.RedditPostsByWeek(ctx, week)
			}
			if err != nil {
				return err
			}

			for _, item := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%.2f  %s (%s)\n", item.Score, item.Title, item.SourceName)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d items in %s\n", len(items), week)
			return nil
		},
	}

	cmd.Flags().StringVar(&week, "week", "", "publication week label, e.g. 2026-w09 (default: current week)")
	return cmd
}

func newReportCmd(application *app.Application) *cobra.Command {
	var (
		week       string
		toTelegram bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the weekly digest",
		RunE: func(cmd *cobra.Command, args []string) error {
			digest, err := application.Report.Weekly(cmd.Context(), week)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), digest)

			if toTelegram {
				notifier := application.Notifier()
				if notifier == nil {
					return fmt.Errorf("telegram notifier is not configured")
				}
				return notifier.PublishDigest(cmd.Context(), digest)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&week, "week", "", "publication week label (default: current week)")
	cmd.Flags().BoolVar(&toTelegram, "telegram", false, "also send the digest to the configured Telegram chat")
	return cmd
}

func newAuthorityCmd(application *app.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "authority <blogs|linkedin|reddit> <name> <value>",
		Short: "Adjust a source's authority weight",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := domain.ParseKind(args[0])
			if !ok {
				return fmt.Errorf("unknown source kind %q", args[0])
			}

			value, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("authority must be a number in [0,1]: %w", err)
			}

			if err := application.Store.SetAuthority(cmd.Context(), kind, args[1], value); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "authority of %s set to %.2f\n", args[1], value)
			return nil
		},
	}
}
