package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/maxviazov/pager/internal/config"
	"github.com/maxviazov/pager/internal/logger"
	"github.com/maxviazov/pager/internal/service"
	"github.com/maxviazov/pager/pkg/pager"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "pager",
		Short:         "Page through configured data sources",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "config file path")

	root.AddCommand(
		newBrowseCommand(&configFile),
		newSourcesCommand(&configFile),
	)
	return root
}

type browseFlags struct {
	source  string
	page    int
	perPage int
	all     bool
}

func newBrowseCommand(configFile *string) *cobra.Command {
	var f browseFlags

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Print one page of a source as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := service.BrowseRequest{Source: f.source, Page: f.page, Unbounded: f.all}
			if cmd.Flags().Changed("per-page") {
				req.MaxPerPage = pager.Int(f.perPage)
			}
			return withService(cmd.Context(), *configFile, func(svc service.BrowseService) error {
				page, err := svc.Browse(cmd.Context(), req)
				if err != nil {
					return reportFieldErrors(cmd.ErrOrStderr(), err)
				}
				return writeJSON(cmd.OutOrStdout(), page)
			})
		},
	}

	cmd.Flags().StringVarP(&f.source, "source", "s", "", "source name from config")
	cmd.Flags().IntVarP(&f.page, "page", "p", 1, "page number, starting at 1")
	cmd.Flags().IntVarP(&f.perPage, "per-page", "n", 0, "items per page (default from config)")
	cmd.Flags().BoolVar(&f.all, "all", false, "put every result on a single page")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

func newSourcesCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List configured sources whose backends are reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), *configFile, func(svc service.BrowseService) error {
				return writeJSON(cmd.OutOrStdout(), svc.Sources())
			})
		},
	}
}

// withService loads config, builds the logger and backends, and hands a ready service to fn.
func withService(ctx context.Context, configFile string, fn func(service.BrowseService) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("config loading failed: %w", err)
	}
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	b, err := connect(ctx, cfg, &appLogger)
	if err != nil {
		appLogger.Error().Err(err).Msg("backend connection failed")
		return err
	}
	defer b.Close()

	svc, err := newService(cfg, b, appLogger)
	if err != nil {
		return err
	}
	return fn(svc)
}

func newService(cfg *config.Config, b *backends, log zerolog.Logger) (service.BrowseService, error) {
	sources, err := buildSources(cfg, b)
	if err != nil {
		return nil, err
	}
	defaults, err := service.DefaultsFromConfig(cfg.Pager)
	if err != nil {
		return nil, err
	}
	return service.NewBrowseService(sources, defaults, log)
}

// reportFieldErrors spells out which flag was wrong; other failures are already logged by the service.
func reportFieldErrors(w io.Writer, err error) error {
	if errors.Is(err, service.ErrInvalidInput) {
		for _, fe := range service.FieldErrors(err) {
			fmt.Fprintf(w, "invalid %s: %s\n", fe.Field, fe.Message)
		}
	}
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
