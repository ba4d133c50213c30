package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/geoscene/internal/entity"
	"github.com/sells-group/geoscene/internal/export"
	"github.com/sells-group/geoscene/internal/fetcher"
	"github.com/sells-group/geoscene/internal/loader"
)

var (
	loadFormat      string
	loadStylePath   string
	loadConcurrency int
)

func init() {
	loadCmd.Flags().StringVarP(&loadFormat, "format", "f", "summary", "output format: summary, geojson, or wkb")
	loadCmd.Flags().StringVar(&loadStylePath, "style", "", "YAML style template file (defaults to stock styles)")
	loadCmd.Flags().IntVar(&loadConcurrency, "concurrency", 4, "maximum inputs loaded in parallel")
	rootCmd.AddCommand(loadCmd)
}

var loadCmd = &cobra.Command{
	Use:   "load <file|url> [...]",
	Short: "Load GeoJSON documents into entity collections",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		styles, err := resolveStyles(loadStylePath)
		if err != nil {
			return err
		}

		client := fetcher.NewClient(fetcher.Options{
			UserAgent:  cfg.Fetch.UserAgent,
			Timeout:    time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
			MaxRetries: cfg.Fetch.MaxRetries,
		})

		stores := make([]*entity.Store, len(args))
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(loadConcurrency)
		for i, input := range args {
			g.Go(func() error {
				store := entity.NewStore()
				l := loader.New(store, nil, styles)
				l.SetFetcher(client.FetchJSON)
				if err := loadOne(ctx, l, input); err != nil {
					return eris.Wrapf(err, "load %s", input)
				}
				stores[i] = store
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		return printResults(cmd, args, stores)
	},
}

func loadOne(ctx context.Context, l *loader.Loader, input string) error {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return l.LoadURL(ctx, input)
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return eris.Wrap(err, "read file")
	}
	return l.LoadData(ctx, data, input)
}

func resolveStyles(path string) (*entity.StyleTemplates, error) {
	if path == "" && cfg.Style.Path != "" {
		path = cfg.Style.Path
	}
	if path == "" {
		return entity.DefaultStyles(), nil
	}
	return entity.LoadStyles(path)
}

func printResults(cmd *cobra.Command, inputs []string, stores []*entity.Store) error {
	switch loadFormat {
	case "summary":
		for i, store := range stores {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d entities\n", inputs[i], store.Len())
			for _, e := range store.All() {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", e.ID, describeEntity(e))
			}
		}
		return nil

	case "geojson":
		var all []*entity.Entity
		for _, store := range stores {
			all = append(all, store.All()...)
		}
		data, err := export.GeoJSON(all)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil

	case "wkb":
		for _, store := range stores {
			for _, e := range store.All() {
				data, err := export.EWKB(e)
				if err != nil {
					return err
				}
				if data == nil {
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(data))
			}
		}
		return nil

	default:
		return eris.Errorf("unknown format %q", loadFormat)
	}
}

func describeEntity(e *entity.Entity) string {
	switch {
	case e.Position != nil:
		return "point"
	case e.Positions != nil:
		return fmt.Sprintf("path(%d)", len(e.Positions))
	default:
		return "placeholder"
	}
}
