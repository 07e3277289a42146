package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gildedpress/luxwire/internal/report"
)

func newCollectCmd() *cobra.Command {
	var only []string

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Run one collection pass over the configured sources",
		Long: `Walks every configured publication, scores the discovered articles, and
keeps the top scorers per source. Results are persisted to the article
store, archived as JSON, and handed to the downstream publisher.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCollect(cmd, only)
		},
	}

	cmd.Flags().StringSliceVar(&only, "source", nil, "restrict the run to the named sources (repeatable)")
	return cmd
}

func runCollect(cmd *cobra.Command, only []string) error {
	a, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	sources := a.Cfg.Sources
	if len(only) > 0 {
		sources = filterSources(sources, only)
		if len(sources) == 0 {
			return fmt.Errorf("no configured source matches %v", only)
		}
	}

	result, err := a.Orchestrator.Run(ctx, sources)
	if err != nil {
		return fmt.Errorf("run collection: %w", err)
	}

	records := a.Orchestrator.Records(result)
	if err := a.Articles.AppendArticles(ctx, records); err != nil {
		a.Logger.Warn("persist articles", zap.Error(err))
	}

	uri, err := report.WriteResults(ctx, a.Results, result, records)
	if err != nil {
		a.Logger.Warn("archive results", zap.Error(err))
	} else {
		a.Logger.Info("results archived", zap.String("uri", uri))
	}

	if len(records) > 0 {
		if id, err := a.Publisher.Publish(ctx, records); err != nil {
			a.Logger.Warn("publish run", zap.Error(err))
		} else {
			a.Logger.Info("run published", zap.String("message_id", id))
		}
	}

	cmd.Println(report.Render(result))
	return nil
}
