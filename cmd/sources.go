package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gildedpress/luxwire/internal/collector"
	"github.com/gildedpress/luxwire/internal/config"
	"github.com/gildedpress/luxwire/internal/fetch"
	"github.com/gildedpress/luxwire/internal/sitemap"
)

func newSourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List the configured publications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			for _, src := range a.Cfg.Sources {
				discovery := "feeds only"
				if src.HasSitemap() {
					discovery = "sitemap"
					if len(src.FeedURLs) > 0 {
						discovery = "sitemap + feeds"
					}
				}
				cmd.Printf("%-28s %-16s %s\n", src.Name, discovery, src.BaseURL)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "find <name>",
		Short: "Look up a publication's base URL by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			name := strings.Join(args, " ")
			url, ok := config.FindSourceURL(a.Cfg.Sources, name)
			if !ok {
				return fmt.Errorf("no source matches %q", name)
			}
			cmd.Println(url)
			return nil
		},
	})

	cmd.AddCommand(newFindURLCmd())

	return cmd
}

func newFindURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find-url <publication> <url>",
		Short: "Search a publication's sitemap for a specific URL",
		Long: `Resolves the publication's sitemap (expanding index documents) and reports
whether the URL appears in it and whether it would pass the keyword filter.`,
		Args: cobra.ExactArgs(2),
		RunE: runFindURL,
	}
}

func runFindURL(cmd *cobra.Command, args []string) error {
	a, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	publication, target := args[0], args[1]

	var src *collector.SourceConfig
	for i := range a.Cfg.Sources {
		if strings.EqualFold(a.Cfg.Sources[i].Name, publication) {
			src = &a.Cfg.Sources[i]
			break
		}
	}
	if src == nil {
		return fmt.Errorf("publication %q not found", publication)
	}
	if !src.HasSitemap() {
		return fmt.Errorf("no sitemap configured for %s", src.Name)
	}

	client := fetch.New(fetch.Config{InsecureRetry: a.Cfg.HTTP.InsecureRetry}, nil, a.Logger.Named("find-url"))
	entries, err := sitemap.New(sitemap.Config{}, client, a.Logger.Named("sitemap")).Resolve(cmd.Context(), src.SitemapURL)
	if err != nil {
		return fmt.Errorf("resolve sitemap: %w", err)
	}
	cmd.Printf("URLs in sitemap: %d\n", len(entries))

	trimmed := strings.TrimRight(target, "/")
	for _, e := range entries {
		if e.URL == target || strings.TrimRight(e.URL, "/") == trimmed {
			cmd.Printf("FOUND: %s\n", e.URL)
			cmd.Printf("Passes keyword filter: %v\n", a.Filter.IsRelevant(e.URL))
			return nil
		}
	}

	cmd.Printf("NOT FOUND: %s\n", target)
	// Suggest near misses sharing the target's last path segment.
	if i := strings.LastIndex(trimmed, "/"); i >= 0 && i+1 < len(trimmed) {
		tail := strings.ToLower(trimmed[i+1:])
		shown := 0
		for _, e := range entries {
			if strings.Contains(strings.ToLower(e.URL), tail) {
				if shown == 0 {
					cmd.Println("Similar URLs:")
				}
				cmd.Printf("  %s\n", e.URL)
				if shown++; shown == 5 {
					break
				}
			}
		}
	}
	return nil
}

func filterSources(sources []collector.SourceConfig, names []string) []collector.SourceConfig {
	var out []collector.SourceConfig
	for _, src := range sources {
		for _, name := range names {
			if strings.EqualFold(src.Name, name) {
				out = append(out, src)
				break
			}
		}
	}
	return out
}
