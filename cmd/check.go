package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gildedpress/luxwire/internal/collector"
	"github.com/gildedpress/luxwire/internal/extract"
	"github.com/gildedpress/luxwire/internal/fetch"
)

const checkTimeout = 20 * time.Second

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <url>",
		Short: "Score a single article URL against the keyword taxonomy",
		Long: `Downloads one article, extracts its text, and walks through the same
scoring steps the collector applies: title score, content score with
cumulative bonuses, and domain validation. Useful for tuning keywords.`,
		Args: cobra.ExactArgs(1),
		RunE: runCheck,
	}
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	url := args[0]

	// One-shot fetch, unpaced. The check command talks to a single host once.
	client := fetch.New(fetch.Config{
		DefaultTimeout: checkTimeout,
		InsecureRetry:  a.Cfg.HTTP.InsecureRetry,
	}, nil, a.Logger.Named("check"))

	res, err := client.Fetch(cmd.Context(), url, checkTimeout)
	if err != nil {
		return fmt.Errorf("download article: %w", err)
	}

	ext, err := extract.New().Extract(url, res.Body)
	if err != nil && !errors.Is(err, collector.ErrContentTooShort) {
		return fmt.Errorf("extract article: %w", err)
	}

	titleScore, titleHits := a.Scorer.TitleScore(ext.Title, url)
	contentScore, contentHits := a.Scorer.ContentScore(ext.Title, ext.Text)
	onTopic := a.Scorer.PassesDomainValidation(ext.Title, ext.Text)
	urlOK := a.Filter.IsRelevant(url)
	author := extract.NewAuthorResolver().Resolve(ext)

	cmd.Printf("Title:          %s\n", ext.Title)
	cmd.Printf("Author:         %s\n", author)
	cmd.Printf("Text length:    %d chars\n", len(ext.Text))
	cmd.Printf("URL filter:     %s\n", passFail(urlOK))
	cmd.Printf("Title score:    %.1f %s\n", titleScore, hitList(titleHits))
	cmd.Printf("Content score:  %.1f %s\n", contentScore, hitList(contentHits))
	cmd.Printf("Domain check:   %s\n", passFail(onTopic))

	verdict := onTopic && contentScore > 0
	cmd.Printf("Verdict:        %s\n", map[bool]string{true: "RELEVANT", false: "NOT RELEVANT"}[verdict])
	return nil
}

func passFail(ok bool) string {
	if ok {
		return "pass"
	}
	return "fail"
}

func hitList(hits []string) string {
	if len(hits) == 0 {
		return ""
	}
	return "(" + strings.Join(hits, ", ") + ")"
}
