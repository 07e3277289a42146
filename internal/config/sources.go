package config

import "github.com/gildedpress/luxwire/internal/collector"

// DefaultSources is the tracked publication table. Sitemap-less entries rely
// entirely on their feeds; feed-less entries rely entirely on their sitemap.
func DefaultSources() []collector.SourceConfig {
	return []collector.SourceConfig{
		{
			Name:       "The Guardian",
			BaseURL:    "https://www.theguardian.com/fashion/womens-jewellery",
			FeedURLs:   []string{"https://www.theguardian.com/fashion/womens-jewellery/rss"},
			SitemapURL: "https://www.theguardian.com/sitemaps/news.xml",
		},
		{
			Name:       "The Telegraph",
			BaseURL:    "https://www.telegraph.co.uk/luxury/",
			FeedURLs:   []string{"https://www.telegraph.co.uk/luxury/rss"},
			SitemapURL: "https://www.telegraph.co.uk/luxury/sitemap.xml",
		},
		{
			Name:       "Evening Standard",
			BaseURL:    "https://www.standard.co.uk/topic/jewellery",
			FeedURLs:   []string{"https://www.standard.co.uk/rss"},
			SitemapURL: "https://www.standard.co.uk/sitemaps/googlenews",
		},
		{
			Name:       "The Times",
			BaseURL:    "https://www.thetimes.com/topic/jewellery",
			SitemapURL: "https://www.thetimes.com/sitemaps/news",
		},
		{
			Name:       "Financial Times",
			BaseURL:    "https://www.ft.com/fashion",
			SitemapURL: "https://www.ft.com/sitemaps/news.xml",
		},
		{
			Name:       "Forbes",
			BaseURL:    "https://www.forbes.com/business/",
			FeedURLs:   []string{"https://www.forbes.com/business/feed/"},
			SitemapURL: "https://www.forbes.com/news_sitemap.xml",
		},
		{
			Name:       "Business of Fashion",
			BaseURL:    "https://www.businessoffashion.com/",
			FeedURLs:   []string{"https://www.businessoffashion.com/feed/"},
			SitemapURL: "https://www.businessoffashion.com/arc/outboundfeeds/sitemap/google-news/",
		},
		{
			Name:       "Vogue Business",
			BaseURL:    "https://www.voguebusiness.com/",
			FeedURLs:   []string{"https://www.voguebusiness.com/feed"},
			SitemapURL: "https://www.vogue.com/feed/google-latest-news/sitemap-google-news",
		},
		{
			Name:       "Harper's Bazaar",
			BaseURL:    "https://www.harpersbazaar.com/",
			SitemapURL: "https://www.harpersbazaar.com/sitemap_google_news.xml",
		},
		{
			Name:       "Elle",
			BaseURL:    "https://www.elle.com/jewelry/",
			SitemapURL: "https://www.elle.com/sitemap_google_news.xml",
		},
		{
			Name:       "Vogue UK",
			BaseURL:    "https://www.vogue.co.uk/",
			FeedURLs:   []string{"https://www.vogue.co.uk/feed/rss"},
			SitemapURL: "https://www.vogue.co.uk/feed/sitemap/sitemap-google-news",
		},
		{
			Name:       "Vanity Fair",
			BaseURL:    "https://www.vanityfair.com/",
			FeedURLs:   []string{"https://www.vanityfair.com/feed/rss"},
			SitemapURL: "https://www.vanityfair.com/feed/google-latest-news/sitemap-google-news",
		},
		{
			Name:       "Tatler",
			BaseURL:    "https://www.tatler.com/",
			FeedURLs:   []string{"https://www.tatler.com/feed/rss"},
			SitemapURL: "https://www.tatler.com/feed/google-latest-news/sitemap-google-news",
		},
		{
			Name:       "Red Online",
			BaseURL:    "https://www.redonline.co.uk/",
			SitemapURL: "https://www.redonline.co.uk/sitemap_google_news.xml",
		},
		{
			Name:       "Town & Country",
			BaseURL:    "https://www.townandcountrymag.com/style/",
			FeedURLs:   []string{"https://www.townandcountrymag.com/rss/all.xml/"},
			SitemapURL: "https://www.townandcountrymag.com/sitemap_google_news.xml",
		},
		{
			Name:       "StyleCaster",
			BaseURL:    "https://stylecaster.com/c/fashion/",
			FeedURLs:   []string{"https://stylecaster.com/feed/"},
			SitemapURL: "https://stylecaster.com/news-sitemap.xml",
		},
		{
			Name:       "The Handbook",
			BaseURL:    "https://www.thehandbook.com/",
			SitemapURL: "https://www.thehandbook.com/sitemap.xml?postType=editorial&offset=0",
		},
		{
			Name:     "Something About Rocks",
			BaseURL:  "https://somethingaboutrocks.com/",
			FeedURLs: []string{"https://somethingaboutrocks.com/feed/"},
		},
		{
			Name:       "The Cut",
			BaseURL:    "https://www.thecut.com/",
			FeedURLs:   []string{"https://www.thecut.com/rss/index.xml"},
			SitemapURL: "https://www.thecut.com/sitemaps/sitemap-2025.xml",
		},
		{
			Name:       "The Monocle",
			BaseURL:    "https://monocle.com/",
			SitemapURL: "https://monocle.com/the-monocle-minute/",
		},
		{
			Name:       "The Jewels Club",
			BaseURL:    "https://thejewels.club/",
			SitemapURL: "https://thejewels.club/sitemap.xml",
		},
		{
			Name:     "Retail Jeweller",
			BaseURL:  "https://www.retail-jeweller.com/",
			FeedURLs: []string{"https://www.retail-jeweller.com/feed/"},
		},
		{
			Name:     "Professional Jeweller",
			BaseURL:  "https://www.professionaljeweller.com/",
			FeedURLs: []string{"https://www.professionaljeweller.com/feed/"},
		},
		{
			Name:     "Rapaport",
			BaseURL:  "https://rapaport.com/",
			FeedURLs: []string{"https://rapaport.com/rss/"},
		},
		{
			Name:       "National Jeweler",
			BaseURL:    "https://nationaljeweler.com/",
			SitemapURL: "https://nationaljeweler.com/sitemap.xml",
		},
		{
			Name:    "Wall Street Journal",
			BaseURL: "https://www.wsj.com/news/life-arts/fashion",
			FeedURLs: []string{
				"https://feeds.content.downjones.io/public/rss/RSSWorldNews",
				"https://feeds.content.downjones.io/public/rss/RSSLifestyle",
				"https://feeds.content.downjones.io/public/rss/RSSArtsCulture",
				"https://feeds.content.downjones.io/public/rss/RSSStyle",
			},
			SitemapURL: "https://www.wsj.com/wsjsitemaps/wsj_google_news.xml",
		},
		{
			Name:    "New York Times",
			BaseURL: "https://www.nytimes.com/",
			FeedURLs: []string{
				"https://rss.nytimes.com/services/xml/rss/nyt/World.xml",
				"https://rss.nytimes.com/services/xml/rss/nyt/Arts.xml",
				"https://rss.nytimes.com/services/xml/rss/nyt/FashionandStyle.xml",
			},
			SitemapURL: "https://www.nytimes.com/sitemaps/new/news.xml.gz",
		},
		{
			Name:       "Business Insider",
			BaseURL:    "https://www.businessinsider.com/",
			SitemapURL: "https://www.businessinsider.com/sitemap/google-news.xml",
		},
	}
}

// FindSourceURL returns the base URL for a publication name, matching
// case-insensitively on exact name first and substring second.
func FindSourceURL(sources []collector.SourceConfig, name string) (string, bool) {
	for _, src := range sources {
		if equalFold(src.Name, name) {
			return src.BaseURL, true
		}
	}
	for _, src := range sources {
		if containsFold(src.Name, name) {
			return src.BaseURL, true
		}
	}
	return "", false
}
