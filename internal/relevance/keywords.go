// Package relevance implements the two-stage keyword scorer and the lexical
// URL pre-filter for the luxury-jewellery domain.
package relevance

// Category groups keywords that share a content-stage weight.
type Category struct {
	Name     string   `mapstructure:"name"`
	Weight   float64  `mapstructure:"weight"`
	Keywords []string `mapstructure:"keywords"`
}

// Keywords is the full vocabulary: weighted categories for scoring, plus the
// narrower core set required to pass domain validation.
type Keywords struct {
	Categories []Category `mapstructure:"categories"`
	CoreTerms  []string   `mapstructure:"core_terms"`
}

// DefaultKeywords returns the vocabulary the collection profile ships with.
// British spellings are intentional; the tracked publications are mostly UK.
func DefaultKeywords() Keywords {
	return Keywords{
		Categories: []Category{
			{
				Name:   "core-editorial",
				Weight: 4.0,
				Keywords: []string{
					"jewellery", "fine jewellery", "craftsmanship",
					"royal", "royals", "fashion week", "jewels",
				},
			},
			{
				Name:   "primary-trade",
				Weight: 5.0,
				Keywords: []string{
					"jewelry", "diamond", "engagement ring", "wedding ring",
					"lab grown diamonds", "diamond price", "gold price",
					"luxury sector", "luxury marketing trends",
				},
			},
			{
				Name:   "pieces-materials",
				Weight: 5.0,
				Keywords: []string{
					"necklace", "bracelet", "earrings", "pendant", "brooch",
					"gold", "platinum", "silver", "emerald", "sapphire", "ruby",
				},
			},
			{
				Name:   "maisons",
				Weight: 3.5,
				Keywords: []string{
					"cartier", "tiffany", "bulgari", "chanel", "dior", "van cleef",
					"graff", "harry winston", "chopard", "piaget", "boucheron",
				},
			},
			{
				Name:   "fashion-luxury",
				Weight: 2.5,
				Keywords: []string{
					"fashion", "accessories", "watches", "timepiece",
					"collection", "launch", "haute couture", "limited edition",
				},
			},
			{
				Name:   "events-celebrity",
				Weight: 2.0,
				Keywords: []string{
					"red carpet", "celebrity", "auction", "luxury",
				},
			},
			{
				Name:   "industry",
				Weight: 0.5,
				Keywords: []string{
					"collaboration", "investment", "trends", "style",
				},
			},
		},
		CoreTerms: []string{
			"jewellery", "jewelry", "jeweler", "jeweller",
			"diamond", "necklace", "bracelet", "earring", "ring", "brooch", "pendant",
			"cartier", "tiffany", "bulgari", "chanel", "van cleef",
			"graff", "harry winston", "chopard", "piaget", "boucheron",
			"gemstone", "emerald", "sapphire", "ruby", "pearl",
			"fine jewellery", "high jewelry", "haute joaillerie",
			"luxury brand", "luxury fashion", "luxury goods",
		},
	}
}

// All returns every scoring keyword across categories.
func (k Keywords) All() []string {
	var out []string
	for _, cat := range k.Categories {
		out = append(out, cat.Keywords...)
	}
	return out
}
