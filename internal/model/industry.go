package model

import "strings"

// IndustryProfile holds the static curation tables for one industry.
type IndustryProfile struct {
	// TrustedSources are domains whose articles score 1.0 and bypass
	// keyword scoring.
	TrustedSources []string `yaml:"sources" json:"sources"`

	// Keywords drive the keyword-overlap relevance score. Matching is
	// case-insensitive.
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// ProfileFor looks up an industry profile, case-insensitively. An industry
// with no configured keywords falls back to its own lower-cased name as the
// sole keyword, so the scoring denominator is never zero.
func (c *Config) ProfileFor(industry string) IndustryProfile {
	key := strings.ToLower(strings.TrimSpace(industry))
	profile := c.Industries[key]
	if len(profile.Keywords) == 0 {
		profile.Keywords = []string{key}
	}
	return profile
}

// defaultIndustries mirrors the curation tables the service ships with.
// Overridable via the industries section of the config file.
func defaultIndustries() map[string]IndustryProfile {
	return map[string]IndustryProfile{
		"fintech": {
			TrustedSources: []string{
				"bankier.pl", "cashless.pl", "finextra.com", "bloomberg.com", "forrester.com",
				"finance.yahoo.com", "fintechfutures.com", "thepaypers.com", "paymentsjournal.com",
				"techcrunch.com", "businessinsider.com", "fintechnews.sg", "finews.asia",
				"thefintechtimes.com",
			},
			Keywords: []string{
				"tech", "software", "ai", "artificial intelligence", "startup", "digital",
				"app", "platform", "technology", "bank", "investment", "finance", "fintech",
				"crypto", "blockchain", "trading", "money", "cloud",
			},
		},
		"banking": {
			TrustedSources: []string{
				"reuters.com", "bloomberg.com", "bankingtech.com", "thebanker.com", "americanbanker.com",
			},
			Keywords: []string{
				"bank", "investment", "finance", "fintech", "crypto", "blockchain", "trading", "money",
			},
		},
		"finance": {
			Keywords: []string{
				"bank", "investment", "finance", "fintech", "crypto", "blockchain", "trading", "money",
			},
		},
		"energy": {
			TrustedSources: []string{
				"energetyka24.com", "energyvoice.com", "greentechmedia.com", "energylivenews.com",
				"power-technology.com", "oilprice.com", "renewableenergyworld.com", "cleantechnica.com",
				"energycentral.com",
			},
			Keywords: []string{
				"energy", "oil", "renewable", "solar", "wind", "electric", "battery", "power",
			},
		},
		"logistics": {
			TrustedSources: []string{
				"logistyka.rp.pl", "trans.info", "supplychaindigital.com", "freightwaves.com",
				"theloadstar.com", "logisticsmanager.com", "supplychainquarterly.com",
				"supplychaintoday.com",
			},
		},
		"ecommerce": {
			TrustedSources: []string{
				"emarketer.com", "retaildive.com", "practicalecommerce.com", "ecommercebytes.com",
				"internetretailing.net", "ecommerce-news.eu", "businessinsider.com", "techcrunch.com",
			},
		},
		"cybersecurity": {
			TrustedSources: []string{
				"cyberscoop.com", "threatpost.com", "krebsonsecurity.com", "darkreading.com",
				"infosecurity-magazine.com", "securityweek.com", "thehackernews.com", "zdnet.com",
			},
		},
		"telecommunications": {
			TrustedSources: []string{
				"lightreading.com", "telecoms.com", "totaltele.com", "fiercetelecom.com", "rcrwireless.com",
			},
		},
		"healthcare": {
			TrustedSources: []string{
				"healthcareitnews.com", "medgadget.com", "mobihealthnews.com", "medicalnewstoday.com",
				"healthline.com", "healthcarefinancenews.com",
			},
			Keywords: []string{
				"health", "medical", "hospital", "pharma", "medicine", "treatment", "patient", "healthcare",
			},
		},
		"automotive": {
			TrustedSources: []string{
				"autonews.com", "automotiveworld.com", "caranddriver.com", "motortrend.com",
				"autoexpress.co.uk",
			},
		},
		"technology": {
			TrustedSources: []string{
				"techcrunch.com", "wired.com", "thenextweb.com", "venturebeat.com", "theverge.com",
				"zdnet.com", "cnet.com", "gizmodo.com", "mashable.com", "engadget.com",
			},
			Keywords: []string{
				"tech", "software", "ai", "artificial intelligence", "startup", "digital",
				"app", "platform", "technology",
			},
		},
		"real_estate": {
			TrustedSources: []string{
				"therealdeal.com", "housingwire.com", "inman.com", "bloomberg.com", "propertywire.com",
			},
		},
	}
}

// defaultExcludedSources are dropped unconditionally, regardless of industry.
func defaultExcludedSources() []string {
	return []string{"ft.com"}
}
