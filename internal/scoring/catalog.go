package scoring

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/clash-creation/qualify-cli/internal/model"
)

// Catalog holds the three pre-authored recommendation records. Records
// are selected, never computed; the only personalization downstream is
// substituting the user's readable responses into the match list.
type Catalog struct {
	tiers map[model.Tier]model.Recommendation
}

// Tier returns the record for the given tier.
func (c *Catalog) Tier(t model.Tier) model.Recommendation {
	return c.tiers[t]
}

// DefaultCatalog returns the production catalog content.
func DefaultCatalog() *Catalog {
	return &Catalog{tiers: map[model.Tier]model.Recommendation{
		model.TierExecutive: {
			Type:    model.TierExecutive,
			Title:   "The Executive Partnership",
			Tagline: "Premium implementation. Full scale. No stress.",
			Pricing: "Starting from £9,500",
			Description: []string{
				"You're not playing around. Your business is moving fast, your team needs results, and content is a growth lever — not a side project. You just don't have the time.",
				"This is where we step in and build it with you.",
				"Custom strategy. Full system setup. Ongoing support.",
				"Our experts will train up your team to make short-form your biggest growth channel.",
			},
			Benefits: []string{
				"Everything included in the Comprehensive Course PLUS:",
				"A dedicated implementation manager",
				"Custom strategy development",
				"Done-with-you system install",
				"6 months of premium support",
				"Private team onboarding + training",
			},
			Extras: []model.Extra{
				{Name: "Extended Support (3 more months)", Price: "£1,800"},
			},
			Testimonial: "We'll build it. You focus on growth.",
			CTAText:     "Book your executive strategy session",
			CTAAction:   model.CTABookSession,
		},
		model.TierComprehensive: {
			Type:    model.TierComprehensive,
			Title:   "The Comprehensive Implementation",
			Tagline: "Complete support, zero guesswork",
			Pricing: "£5,500 one time payment",
			Description: []string{
				"You're growing fast — and it's time your content systems did too.",
				"This isn't another course or set of templates. It's live support, 1:1 strategy, and a full plug-and-play content engine that actually fits your business.",
				"We'll give you the frameworks, the guidance, and the knowledge to back it up.",
				"You bring the momentum. We'll build the machine.",
			},
			Benefits: []string{
				"Two 1:1 strategy sessions",
				"Weekly Group coaching + support",
				"Full course, template + system access",
				"3-month implementation support",
				"Access to private founder community",
			},
			Extras: []model.Extra{
				{Name: "Additional coaching sessions", Price: "£850"},
				{Name: "Content Audit + Strategy", Price: "£950"},
				{Name: "Upgrade to Executive", Price: "£4,000+"},
			},
			Testimonial: "Scaling without support = burnout. Don't do it to yourself.",
			CTAText:     "Book your first strategy session",
			CTAAction:   model.CTABookSession,
		},
		model.TierFoundation: {
			Type:    model.TierFoundation,
			Title:   "The Foundation Implementation",
			Tagline: "Build your content foundation",
			Pricing: "£1,950 one-time payment",
			Description: []string{
				"You're not quite ready to start right away — but you're not messing around.",
				"The Foundation Implementation is a lean, self-paced option for solo founders or small teams who want clarity, templates, and a proper system to launch with confidence (not confusion).",
				"You don't need hand-holding. You need a jumpstart.",
				"The Foundation Implementation is exactly that.",
			},
			Benefits: []string{
				"Lifetime access to our foundation tiers",
				"Our most essential content templates",
				"Credit towards upgrading later",
			},
			Extras: []model.Extra{
				{Name: "1:1 Coaching Session", Price: "£850"},
				{Name: "Content Audit + Strategy", Price: "£950"},
				{Name: "Upgrade to Comprehensive", Price: "£3,550"},
			},
			Testimonial: "Not quite sure? Most of our top clients started here. Then scaled like hell.",
			CTAText:     "Start Instantly",
			CTAAction:   model.CTADirectPurchase,
		},
	}}
}

// LoadCatalog reads a tier catalog from a YAML file, for copy updates
// without a redeploy. All three tiers must be present; records replace
// the defaults wholesale.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "scoring: read catalog file")
	}

	var recs []model.Recommendation
	if err := yaml.Unmarshal(data, &recs); err != nil {
		return nil, eris.Wrap(err, "scoring: parse catalog yaml")
	}

	tiers := make(map[model.Tier]model.Recommendation, len(recs))
	for _, r := range recs {
		switch r.Type {
		case model.TierFoundation, model.TierComprehensive, model.TierExecutive:
			tiers[r.Type] = r
		default:
			return nil, eris.Errorf("scoring: unknown tier %q in catalog", r.Type)
		}
	}
	for _, t := range []model.Tier{model.TierFoundation, model.TierComprehensive, model.TierExecutive} {
		if _, ok := tiers[t]; !ok {
			return nil, eris.Errorf("scoring: catalog missing tier %q", t)
		}
	}

	return &Catalog{tiers: tiers}, nil
}
