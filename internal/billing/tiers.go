package billing

// Tier is a Daygo subscription level.
type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
	TierTeam Tier = "team"
)

// ParseTier validates a tier value coming from subscription metadata. Only
// paid tiers are valid metadata targets; free is the absence of a paid tier.
func ParseTier(s string) (Tier, bool) {
	switch Tier(s) {
	case TierPro, TierTeam:
		return Tier(s), true
	}
	return "", false
}

// SubscriptionTier defines a paid subscription plan.
type SubscriptionTier struct {
	ID                Tier
	DisplayName       string
	Description       string
	MonthlyPriceCents int64
	ProductID         string // set by EnsureCatalog
	PriceID           string // set by EnsureCatalog
}

// Tiers holds the paid plans keyed by tier ID.
var Tiers = map[Tier]*SubscriptionTier{
	TierPro: {
		ID:                TierPro,
		DisplayName:       "Pro",
		Description:       "Unlimited journals, templates and DayScore history",
		MonthlyPriceCents: 900,
	},
	TierTeam: {
		ID:                TierTeam,
		DisplayName:       "Team",
		Description:       "Everything in Pro plus shared templates for your team",
		MonthlyPriceCents: 2900,
	},
}

// TierOrder defines the display ordering of paid tiers.
var TierOrder = []Tier{TierPro, TierTeam}

// GetTier returns a paid tier by its ID, or nil.
func GetTier(id Tier) *SubscriptionTier {
	return Tiers[id]
}

// TierForUnitAmount infers a paid tier from a subscription price when the
// subscription carries no tier metadata. Anything priced at or above the
// team plan is team; any other paid price is pro.
func TierForUnitAmount(cents int64) Tier {
	if cents >= Tiers[TierTeam].MonthlyPriceCents {
		return TierTeam
	}
	return TierPro
}
