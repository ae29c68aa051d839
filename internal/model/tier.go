package model

// Tier is a subscription level. Monthly and yearly variants of a plan are
// distinct tiers (they map to distinct billing price ids) but share the same
// ceilings and rank.
type Tier int

const (
	TierFree Tier = iota
	TierBaseMonthly
	TierBaseYearly
	TierStandardMonthly
	TierStandardYearly
	TierPlusMonthly
	TierPlusYearly
	TierBusinessMonthly
	TierBusinessYearly
)

// AllTiers lists every tier in ascending order of entitlement.
var AllTiers = []Tier{
	TierFree,
	TierBaseMonthly,
	TierBaseYearly,
	TierStandardMonthly,
	TierStandardYearly,
	TierPlusMonthly,
	TierPlusYearly,
	TierBusinessMonthly,
	TierBusinessYearly,
}

// TierLimits are the hard ceilings a tier grants. Byte limits bound a single
// upload and total storage; count limits bound how many uploads of each
// special kind an account may hold.
type TierLimits struct {
	MaxUploadSize               int64
	MaxStorage                  int64
	MaxPrivateUploads           int
	MaxPasswordProtectedUploads int
}

// Limits returns the ceilings for the tier. Unknown values fall back to the
// free ceilings.
func (t Tier) Limits() TierLimits {
	switch t {
	case TierBaseMonthly, TierBaseYearly:
		return TierLimits{
			MaxUploadSize:               20 << 20,
			MaxStorage:                  5 << 30,
			MaxPrivateUploads:           50,
			MaxPasswordProtectedUploads: 25,
		}
	case TierStandardMonthly, TierStandardYearly:
		return TierLimits{
			MaxUploadSize:               50 << 20,
			MaxStorage:                  15 << 30,
			MaxPrivateUploads:           100,
			MaxPasswordProtectedUploads: 50,
		}
	case TierPlusMonthly, TierPlusYearly:
		return TierLimits{
			MaxUploadSize:               100 << 20,
			MaxStorage:                  25 << 30,
			MaxPrivateUploads:           250,
			MaxPasswordProtectedUploads: 200,
		}
	case TierBusinessMonthly, TierBusinessYearly:
		return TierLimits{
			MaxUploadSize:               500 << 20,
			MaxStorage:                  50 << 30,
			MaxPrivateUploads:           1000,
			MaxPasswordProtectedUploads: 700,
		}
	default:
		return TierLimits{
			MaxUploadSize:               5 << 20,
			MaxStorage:                  1 << 30,
			MaxPrivateUploads:           25,
			MaxPasswordProtectedUploads: 0,
		}
	}
}

// Rank orders tiers by entitlement. Monthly and yearly variants share a rank.
func (t Tier) Rank() int {
	switch t {
	case TierBaseMonthly, TierBaseYearly:
		return 1
	case TierStandardMonthly, TierStandardYearly:
		return 2
	case TierPlusMonthly, TierPlusYearly:
		return 3
	case TierBusinessMonthly, TierBusinessYearly:
		return 4
	default:
		return 0
	}
}

// Paid reports whether the tier is a paying plan.
func (t Tier) Paid() bool {
	return t.Rank() > 0
}

func (t Tier) String() string {
	switch t {
	case TierBaseMonthly:
		return "base_monthly"
	case TierBaseYearly:
		return "base_yearly"
	case TierStandardMonthly:
		return "standard_monthly"
	case TierStandardYearly:
		return "standard_yearly"
	case TierPlusMonthly:
		return "plus_monthly"
	case TierPlusYearly:
		return "plus_yearly"
	case TierBusinessMonthly:
		return "business_monthly"
	case TierBusinessYearly:
		return "business_yearly"
	default:
		return "free"
	}
}

// TierCatalog maps billing plan ids to tiers. Plan ids come from
// configuration; an id absent from the catalog resolves to no tier at all,
// never silently to free.
type TierCatalog struct {
	plans map[string]Tier
}

// NewTierCatalog builds a catalog from plan id to tier. Empty ids are
// skipped so unconfigured plans cannot be matched by an empty string.
func NewTierCatalog(plans map[string]Tier) *TierCatalog {
	c := &TierCatalog{plans: make(map[string]Tier, len(plans))}
	for id, tier := range plans {
		if id == "" {
			continue
		}
		c.plans[id] = tier
	}
	return c
}

// Resolve maps a stored plan id to its tier. A nil or unknown id yields no
// tier.
func (c *TierCatalog) Resolve(planID *string) (Tier, bool) {
	if planID == nil {
		return TierFree, false
	}
	tier, ok := c.plans[*planID]
	return tier, ok
}
