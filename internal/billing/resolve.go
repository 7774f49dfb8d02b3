package billing

// Metadata keys Daygo stamps on Stripe subscriptions at checkout time. They
// are the only channel linking a Stripe subscription back to a Daygo user.
const (
	MetadataUserID = "userId"
	MetadataTier   = "tier"
)

// SubscriptionState is the slice of a Stripe subscription the resolver needs.
// It is built either from a webhook payload or from a fetched subscription.
type SubscriptionState struct {
	ID       string
	Status   string
	Metadata map[string]string
}

// Resolution is a tier change ready to be persisted for a user.
type Resolution struct {
	UserID         string
	Tier           Tier
	Status         string
	SubscriptionID string
}

// Resolve derives the effective tier for a classified lifecycle transition.
// It returns false when the subscription carries no usable metadata; that is
// a no-op, not an error, so the vendor is not asked to redeliver.
//
// Any non-active underlying status collapses to free. There is no grace
// period tier.
func Resolve(transition Transition, sub SubscriptionState) (Resolution, bool) {
	userID := sub.Metadata[MetadataUserID]
	if userID == "" {
		return Resolution{}, false
	}

	tier, ok := ParseTier(sub.Metadata[MetadataTier])
	if !ok {
		return Resolution{}, false
	}

	effective := TierFree
	switch transition {
	case TransitionPaymentSucceeded:
		effective = tier
	case TransitionActivated:
		if sub.Status == "active" {
			effective = tier
		}
	}

	return Resolution{
		UserID:         userID,
		Tier:           effective,
		Status:         sub.Status,
		SubscriptionID: sub.ID,
	}, true
}
