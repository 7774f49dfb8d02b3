package billing

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		transition Transition
		sub        SubscriptionState
		want       Resolution
		wantOK     bool
	}{
		{
			name:       "activated active pro",
			transition: TransitionActivated,
			sub: SubscriptionState{
				ID:       "sub_1",
				Status:   "active",
				Metadata: map[string]string{"userId": "u1", "tier": "pro"},
			},
			want:   Resolution{UserID: "u1", Tier: TierPro, Status: "active", SubscriptionID: "sub_1"},
			wantOK: true,
		},
		{
			name:       "activated active team",
			transition: TransitionActivated,
			sub: SubscriptionState{
				ID:       "sub_2",
				Status:   "active",
				Metadata: map[string]string{"userId": "u2", "tier": "team"},
			},
			want:   Resolution{UserID: "u2", Tier: TierTeam, Status: "active", SubscriptionID: "sub_2"},
			wantOK: true,
		},
		{
			name:       "activated but trialing collapses to free",
			transition: TransitionActivated,
			sub: SubscriptionState{
				ID:       "sub_3",
				Status:   "trialing",
				Metadata: map[string]string{"userId": "u3", "tier": "pro"},
			},
			want:   Resolution{UserID: "u3", Tier: TierFree, Status: "trialing", SubscriptionID: "sub_3"},
			wantOK: true,
		},
		{
			name:       "canceled subscription drops to free regardless of tier",
			transition: TransitionCanceled,
			sub: SubscriptionState{
				ID:       "sub_4",
				Status:   "canceled",
				Metadata: map[string]string{"userId": "u1", "tier": "pro"},
			},
			want:   Resolution{UserID: "u1", Tier: TierFree, Status: "canceled", SubscriptionID: "sub_4"},
			wantOK: true,
		},
		{
			name:       "payment succeeded applies metadata tier",
			transition: TransitionPaymentSucceeded,
			sub: SubscriptionState{
				ID:       "sub_5",
				Status:   "active",
				Metadata: map[string]string{"userId": "u5", "tier": "team"},
			},
			want:   Resolution{UserID: "u5", Tier: TierTeam, Status: "active", SubscriptionID: "sub_5"},
			wantOK: true,
		},
		{
			name:       "payment failed past_due drops to free",
			transition: TransitionPaymentFailed,
			sub: SubscriptionState{
				ID:       "sub_1",
				Status:   "past_due",
				Metadata: map[string]string{"userId": "u2", "tier": "team"},
			},
			want:   Resolution{UserID: "u2", Tier: TierFree, Status: "past_due", SubscriptionID: "sub_1"},
			wantOK: true,
		},
		{
			name:       "missing userId is a no-op",
			transition: TransitionActivated,
			sub: SubscriptionState{
				ID:       "sub_6",
				Status:   "active",
				Metadata: map[string]string{"tier": "pro"},
			},
			wantOK: false,
		},
		{
			name:       "missing tier is a no-op",
			transition: TransitionActivated,
			sub: SubscriptionState{
				ID:       "sub_7",
				Status:   "active",
				Metadata: map[string]string{"userId": "u7"},
			},
			wantOK: false,
		},
		{
			name:       "invalid tier is a no-op",
			transition: TransitionActivated,
			sub: SubscriptionState{
				ID:       "sub_8",
				Status:   "active",
				Metadata: map[string]string{"userId": "u8", "tier": "platinum"},
			},
			wantOK: false,
		},
		{
			name:       "free is not a valid metadata tier",
			transition: TransitionActivated,
			sub: SubscriptionState{
				ID:       "sub_9",
				Status:   "active",
				Metadata: map[string]string{"userId": "u9", "tier": "free"},
			},
			wantOK: false,
		},
		{
			name:       "nil metadata is a no-op",
			transition: TransitionCanceled,
			sub:        SubscriptionState{ID: "sub_10", Status: "canceled"},
			wantOK:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.transition, tt.sub)
			if ok != tt.wantOK {
				t.Fatalf("Resolve() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	sub := SubscriptionState{
		ID:       "sub_1",
		Status:   "active",
		Metadata: map[string]string{"userId": "u1", "tier": "pro"},
	}

	first, ok := Resolve(TransitionActivated, sub)
	if !ok {
		t.Fatal("Resolve() returned no-op")
	}
	second, ok := Resolve(TransitionActivated, sub)
	if !ok {
		t.Fatal("Resolve() returned no-op on replay")
	}
	if first != second {
		t.Errorf("replayed resolution differs: %+v vs %+v", first, second)
	}
}
