package billing

import "testing"

func TestParseTier(t *testing.T) {
	tests := []struct {
		input  string
		want   Tier
		wantOK bool
	}{
		{"pro", TierPro, true},
		{"team", TierTeam, true},
		{"free", "", false},
		{"platinum", "", false},
		{"", "", false},
		{"Pro", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseTier(tt.input)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseTier(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestTierForUnitAmount(t *testing.T) {
	tests := []struct {
		cents int64
		want  Tier
	}{
		{0, TierPro},
		{900, TierPro},
		{2899, TierPro},
		{2900, TierTeam},
		{5000, TierTeam},
	}
	for _, tt := range tests {
		if got := TierForUnitAmount(tt.cents); got != tt.want {
			t.Errorf("TierForUnitAmount(%d) = %v, want %v", tt.cents, got, tt.want)
		}
	}
}

func TestGetTier(t *testing.T) {
	if GetTier(TierPro) == nil || GetTier(TierTeam) == nil {
		t.Fatal("paid tiers must be defined")
	}
	if GetTier(TierFree) != nil {
		t.Error("free must not be a purchasable tier")
	}
}
