package domain

import "testing"

func TestReferralStatusForwardOnly(t *testing.T) {
	cases := []struct {
		from, to ReferralStatus
		want     bool
	}{
		{ReferralStatusPending, ReferralStatusSignedUp, true},
		{ReferralStatusPending, ReferralStatusConverted, true},
		{ReferralStatusSignedUp, ReferralStatusConverted, true},
		{ReferralStatusSignedUp, ReferralStatusPending, false},
		{ReferralStatusConverted, ReferralStatusSignedUp, false},
		{ReferralStatusConverted, ReferralStatusConverted, false},
		{ReferralStatus("bogus"), ReferralStatusConverted, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanAdvanceTo(tc.to); got != tc.want {
			t.Fatalf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestCommissionFor(t *testing.T) {
	if got := CommissionFor(10000, 0.13); got != 1300 {
		t.Fatalf("commission on 10000 at 0.13: got %v, want 1300", got)
	}
	// 999 * 0.13 = 129.87, rounds up to the nearest whole unit.
	if got := CommissionFor(999, 0.13); got != 130 {
		t.Fatalf("commission on 999 at 0.13: got %v, want 130", got)
	}
	// 505 * 0.13 = 65.65 rounds to 66; 503 * 0.13 = 65.39 rounds to 65.
	if got := CommissionFor(505, 0.13); got != 66 {
		t.Fatalf("commission on 505 at 0.13: got %v, want 66", got)
	}
	if got := CommissionFor(503, 0.13); got != 65 {
		t.Fatalf("commission on 503 at 0.13: got %v, want 65", got)
	}
	if got := CommissionFor(0, 0.13); got != 0 {
		t.Fatalf("zero payment must yield zero commission, got %v", got)
	}
	if got := CommissionFor(-100, 0.13); got != 0 {
		t.Fatalf("negative payment must yield zero commission, got %v", got)
	}
	if got := CommissionFor(10000, 0); got != 0 {
		t.Fatalf("zero rate must yield zero commission, got %v", got)
	}
}
