package event

import "testing"

func TestScoringSide(t *testing.T) {
	cases := []struct {
		kind Kind
		want Side
	}{
		{KindGoal, SideVigontina},
		{KindPenaltyGoal, SideVigontina},
		{KindFreeKickGoal, SideVigontina},
		{KindOpponentOwnGoal, SideVigontina},
		{KindOpponentGoal, SideOpponent},
		{KindPenaltyOpponentGoal, SideOpponent},
		{KindOpponentFreeKickGoal, SideOpponent},
		{KindOwnGoal, SideOpponent},
		{KindPenaltyMissed, SideNone},
		{KindSave, SideNone},
		{KindMissedShot, SideNone},
		{KindSubstitution, SideNone},
	}

	for _, tc := range cases {
		if got := tc.kind.ScoringSide(); got != tc.want {
			t.Errorf("ScoringSide(%s) = %q, want %q", tc.kind, got, tc.want)
		}
	}
}

func TestIsGoalClass(t *testing.T) {
	goalClass := []Kind{
		KindGoal, KindOpponentGoal, KindOwnGoal, KindOpponentOwnGoal,
		KindPenaltyGoal, KindPenaltyOpponentGoal, KindPenaltyMissed,
		KindPenaltyOpponentMissed, KindFreeKickGoal, KindOpponentFreeKickGoal,
	}
	for _, k := range goalClass {
		if !k.IsGoalClass() {
			t.Errorf("expected %s to be goal-class", k)
		}
	}

	plain := []Kind{KindSave, KindMissedShot, KindShotBlocked, KindPostHit, KindCrossbarHit, KindSubstitution}
	for _, k := range plain {
		if k.IsGoalClass() {
			t.Errorf("expected %s not to be goal-class", k)
		}
	}
}

func TestScoreDelta(t *testing.T) {
	if side, delta := (Event{Kind: KindGoal}).ScoreDelta(); side != SideVigontina || delta != 1 {
		t.Fatalf("goal delta = (%q, %d), want (vigontina, 1)", side, delta)
	}
	if side, delta := (Event{Kind: KindOwnGoal}).ScoreDelta(); side != SideOpponent || delta != 1 {
		t.Fatalf("own-goal delta = (%q, %d), want (opponent, 1)", side, delta)
	}
	if side, delta := (Event{Kind: KindScoreAdjustment, AdjustSide: SideOpponent, Delta: -1}).ScoreDelta(); side != SideOpponent || delta != -1 {
		t.Fatalf("adjustment delta = (%q, %d), want (opponent, -1)", side, delta)
	}
	if _, delta := (Event{Kind: KindSave}).ScoreDelta(); delta != 0 {
		t.Fatalf("save delta = %d, want 0", delta)
	}
}

func TestVoided(t *testing.T) {
	if (Event{Kind: KindGoal}).Voided() {
		t.Fatal("fresh event must not be voided")
	}
	if !(Event{Kind: KindGoal, DeletionReason: "fuorigioco"}).Voided() {
		t.Fatal("event with a deletion reason must be voided")
	}
}

func TestIsValidKind(t *testing.T) {
	if !IsValidKind(KindCrossbarHit) {
		t.Fatal("crossbar-hit should be valid")
	}
	if IsValidKind(Kind("red-card")) {
		t.Fatal("unknown kind should be invalid")
	}
}
