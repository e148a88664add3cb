package event

import "strings"

// Side identifies which team a tally or event belongs to.
type Side string

const (
	SideVigontina Side = "vigontina"
	SideOpponent  Side = "opponent"
	SideNone      Side = ""
)

// Kind is the discriminant of the event variant stored in a period log.
type Kind string

const (
	KindGoal                   Kind = "goal"
	KindOpponentGoal           Kind = "opponent-goal"
	KindOwnGoal                Kind = "own-goal"
	KindOpponentOwnGoal        Kind = "opponent-own-goal"
	KindPenaltyGoal            Kind = "penalty-goal"
	KindPenaltyOpponentGoal    Kind = "penalty-opponent-goal"
	KindPenaltyMissed          Kind = "penalty-missed"
	KindPenaltyOpponentMissed  Kind = "penalty-opponent-missed"
	KindFreeKickGoal           Kind = "free-kick-goal"
	KindOpponentFreeKickGoal   Kind = "opponent-free-kick-goal"
	KindFreeKickMissed         Kind = "free-kick-missed"
	KindOpponentFreeKickMissed Kind = "opponent-free-kick-missed"
	KindSave                   Kind = "save"
	KindOpponentSave           Kind = "opponent-save"
	KindMissedShot             Kind = "missed-shot"
	KindOpponentMissedShot     Kind = "opponent-missed-shot"
	KindShotBlocked            Kind = "shot-blocked"
	KindOpponentShotBlocked    Kind = "opponent-shot-blocked"
	KindPostHit                Kind = "post-hit"
	KindOpponentPostHit        Kind = "opponent-post-hit"
	KindCrossbarHit            Kind = "crossbar-hit"
	KindOpponentCrossbarHit    Kind = "opponent-crossbar-hit"
	KindSubstitution           Kind = "substitution"
	KindScoreAdjustment        Kind = "score-adjustment"
)

var allKinds = map[Kind]struct{}{
	KindGoal: {}, KindOpponentGoal: {}, KindOwnGoal: {}, KindOpponentOwnGoal: {},
	KindPenaltyGoal: {}, KindPenaltyOpponentGoal: {}, KindPenaltyMissed: {}, KindPenaltyOpponentMissed: {},
	KindFreeKickGoal: {}, KindOpponentFreeKickGoal: {}, KindFreeKickMissed: {}, KindOpponentFreeKickMissed: {},
	KindSave: {}, KindOpponentSave: {}, KindMissedShot: {}, KindOpponentMissedShot: {},
	KindShotBlocked: {}, KindOpponentShotBlocked: {}, KindPostHit: {}, KindOpponentPostHit: {},
	KindCrossbarHit: {}, KindOpponentCrossbarHit: {}, KindSubstitution: {}, KindScoreAdjustment: {},
}

func IsValidKind(k Kind) bool {
	_, ok := allKinds[k]
	return ok
}

// ScoringSide reports which tally a kind credits when recorded. Own-goals
// credit the side that did NOT touch the ball last: a Vigontina own-goal
// counts for the opponent and vice versa.
func (k Kind) ScoringSide() Side {
	switch k {
	case KindGoal, KindPenaltyGoal, KindFreeKickGoal, KindOpponentOwnGoal:
		return SideVigontina
	case KindOpponentGoal, KindPenaltyOpponentGoal, KindOpponentFreeKickGoal, KindOwnGoal:
		return SideOpponent
	default:
		return SideNone
	}
}

// IsGoalClass reports whether voiding an event of this kind requires a
// reason. The rule follows the tag text: anything mentioning a goal or a
// penalty is goal-class, including missed penalties.
func (k Kind) IsGoalClass() bool {
	s := string(k)
	return strings.Contains(s, "goal") || strings.Contains(s, "penalty")
}

// IsOpponent reports whether the event describes an opponent action.
func (k Kind) IsOpponent() bool {
	return strings.Contains(string(k), "opponent")
}

// Event is one recorded happening inside a period. A single struct stands in
// for the variant: kinds use the subset of fields that applies to them and
// leave the rest zero.
type Event struct {
	Kind   Kind `json:"type"`
	Minute int  `json:"minute"`

	// Scorer or subject player. Zero for opponent actions, where the roster
	// is unknown. The name is a snapshot taken when the event was recorded;
	// later roster edits must not rewrite history.
	Player     int    `json:"scorer,omitempty"`
	PlayerName string `json:"scorerName,omitempty"`

	Assist     *int   `json:"assist,omitempty"`
	AssistName string `json:"assistName,omitempty"`

	// Substitution fields.
	PlayerOut     int    `json:"playerOut,omitempty"`
	PlayerOutName string `json:"playerOutName,omitempty"`
	PlayerIn      int    `json:"playerIn,omitempty"`
	PlayerInName  string `json:"playerInName,omitempty"`

	// Score-adjustment fields: which tally and by how much (+1 or -1).
	AdjustSide Side `json:"adjustSide,omitempty"`
	Delta      int  `json:"delta,omitempty"`

	// Non-empty marks the event voided: excluded from every aggregate but
	// kept in the chronology for audit display.
	DeletionReason string `json:"deletionReason,omitempty"`
}

// Voided reports whether the event has been soft-deleted.
func (e Event) Voided() bool {
	return e.DeletionReason != ""
}

// ScoreDelta returns the tally side and signed delta this event applies when
// live (not voided). Events that do not touch the score return (SideNone, 0).
func (e Event) ScoreDelta() (Side, int) {
	if e.Kind == KindScoreAdjustment {
		return e.AdjustSide, e.Delta
	}
	if side := e.Kind.ScoringSide(); side != SideNone {
		return side, 1
	}
	return SideNone, 0
}
