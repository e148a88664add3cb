package match

import (
	"fmt"

	"github.com/vigontina/matchtrack/internal/domain/event"
)

// The mutation operations below are all-or-nothing: every check runs before
// the first write, so a validation failure leaves the match untouched.

// SetLineup assigns the nine on-field players for a period. Any other
// cardinality is rejected and the previous lineup is kept. The technical
// trial accepts a lineup too, it just never requires one.
func (m *Match) SetLineup(periodIdx int, players []int) error {
	p, err := m.periodAt(periodIdx)
	if err != nil {
		return err
	}
	if len(players) != LineupSize {
		return fmt.Errorf("%w: got %d", ErrLineupSize, len(players))
	}

	seen := make(map[int]struct{}, len(players))
	for _, number := range players {
		if _, ok := seen[number]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateInLineup, number)
		}
		seen[number] = struct{}{}
		if _, ok := m.Roster[number]; !ok {
			return fmt.Errorf("%w: %d", ErrUnknownPlayer, number)
		}
		if m.IsNotCalled(number) {
			return fmt.Errorf("%w: %d", ErrPlayerNotCalled, number)
		}
	}

	p.Lineup = append([]int(nil), players...)
	return nil
}

// RecordEvent validates and appends a scoring or shot event, updating the
// matching tally in the same step. Substitutions and score adjustments have
// their own operations.
func (m *Match) RecordEvent(periodIdx int, ev event.Event) error {
	p, err := m.periodAt(periodIdx)
	if err != nil {
		return err
	}
	if !event.IsValidKind(ev.Kind) {
		return fmt.Errorf("%w: %q", ErrUnknownEventKind, ev.Kind)
	}
	if ev.Kind == event.KindSubstitution || ev.Kind == event.KindScoreAdjustment {
		return fmt.Errorf("%w: %q is not recordable directly", ErrUnknownEventKind, ev.Kind)
	}
	if ev.Minute < 0 {
		ev.Minute = 0
	}
	ev.DeletionReason = ""
	ev.AdjustSide = event.SideNone
	ev.Delta = 0

	// Vigontina actions carry a roster player; opponent actions do not.
	// A Vigontina own-goal still names one of ours even though it counts
	// for them.
	if !ev.Kind.IsOpponent() {
		name, ok := m.Roster[ev.Player]
		if !ok {
			return fmt.Errorf("%w: %d", ErrUnknownPlayer, ev.Player)
		}
		if m.IsNotCalled(ev.Player) {
			return fmt.Errorf("%w: %d", ErrPlayerNotCalled, ev.Player)
		}
		if ev.PlayerName == "" {
			ev.PlayerName = name
		}
	}

	if ev.Assist != nil {
		if *ev.Assist == ev.Player {
			return ErrAssistSameAsScorer
		}
		assistName, ok := m.Roster[*ev.Assist]
		if !ok {
			return fmt.Errorf("%w: assist %d", ErrUnknownPlayer, *ev.Assist)
		}
		if m.IsNotCalled(*ev.Assist) {
			return fmt.Errorf("%w: assist %d", ErrPlayerNotCalled, *ev.Assist)
		}
		if ev.AssistName == "" {
			ev.AssistName = assistName
		}
	}

	p.Goals = append(p.Goals, ev)
	applyDelta(p, ev)
	return nil
}

// VoidEvent soft-deletes an event: the record stays in the chronology with
// the reason attached, and its score contribution is reversed so an
// add-then-void pair restores the tallies exactly. Goal-class events demand
// a non-empty reason; for the rest it is optional.
func (m *Match) VoidEvent(periodIdx, eventIdx int, reason string) error {
	p, err := m.periodAt(periodIdx)
	if err != nil {
		return err
	}
	if eventIdx < 0 || eventIdx >= len(p.Goals) {
		return fmt.Errorf("%w: %d", ErrEventNotFound, eventIdx)
	}
	ev := p.Goals[eventIdx]
	if ev.Voided() {
		return ErrEventAlreadyVoided
	}
	if ev.Kind.IsGoalClass() && reason == "" {
		return ErrReasonRequired
	}
	if reason == "" {
		reason = "-"
	}

	if side, delta := ev.ScoreDelta(); delta != 0 {
		if p.Score(side)-delta < 0 {
			return ErrTallyUnderflow
		}
		addToSide(p, side, -delta)
	}
	p.Goals[eventIdx].DeletionReason = reason
	return nil
}

// RemoveLastScoringEventFor hard-deletes the most recent live scoring event
// attributed to the given player anywhere in the match. Used as the
// undo-last-goal shortcut; the tally is decremented but never driven below
// zero.
func (m *Match) RemoveLastScoringEventFor(player int) error {
	for pi := len(m.Periods) - 1; pi >= 0; pi-- {
		p := &m.Periods[pi]
		for ei := len(p.Goals) - 1; ei >= 0; ei-- {
			ev := p.Goals[ei]
			if ev.Voided() || ev.Player != player {
				continue
			}
			side, delta := ev.ScoreDelta()
			if delta == 0 {
				continue
			}
			if p.Score(side)-delta >= 0 {
				addToSide(p, side, -delta)
			}
			p.Goals = append(p.Goals[:ei], p.Goals[ei+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: no scoring event for player %d", ErrEventNotFound, player)
}

// AddSubstitution swaps an on-field player for an eligible bench player and
// logs the event. Tallies are untouched.
func (m *Match) AddSubstitution(periodIdx, out, in, minute int) error {
	p, err := m.periodAt(periodIdx)
	if err != nil {
		return err
	}
	inName, ok := m.Roster[in]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownPlayer, in)
	}
	if m.IsNotCalled(in) {
		return fmt.Errorf("%w: %d", ErrPlayerNotCalled, in)
	}
	if containsNumber(p.Lineup, in) {
		return fmt.Errorf("%w: %d", ErrAlreadyInLineup, in)
	}
	outPos := -1
	for i, number := range p.Lineup {
		if number == out {
			outPos = i
			break
		}
	}
	if outPos < 0 {
		return fmt.Errorf("%w: %d", ErrNotInLineup, out)
	}
	if minute < 0 {
		minute = 0
	}

	p.Lineup[outPos] = in
	p.Goals = append(p.Goals, event.Event{
		Kind:          event.KindSubstitution,
		Minute:        minute,
		PlayerOut:     out,
		PlayerOutName: m.Roster[out],
		PlayerIn:      in,
		PlayerInName:  inName,
	})
	return nil
}

// AdjustScore applies a manual ±1 override to one tally. Rather than
// mutating the tally silently it records a synthetic adjustment event, so
// the tally always equals the signed sum of live events and the override
// stays visible in the audit trail.
func (m *Match) AdjustScore(periodIdx int, side event.Side, delta int) error {
	p, err := m.periodAt(periodIdx)
	if err != nil {
		return err
	}
	if delta != 1 && delta != -1 {
		return fmt.Errorf("%w: %d", ErrInvalidDelta, delta)
	}
	if side != event.SideVigontina && side != event.SideOpponent {
		return fmt.Errorf("%w: adjustment needs a side", ErrInvalidDelta)
	}
	if p.Score(side)+delta < 0 {
		return ErrTallyUnderflow
	}

	p.Goals = append(p.Goals, event.Event{
		Kind:       event.KindScoreAdjustment,
		AdjustSide: side,
		Delta:      delta,
	})
	addToSide(p, side, delta)
	return nil
}

// FinishPeriod marks a period completed. The flag gates the UI; it does not
// freeze the period, which stays editable through the explicit edit mode.
func (m *Match) FinishPeriod(periodIdx int) error {
	p, err := m.periodAt(periodIdx)
	if err != nil {
		return err
	}
	p.Completed = true
	return nil
}

// ReopenPeriod clears the completed flag for edit mode.
func (m *Match) ReopenPeriod(periodIdx int) error {
	p, err := m.periodAt(periodIdx)
	if err != nil {
		return err
	}
	p.Completed = false
	return nil
}

func (m *Match) periodAt(idx int) (*Period, error) {
	if idx < 0 || idx >= len(m.Periods) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPeriod, idx)
	}
	return &m.Periods[idx], nil
}

func applyDelta(p *Period, ev event.Event) {
	if side, delta := ev.ScoreDelta(); delta != 0 {
		addToSide(p, side, delta)
	}
}

func addToSide(p *Period, side event.Side, delta int) {
	if side == event.SideOpponent {
		p.Opponent += delta
		return
	}
	p.Vigontina += delta
}
