package match

import (
	"errors"
	"sort"
	"time"

	"github.com/vigontina/matchtrack/internal/domain/event"
)

const (
	// CompetitionFriendly is matched exactly: friendlies skip the technical
	// trial, every other competition gets all five periods.
	CompetitionFriendly = "Amichevole"

	PeriodTechnicalTrial = "PROVA TECNICA"
	PeriodFirst          = "1° TEMPO"
	PeriodSecond         = "2° TEMPO"
	PeriodThird          = "3° TEMPO"
	PeriodFourth         = "4° TEMPO"

	// LineupSize is the number of on-field players per period in the
	// 9-a-side youth format.
	LineupSize = 9
)

var (
	ErrCaptainNotCalled   = errors.New("captain is in the not-called list")
	ErrUnknownPeriod      = errors.New("unknown period index")
	ErrUnknownEventKind   = errors.New("unknown event kind")
	ErrUnknownPlayer      = errors.New("player is not in the roster")
	ErrPlayerNotCalled    = errors.New("player is in the not-called list")
	ErrLineupSize         = errors.New("lineup must contain exactly 9 players")
	ErrDuplicateInLineup  = errors.New("duplicate player in lineup")
	ErrAssistSameAsScorer = errors.New("assist must reference a different player than the scorer")
	ErrEventNotFound      = errors.New("event index out of range")
	ErrEventAlreadyVoided = errors.New("event is already voided")
	ErrReasonRequired     = errors.New("deleting a goal-class event requires a reason")
	ErrNotInLineup        = errors.New("player is not in the current lineup")
	ErrAlreadyInLineup    = errors.New("player is already in the current lineup")
	ErrTallyUnderflow     = errors.New("tally cannot go below zero")
	ErrInvalidDelta       = errors.New("score adjustment delta must be +1 or -1")
)

// Captain is the designated captain with a denormalized name snapshot.
type Captain struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

// Period is one segment of play. The Goals field name is historical: it holds
// the full append-ordered event log, not only goals.
type Period struct {
	Name      string        `json:"name"`
	Vigontina int           `json:"vigontina"`
	Opponent  int           `json:"opponent"`
	Goals     []event.Event `json:"goals"`
	Lineup    []int         `json:"lineup,omitempty"`
	Completed bool          `json:"completed"`
}

// IsTechnicalTrial reports whether the period is the non-scoring technical
// trial. The name doubles as the predicate, matching the stored documents.
func (p Period) IsTechnicalTrial() bool {
	return p.Name == PeriodTechnicalTrial
}

// Score returns the live tally for one side.
func (p Period) Score(side event.Side) int {
	if side == event.SideOpponent {
		return p.Opponent
	}
	return p.Vigontina
}

// ChecklistItem is one yes/no compliance entry on the federation report form.
type ChecklistItem struct {
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

// ReportDetails is the manually entered federation report metadata. None of
// it affects any derived value; it travels with the match for rendering.
type ReportDetails struct {
	Category      string          `json:"category"`
	Referee       string          `json:"referee,omitempty"`
	HomeManager   string          `json:"homeManager,omitempty"`
	AwayManager   string          `json:"awayManager,omitempty"`
	Checklist     []ChecklistItem `json:"checklist,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	HomeSignature []byte          `json:"homeSignature,omitempty"`
	AwaySignature []byte          `json:"awaySignature,omitempty"`
}

// Match is one fixture with its full period/event state.
type Match struct {
	ID               string         `json:"id"`
	Opponent         string         `json:"opponent"`
	Date             time.Time      `json:"date"`
	IsHome           bool           `json:"isHome"`
	Competition      string         `json:"competition"`
	MatchDay         *int           `json:"matchDay,omitempty"`
	Coach            string         `json:"coach,omitempty"`
	AssistantReferee string         `json:"assistantReferee,omitempty"`
	TeamManager      string         `json:"teamManager,omitempty"`
	Captain          *Captain       `json:"captain,omitempty"`
	NotCalled        []int          `json:"notCalled,omitempty"`
	Roster           map[int]string `json:"roster,omitempty"`
	Periods          []Period       `json:"periods"`
	Report           *ReportDetails `json:"report,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
}

// SetReport replaces the federation report metadata wholesale. The form is
// edited as one document on the client, so partial merges would only invite
// stale fields.
func (m *Match) SetReport(details ReportDetails) {
	cp := cloneReport(&details)
	m.Report = cp
}

// CreateInput carries the user-supplied metadata for a new match. Required
// field presence (opponent, date) is a caller obligation checked at the
// service boundary, not here.
type CreateInput struct {
	ID               string
	Opponent         string
	Date             time.Time
	IsHome           bool
	Competition      string
	MatchDay         *int
	Coach            string
	AssistantReferee string
	TeamManager      string
	Captain          *Captain
	NotCalled        []int
	Roster           map[int]string
	CreatedAt        time.Time
}

// New builds a match with its fixed period sequence. Friendlies get the four
// timed periods, everything else starts with the technical trial. The only
// constraint enforced here is that the captain is not excluded from the call.
func New(in CreateInput) (Match, error) {
	if in.Captain != nil && containsNumber(in.NotCalled, in.Captain.Number) {
		return Match{}, ErrCaptainNotCalled
	}

	names := []string{PeriodTechnicalTrial, PeriodFirst, PeriodSecond, PeriodThird, PeriodFourth}
	if in.Competition == CompetitionFriendly {
		names = names[1:]
	}

	periods := make([]Period, 0, len(names))
	for _, name := range names {
		periods = append(periods, Period{Name: name, Goals: []event.Event{}})
	}

	roster := make(map[int]string, len(in.Roster))
	for number, name := range in.Roster {
		roster[number] = name
	}

	return Match{
		ID:               in.ID,
		Opponent:         in.Opponent,
		Date:             in.Date,
		IsHome:           in.IsHome,
		Competition:      in.Competition,
		MatchDay:         in.MatchDay,
		Coach:            in.Coach,
		AssistantReferee: in.AssistantReferee,
		TeamManager:      in.TeamManager,
		Captain:          cloneCaptain(in.Captain),
		NotCalled:        normalizeNumbers(in.NotCalled),
		Roster:           roster,
		Periods:          periods,
		CreatedAt:        in.CreatedAt,
	}, nil
}

// PlayerName resolves a roster number to its current name. Events keep their
// own snapshots; this is only consulted when a new event is recorded.
func (m *Match) PlayerName(number int) (string, bool) {
	name, ok := m.Roster[number]
	return name, ok
}

// IsNotCalled reports whether the player was excluded from the match call.
func (m *Match) IsNotCalled(number int) bool {
	return containsNumber(m.NotCalled, number)
}

// Clone returns a deep copy safe to hand across goroutine boundaries.
func (m Match) Clone() Match {
	out := m
	out.MatchDay = cloneIntPtr(m.MatchDay)
	out.Captain = cloneCaptain(m.Captain)
	out.NotCalled = append([]int(nil), m.NotCalled...)
	out.Roster = make(map[int]string, len(m.Roster))
	for number, name := range m.Roster {
		out.Roster[number] = name
	}
	out.Periods = make([]Period, len(m.Periods))
	for i, p := range m.Periods {
		cp := p
		cp.Goals = make([]event.Event, len(p.Goals))
		for j, ev := range p.Goals {
			cp.Goals[j] = cloneEvent(ev)
		}
		cp.Lineup = append([]int(nil), p.Lineup...)
		out.Periods[i] = cp
	}
	out.Report = cloneReport(m.Report)
	return out
}

func cloneReport(r *ReportDetails) *ReportDetails {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Checklist = append([]ChecklistItem(nil), r.Checklist...)
	cp.HomeSignature = append([]byte(nil), r.HomeSignature...)
	cp.AwaySignature = append([]byte(nil), r.AwaySignature...)
	return &cp
}

func cloneEvent(ev event.Event) event.Event {
	out := ev
	out.Assist = cloneIntPtr(ev.Assist)
	return out
}

func cloneCaptain(c *Captain) *Captain {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

func cloneIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

func normalizeNumbers(numbers []int) []int {
	seen := make(map[int]struct{}, len(numbers))
	out := make([]int, 0, len(numbers))
	for _, n := range numbers {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

func containsNumber(numbers []int, n int) bool {
	for _, v := range numbers {
		if v == n {
			return true
		}
	}
	return false
}
