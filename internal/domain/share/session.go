// Package share models live match sharing: an organizer publishes a match
// under a short numeric code and other devices join it by role.
package share

import (
	"time"

	"github.com/vigontina/matchtrack/internal/domain/match"
	"github.com/vigontina/matchtrack/internal/domain/timer"
)

// Role is the capability level granted to a joined device.
type Role string

const (
	// RoleOrganizer created the session and may write and end it.
	RoleOrganizer Role = "organizer"
	// RoleCollaborator may write match state but not end the session.
	RoleCollaborator Role = "collaborator"
	// RoleViewer receives updates only.
	RoleViewer Role = "viewer"
)

func IsValidRole(r Role) bool {
	switch r {
	case RoleOrganizer, RoleCollaborator, RoleViewer:
		return true
	default:
		return false
	}
}

// CanWrite reports whether the role may replace the shared state.
func (r Role) CanWrite() bool {
	return r == RoleOrganizer || r == RoleCollaborator
}

// Participant is one admitted device. The list is append-only for the
// session's lifetime; there is no leave protocol, closing the app is it.
type Participant struct {
	Role     Role      `json:"role"`
	Name     string    `json:"name,omitempty"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Session is one shared match. Updates replace Match and Clock wholesale;
// the newest write wins and UpdatedAt records it.
type Session struct {
	Code         string        `json:"code"`
	Match        match.Match   `json:"match"`
	Clock        timer.State   `json:"clock"`
	Participants []Participant `json:"participants,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}
