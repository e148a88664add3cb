package usecase

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/vigontina/matchtrack/internal/domain/match"
	"github.com/vigontina/matchtrack/internal/domain/share"
	"github.com/vigontina/matchtrack/internal/domain/timer"
	"github.com/vigontina/matchtrack/internal/platform/id"
	"github.com/vigontina/matchtrack/internal/platform/logging"
)

// shareCodeAttempts bounds retries when a drawn join code is already taken.
const shareCodeAttempts = 5

// ShareBroadcaster pushes session changes to connected devices.
type ShareBroadcaster interface {
	SessionUpdated(session share.Session)
	SessionEnded(code string)
}

type nopBroadcaster struct{}

func (nopBroadcaster) SessionUpdated(share.Session) {}
func (nopBroadcaster) SessionEnded(string)          {}

type UpdateShareInput struct {
	Code  string
	Role  share.Role
	Match match.Match
	Clock timer.State
}

// ShareService manages shared match sessions. State updates are last write
// wins: the incoming document replaces the stored one wholesale.
type ShareService struct {
	shareRepo   share.Repository
	matchRepo   match.Repository
	ids         id.Generator
	passphrase  string
	broadcaster ShareBroadcaster
	logger      *logging.Logger
	now         func() time.Time
}

func NewShareService(
	shareRepo share.Repository,
	matchRepo match.Repository,
	ids id.Generator,
	passphrase string,
	logger *logging.Logger,
) *ShareService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ShareService{
		shareRepo:   shareRepo,
		matchRepo:   matchRepo,
		ids:         ids,
		passphrase:  passphrase,
		broadcaster: nopBroadcaster{},
		logger:      logger,
		now:         time.Now,
	}
}

// SetBroadcaster attaches the transport-side fan-out. Wired after
// construction because the hub needs the service for join validation.
func (s *ShareService) SetBroadcaster(b ShareBroadcaster) {
	if b == nil {
		b = nopBroadcaster{}
	}
	s.broadcaster = b
}

// Start publishes a live match under a fresh join code. Only the organizer
// passphrase can open a session.
func (s *ShareService) Start(ctx context.Context, matchID, passphrase string) (share.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "ShareService.Start")
	defer span.End()

	if !s.passphraseMatches(passphrase) {
		return share.Session{}, fmt.Errorf("%w: organizer passphrase mismatch", ErrUnauthorized)
	}

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return share.Session{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	m, clock, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return share.Session{}, fmt.Errorf("get match for sharing: %w", err)
	}
	if !exists {
		return share.Session{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	now := s.now().UTC()
	for attempt := 0; attempt < shareCodeAttempts; attempt++ {
		code, err := s.ids.NewShareCode()
		if err != nil {
			return share.Session{}, fmt.Errorf("generate share code: %w", err)
		}

		session := share.Session{
			Code:      code,
			Match:     m,
			Clock:     clock,
			CreatedAt: now,
			UpdatedAt: now,
		}
		created, err := s.shareRepo.Create(ctx, session)
		if err != nil {
			return share.Session{}, fmt.Errorf("create share session: %w", err)
		}
		if !created {
			continue
		}

		s.logger.InfoContext(ctx, "share session started", "code", code, "match_id", m.ID)
		return session, nil
	}

	return share.Session{}, fmt.Errorf("%w: could not allocate a free share code", ErrConflict)
}

type JoinShareInput struct {
	Code       string
	Role       share.Role
	Passphrase string
	Name       string
}

// Join admits a device to a session and records it on the participant list.
// Write roles require the organizer passphrase; viewers only need the code.
func (s *ShareService) Join(ctx context.Context, input JoinShareInput) (share.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "ShareService.Join")
	defer span.End()

	if !share.IsValidRole(input.Role) {
		return share.Session{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, input.Role)
	}
	if input.Role.CanWrite() && !s.passphraseMatches(input.Passphrase) {
		return share.Session{}, fmt.Errorf("%w: organizer passphrase mismatch", ErrUnauthorized)
	}

	session, err := s.get(ctx, input.Code)
	if err != nil {
		return share.Session{}, err
	}

	session.Participants = append(session.Participants, share.Participant{
		Role:     input.Role,
		Name:     strings.TrimSpace(input.Name),
		JoinedAt: s.now().UTC(),
	})
	if err := s.shareRepo.Update(ctx, session); err != nil {
		return share.Session{}, fmt.Errorf("record share participant: %w", err)
	}

	s.broadcaster.SessionUpdated(session)
	return session, nil
}

// Snapshot returns the current session without registering a participant.
// The websocket feed uses it: the REST join already recorded the device.
func (s *ShareService) Snapshot(ctx context.Context, code string) (share.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "ShareService.Snapshot")
	defer span.End()

	return s.get(ctx, code)
}

// Participants lists the devices that have joined a session.
func (s *ShareService) Participants(ctx context.Context, code string) ([]share.Participant, error) {
	ctx, span := startUsecaseSpan(ctx, "ShareService.Participants")
	defer span.End()

	session, err := s.get(ctx, code)
	if err != nil {
		return nil, err
	}
	return session.Participants, nil
}

// UpdateState replaces the shared document. The caller's role decides
// whether the write is accepted; content is not merged.
func (s *ShareService) UpdateState(ctx context.Context, input UpdateShareInput) (share.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "ShareService.UpdateState")
	defer span.End()

	if !input.Role.CanWrite() {
		return share.Session{}, fmt.Errorf("%w: role %q cannot write", ErrUnauthorized, input.Role)
	}

	session, err := s.get(ctx, input.Code)
	if err != nil {
		return share.Session{}, err
	}

	session.Match = input.Match
	session.Clock = input.Clock
	session.UpdatedAt = s.now().UTC()
	if err := s.shareRepo.Update(ctx, session); err != nil {
		return share.Session{}, fmt.Errorf("update share session: %w", err)
	}

	s.broadcaster.SessionUpdated(session)
	return session, nil
}

// End closes the session for everyone. Organizer only.
func (s *ShareService) End(ctx context.Context, code string, role share.Role) error {
	ctx, span := startUsecaseSpan(ctx, "ShareService.End")
	defer span.End()

	if role != share.RoleOrganizer {
		return fmt.Errorf("%w: only the organizer can end a session", ErrUnauthorized)
	}

	session, err := s.get(ctx, code)
	if err != nil {
		return err
	}
	if err := s.shareRepo.Delete(ctx, session.Code); err != nil {
		return fmt.Errorf("delete share session: %w", err)
	}

	s.logger.InfoContext(ctx, "share session ended", "code", session.Code)
	s.broadcaster.SessionEnded(session.Code)
	return nil
}

func (s *ShareService) get(ctx context.Context, code string) (share.Session, error) {
	code = strings.TrimSpace(code)
	if len(code) != id.ShareCodeDigits {
		return share.Session{}, fmt.Errorf("%w: share code must be %d digits", ErrInvalidInput, id.ShareCodeDigits)
	}

	session, exists, err := s.shareRepo.GetByCode(ctx, code)
	if err != nil {
		return share.Session{}, fmt.Errorf("get share session: %w", err)
	}
	if !exists {
		return share.Session{}, fmt.Errorf("%w: share code=%s", ErrNotFound, code)
	}
	return session, nil
}

func (s *ShareService) passphraseMatches(passphrase string) bool {
	return subtle.ConstantTimeCompare([]byte(passphrase), []byte(s.passphrase)) == 1
}
