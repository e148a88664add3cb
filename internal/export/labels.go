package export

import (
	"fmt"

	"github.com/vigontina/matchtrack/internal/domain/event"
)

// eventLabel renders an event kind for human eyes, in the club's language.
func eventLabel(ev event.Event) string {
	switch ev.Kind {
	case event.KindGoal:
		return "Gol"
	case event.KindOpponentGoal:
		return "Gol avversario"
	case event.KindOwnGoal:
		return "Autogol"
	case event.KindOpponentOwnGoal:
		return "Autogol avversario"
	case event.KindPenaltyGoal:
		return "Rigore segnato"
	case event.KindPenaltyOpponentGoal:
		return "Rigore avversario segnato"
	case event.KindPenaltyMissed:
		return "Rigore sbagliato"
	case event.KindPenaltyOpponentMissed:
		return "Rigore avversario sbagliato"
	case event.KindFreeKickGoal:
		return "Punizione segnata"
	case event.KindOpponentFreeKickGoal:
		return "Punizione avversaria segnata"
	case event.KindFreeKickMissed:
		return "Punizione sbagliata"
	case event.KindOpponentFreeKickMissed:
		return "Punizione avversaria sbagliata"
	case event.KindSave:
		return "Parata"
	case event.KindOpponentSave:
		return "Parata avversaria"
	case event.KindMissedShot:
		return "Tiro fuori"
	case event.KindOpponentMissedShot:
		return "Tiro fuori avversario"
	case event.KindShotBlocked:
		return "Tiro parato"
	case event.KindOpponentShotBlocked:
		return "Tiro parato avversario"
	case event.KindPostHit:
		return "Palo"
	case event.KindOpponentPostHit:
		return "Palo avversario"
	case event.KindCrossbarHit:
		return "Traversa"
	case event.KindOpponentCrossbarHit:
		return "Traversa avversaria"
	case event.KindSubstitution:
		return "Sostituzione"
	case event.KindScoreAdjustment:
		if ev.Delta > 0 {
			return "Correzione punteggio +1"
		}
		return "Correzione punteggio -1"
	default:
		return string(ev.Kind)
	}
}

func scoreline(vigontina, opponent int, isHome bool) string {
	if isHome {
		return fmt.Sprintf("%d - %d", vigontina, opponent)
	}
	return fmt.Sprintf("%d - %d", opponent, vigontina)
}
