package events

// KindTurnCancelled identifies cancellation of the in-flight assistant turn.
const KindTurnCancelled Kind = "turn_state.cancelled"

// TurnCancelled reports that the current assistant turn was cancelled before
// completing. No further response or speech events follow for that turn.
type TurnCancelled struct{ Base }

func NewTurnCancelled() TurnCancelled {
	return TurnCancelled{Base: NewBase(KindTurnCancelled)}
}
