package matches

import (
	"fmt"

	"jobmatch-backend/internal/shared/apperr"
)

// Rejection reasons, used as the match_rejections_total label.
const (
	ReasonActiveExists    = "active_exists"
	ReasonNoOwnership     = "no_ownership"
	ReasonSelfMatch       = "self_match"
	ReasonNotParticipant  = "not_participant"
	ReasonPendingExplicit = "pending_explicit"
	ReasonNotReceiver     = "not_receiver"
	ReasonNotSender       = "not_sender"
	ReasonTerminal        = "terminal"
)

// Violation is a request refused by the match rules. It unwraps to the
// *apperr.Error the caller sees.
type Violation struct {
	Reason string
	err    error
}

func (v *Violation) Error() string { return v.err.Error() }
func (v *Violation) Unwrap() error { return v.err }

func violation(reason string, err error) error {
	return &Violation{Reason: reason, err: err}
}

// CheckParty rejects callers that are neither sender nor receiver.
func CheckParty(m Match, actorID string) error {
	if !m.IsParty(actorID) {
		return violation(ReasonNotParticipant, apperr.Forbidden(msgNotParticipant))
	}
	return nil
}

// CheckTransition applies the status rules in a fixed order so the first
// failing rule decides the message. actorID must already be a party.
func CheckTransition(m Match, actorID string, next Status) error {
	switch {
	case next == StatusPending:
		return violation(ReasonPendingExplicit, apperr.Validation(msgPendingExplicit))
	case (next == StatusAccepted || next == StatusRejected) && actorID != m.ReceiverID:
		return violation(ReasonNotReceiver, apperr.Validation(msgReceiverOnly))
	case next == StatusCanceled && actorID != m.SenderID:
		return violation(ReasonNotSender, apperr.Validation(msgSenderOnly))
	case m.Status.Terminal():
		return violation(ReasonTerminal, apperr.Validation(fmt.Sprintf("Match is already %s and cannot be changed", m.Status)))
	}
	return nil
}
