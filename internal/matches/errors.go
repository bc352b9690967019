package matches

import "errors"

var (
	ErrNotFound = errors.New("match not found")
	// ErrActiveExists means a non-canceled match already holds the (resume, vacancy) pair.
	ErrActiveExists = errors.New("active match exists for pair")
	// ErrStatusChanged means the stored status no longer equals the expected one.
	ErrStatusChanged = errors.New("match status changed")
	// ErrReferenceGone means a referenced row was deleted before the insert landed.
	ErrReferenceGone = errors.New("match references a missing resume or vacancy")
)

const (
	msgActiveExists     = "Match with the given vacancyId and resumeId already exist and is not cancelled"
	msgNoOwnership      = "user hasn't vacancy nor resume. not found"
	msgSelfMatch        = "Cannot match a resume and a vacancy owned by the same user"
	msgNotParticipant   = "User is not part of this match"
	msgPendingExplicit  = "The status 'PENDING' cannot be set explicitly"
	msgReceiverOnly     = "Only the receiver can accept or reject the match"
	msgSenderOnly       = "Only the sender can cancel the match"
	msgConcurrentChange = "Match status was changed concurrently"
	msgReferenceGone    = "Resume or vacancy not found"
)
