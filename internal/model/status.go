package model

// Application statuses accepted by the store.
const (
	StatusApplied            = "Applied"
	StatusInterviewScheduled = "Interview Scheduled"
	StatusInterviewCompleted = "Interview Completed"
	StatusOfferReceived      = "Offer Received"
	StatusRejected           = "Rejected"
	StatusWithdrawn          = "Withdrawn"
)

// DefaultStatus is assigned when a new application omits the status field.
const DefaultStatus = StatusApplied

var statusVocabulary = map[string]struct{}{
	StatusApplied:            {},
	StatusInterviewScheduled: {},
	StatusInterviewCompleted: {},
	StatusOfferReceived:      {},
	StatusRejected:           {},
	StatusWithdrawn:          {},
}

// ValidStatus reports whether s belongs to the fixed status vocabulary.
func ValidStatus(s string) bool {
	_, ok := statusVocabulary[s]
	return ok
}
