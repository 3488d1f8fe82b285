package submission

type ReceivedEvent struct {
	Result Submission
}

type ReviewedEvent struct {
	Result Submission
}

func NewReceivedEvent(s Submission) *ReceivedEvent { return &ReceivedEvent{Result: s} }
func NewReviewedEvent(s Submission) *ReviewedEvent { return &ReviewedEvent{Result: s} }
