package district

type CreatedEvent struct {
	Result District
}

type UpdatedEvent struct {
	Result District
}

type DeletedEvent struct {
	Result District
}

func NewCreatedEvent(d District) *CreatedEvent { return &CreatedEvent{Result: d} }
func NewUpdatedEvent(d District) *UpdatedEvent { return &UpdatedEvent{Result: d} }
func NewDeletedEvent(d District) *DeletedEvent { return &DeletedEvent{Result: d} }
