package village

type CreatedEvent struct {
	Result Village
}

type DeletedEvent struct {
	Result Village
}

func NewCreatedEvent(v Village) *CreatedEvent {
	return &CreatedEvent{Result: v}
}

func NewDeletedEvent(v Village) *DeletedEvent {
	return &DeletedEvent{Result: v}
}
