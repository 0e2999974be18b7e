package domain

type Status string

const (
	StatusPending    Status = "Pending"
	StatusConfirmed  Status = "Confirmed"
	StatusPreparing  Status = "Preparing"
	StatusReady      Status = "Ready"
	StatusDispatched Status = "Dispatched"
	StatusDelivered  Status = "Delivered"
	StatusRejected   Status = "Rejected"
	StatusRefunded   Status = "Refunded"
)

type Event string

const (
	EventConfirm        Event = "confirm"
	EventReject         Event = "reject"
	EventStartPreparing Event = "start_preparing"
	EventMarkReady      Event = "mark_ready"
	EventDispatch       Event = "dispatch"
	EventDeliver        Event = "deliver"
	EventRefund         Event = "refund"
)

var forward = map[Status]map[Event]Status{
	StatusPending: {
		EventConfirm: StatusConfirmed,
		EventReject:  StatusRejected,
	},
	StatusConfirmed:  {EventStartPreparing: StatusPreparing},
	StatusPreparing:  {EventMarkReady: StatusReady},
	StatusReady:      {EventDispatch: StatusDispatched},
	StatusDispatched: {EventDeliver: StatusDelivered},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusDispatched, StatusDelivered, StatusRejected, StatusRefunded:
		return true
	}
	return false
}

// IsTerminal reports whether no event can move the order any further.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusRefunded
}

// Next resolves the status an event leads to. Refund is accepted from every
// non-terminal status, Delivered included.
func Next(from Status, ev Event) (Status, error) {
	if !from.Valid() || from.IsTerminal() {
		return "", &TransitionError{From: from, Event: ev}
	}
	if ev == EventRefund {
		return StatusRefunded, nil
	}
	if to, ok := forward[from][ev]; ok {
		return to, nil
	}
	return "", &TransitionError{From: from, Event: ev}
}

// EventForAction maps the admin route verbs onto lifecycle events.
func EventForAction(action string) (Event, bool) {
	switch action {
	case "confirm":
		return EventConfirm, true
	case "reject":
		return EventReject, true
	case "preparing":
		return EventStartPreparing, true
	case "ready":
		return EventMarkReady, true
	case "dispatch":
		return EventDispatch, true
	case "deliver":
		return EventDeliver, true
	case "refund":
		return EventRefund, true
	}
	return "", false
}
