package services

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// ChangedEvent is published after the API confirmed a mutation.
type ChangedEvent struct {
	Resource string
	Action   Action
	Key      string
}
