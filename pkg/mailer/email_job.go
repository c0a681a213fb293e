package mailer

// Notification types understood by the email worker.
const (
	Welcome          = "welcome"
	FriendAdded      = "friend_added"
	WatchPartyInvite = "watchparty_invite"
)

// Job is the JSON payload put on the RabbitMQ queue for sending email.
// Data carries the template fields for Type.
type Job struct {
	Type string         `json:"type"`
	To   string         `json:"to"`
	Data map[string]any `json:"data,omitempty"`
}
