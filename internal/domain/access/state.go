package access

type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateBlocked         State = "blocked"
	StateSuspended       State = "suspended"
	StateNoActivePlan    State = "authenticated"
	StateSubscribed      State = "subscribed"
)
