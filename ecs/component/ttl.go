package component

// TTL is a tick-based time-to-live. The TTL system counts it down once per
// update and marks the entity with Destroy when it reaches zero.
type TTL struct {
	Ticks int
}

var TTLComponent = NewComponent[TTL]()
