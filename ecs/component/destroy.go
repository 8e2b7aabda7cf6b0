package component

// Destroy marks an entity for removal at the end of the update phase.
type Destroy struct{}

var DestroyComponent = NewComponent[Destroy]()
