package component

// Script names a tengo script run against the entity every tick.
type Script struct {
	Name string
}

var ScriptComponent = NewComponent[Script]()
