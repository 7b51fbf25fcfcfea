package export

import (
	"golang.org/x/mobile/event/key"
)

// Resolver picks the destination of a save shortcut from the modifiers held
// when it was pressed.
type Resolver struct {
	byMods map[key.Modifiers]Destination
}

// NewResolver returns a resolver with a plain save going to a file.
func NewResolver() *Resolver {
	return &Resolver{byMods: map[key.Modifiers]Destination{
		0:            DestinationFile,
		key.ModShift: DestinationClipboard,
	}}
}

// Bind overrides the destination for a modifier combination.
func (r *Resolver) Bind(mods key.Modifiers, d Destination) {
	r.byMods[mods] = d
}

// Resolve returns the destination bound to mods. Unbound combinations fall
// back to the plain-save destination.
func (r *Resolver) Resolve(mods key.Modifiers) Destination {
	if d, ok := r.byMods[mods]; ok {
		return d
	}
	return r.byMods[0]
}
