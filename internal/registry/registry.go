// Package registry keeps the table of destination chats the bot may copy
// messages into. The table lives in a small CSV file that is read in full for
// every command and rewritten in full after every change.
package registry

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrExists is returned by Add when the destination id is already registered.
	ErrExists = errors.New("destination already registered")
	// ErrNameTaken is returned by Add when another id uses the same name, ignoring case.
	ErrNameTaken = errors.New("destination name already in use")
)

// Entry is one registered destination chat.
type Entry struct {
	ID   int64
	Name string
}

// Registry is the in-memory form of the registry file. The zero value is empty
// and ready to use.
type Registry struct {
	names map[int64]string
}

// New returns a registry holding the given entries. Later duplicates of an id win.
func New(entries ...Entry) *Registry {
	r := &Registry{names: make(map[int64]string, len(entries))}
	for _, e := range entries {
		r.names[e.ID] = e.Name
	}
	return r
}

// Len returns the number of registered destinations.
func (r *Registry) Len() int {
	return len(r.names)
}

// Get returns the display name registered for id.
func (r *Registry) Get(id int64) (string, bool) {
	name, ok := r.names[id]
	return name, ok
}

// Add registers a destination. It never overwrites an existing id and refuses a
// name that another id already uses when compared case-insensitively.
func (r *Registry) Add(id int64, name string) error {
	if _, ok := r.names[id]; ok {
		return ErrExists
	}
	if owner, ok := r.NameIndex()[strings.ToLower(name)]; ok && owner != id {
		return ErrNameTaken
	}
	if r.names == nil {
		r.names = make(map[int64]string)
	}
	r.names[id] = name
	return nil
}

// Remove deletes id and returns the name it had.
func (r *Registry) Remove(id int64) (string, bool) {
	name, ok := r.names[id]
	if ok {
		delete(r.names, id)
	}
	return name, ok
}

// Entries returns all destinations in ascending id order.
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, 0, len(r.names))
	for id, name := range r.names {
		entries = append(entries, Entry{ID: id, Name: name})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}

// IDs returns all destination ids in ascending order.
func (r *Registry) IDs() []int64 {
	entries := r.Entries()
	ids := make([]int64, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

// NameIndex maps lower-cased display names to ids. Entries are visited in
// ascending id order, so when two names collide ignoring case the larger id wins.
func (r *Registry) NameIndex() map[string]int64 {
	index := make(map[string]int64, len(r.names))
	for _, e := range r.Entries() {
		index[strings.ToLower(e.Name)] = e.ID
	}
	return index
}

// Resolve splits a comma separated list of names and looks each one up
// ignoring case and surrounding whitespace. Blank tokens are dropped. Resolved
// entries keep the order they were asked for; a name listed twice resolves once.
// Unresolved tokens are returned trimmed but with their original case.
func (r *Registry) Resolve(list string) (resolved []Entry, unresolved []string) {
	index := r.NameIndex()
	seen := make(map[int64]bool)

	for _, token := range strings.Split(list, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		id, ok := index[strings.ToLower(token)]
		if !ok {
			unresolved = append(unresolved, token)
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		resolved = append(resolved, Entry{ID: id, Name: r.names[id]})
	}

	return resolved, unresolved
}
