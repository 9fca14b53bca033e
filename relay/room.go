package relay

import "sort"

// room is a named set of clients with small integer identities
// Guarded by Server.mu
type room struct {
	name        string
	clients     map[int]*client
	subscribers map[int]struct{}
}

func newRoom(name string) *room {
	return &room{
		name:        name,
		clients:     make(map[int]*client),
		subscribers: make(map[int]struct{}),
	}
}

// add assigns the smallest free identity
func (r *room) add(c *client) int {
	id := 0
	for {
		if _, taken := r.clients[id]; !taken {
			break
		}
		id++
	}
	r.clients[id] = c
	return id
}

func (r *room) remove(id int) {
	delete(r.clients, id)
	delete(r.subscribers, id)
}

func (r *room) count() int {
	return len(r.clients)
}

// ids returns member identities in ascending order
func (r *room) ids() []int {
	out := make([]int, 0, len(r.clients))
	for id := range r.clients {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
