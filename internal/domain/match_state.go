package domain

// Player holds the per-session record of a participant.
// Player is a value; updates go through PlayersMap copies.
type Player struct {
	ID    string
	Name  string
	Color string
	Body  Body

	LastSwingTime int64 // ms since epoch
	Strokes       int
	Scored        bool
	ScoreTime     int64 // elapsed ms into the round when the ball came to rest in the cup
	Points        int
}

// PlayersMap is an immutable id -> Player mapping that remembers insertion order.
// Every mutator returns a new map; the receiver is left untouched so snapshots
// taken before a dispatch keep their values.
type PlayersMap struct {
	ids  []string
	byID map[string]Player
}

// NewPlayersMap builds a map from players in the given order.
func NewPlayersMap(players ...Player) PlayersMap {
	m := PlayersMap{
		ids:  make([]string, 0, len(players)),
		byID: make(map[string]Player, len(players)),
	}
	for _, p := range players {
		if _, ok := m.byID[p.ID]; !ok {
			m.ids = append(m.ids, p.ID)
		}
		m.byID[p.ID] = p
	}
	return m
}

// Len returns the number of players.
func (m PlayersMap) Len() int {
	return len(m.ids)
}

// Get looks up a player by id.
func (m PlayersMap) Get(id string) (Player, bool) {
	p, ok := m.byID[id]
	return p, ok
}

// Has reports whether id is present.
func (m PlayersMap) Has(id string) bool {
	_, ok := m.byID[id]
	return ok
}

// Index returns the insertion position of id, or -1.
func (m PlayersMap) Index(id string) int {
	for i, pid := range m.ids {
		if pid == id {
			return i
		}
	}
	return -1
}

// IDs returns player ids in insertion order.
func (m PlayersMap) IDs() []string {
	return append([]string(nil), m.ids...)
}

// Values returns players in insertion order.
func (m PlayersMap) Values() []Player {
	out := make([]Player, 0, len(m.ids))
	for _, id := range m.ids {
		out = append(out, m.byID[id])
	}
	return out
}

// Each calls fn for every player in insertion order.
func (m PlayersMap) Each(fn func(Player)) {
	for _, id := range m.ids {
		fn(m.byID[id])
	}
}

// Count returns the number of players matching pred.
func (m PlayersMap) Count(pred func(Player) bool) int {
	n := 0
	for _, id := range m.ids {
		if pred(m.byID[id]) {
			n++
		}
	}
	return n
}

// With returns a copy containing p. An existing player keeps its position.
func (m PlayersMap) With(p Player) PlayersMap {
	out := m.clone()
	if _, ok := out.byID[p.ID]; !ok {
		out.ids = append(out.ids, p.ID)
	}
	out.byID[p.ID] = p
	return out
}

// Without returns a copy with id removed.
func (m PlayersMap) Without(id string) PlayersMap {
	if !m.Has(id) {
		return m
	}
	out := PlayersMap{
		ids:  make([]string, 0, len(m.ids)),
		byID: make(map[string]Player, len(m.byID)),
	}
	for _, pid := range m.ids {
		if pid == id {
			continue
		}
		out.ids = append(out.ids, pid)
		out.byID[pid] = m.byID[pid]
	}
	return out
}

// Update returns a copy where player id is replaced by fn(player).
// The map is returned unchanged when id is absent.
func (m PlayersMap) Update(id string, fn func(Player) Player) PlayersMap {
	p, ok := m.byID[id]
	if !ok {
		return m
	}
	out := m.clone()
	out.byID[id] = fn(p)
	return out
}

// Map returns a copy with fn applied to every player.
func (m PlayersMap) Map(fn func(Player) Player) PlayersMap {
	out := m.clone()
	for _, id := range out.ids {
		out.byID[id] = fn(out.byID[id])
	}
	return out
}

func (m PlayersMap) clone() PlayersMap {
	out := PlayersMap{
		ids:  append(make([]string, 0, len(m.ids)+1), m.ids...),
		byID: make(map[string]Player, len(m.byID)+1),
	}
	for id, p := range m.byID {
		out.byID[id] = p
	}
	return out
}
