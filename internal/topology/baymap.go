package topology

// BayMap records which bay each entity belongs to. An entity belongs to at
// most one bay. Membership is administrative and adds no graph edges.
type BayMap struct {
	bayOf   map[string]string
	members map[string][]string
	order   []string
}

// NewBayMap creates an empty BayMap.
func NewBayMap() *BayMap {
	return &BayMap{
		bayOf:   make(map[string]string),
		members: make(map[string][]string),
	}
}

// Assign records objectID as a member of bayID. It returns the bay the
// object already belonged to and false if that bay differs; assigning the
// same pair again is a no-op that returns true.
func (m *BayMap) Assign(bayID, objectID string) (string, bool) {
	if current, ok := m.bayOf[objectID]; ok {
		return current, current == bayID
	}
	if _, known := m.members[bayID]; !known {
		m.order = append(m.order, bayID)
	}
	m.bayOf[objectID] = bayID
	m.members[bayID] = append(m.members[bayID], objectID)
	return bayID, true
}

// BayOf returns the bay objectID belongs to.
func (m *BayMap) BayOf(objectID string) (string, bool) {
	bay, ok := m.bayOf[objectID]
	return bay, ok
}

// Members returns the members of bayID in assignment order.
func (m *BayMap) Members(bayID string) []string {
	out := make([]string, len(m.members[bayID]))
	copy(out, m.members[bayID])
	return out
}

// Bays returns the bays with at least one member, in order of their first
// assignment.
func (m *BayMap) Bays() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Len returns the number of assigned objects.
func (m *BayMap) Len() int {
	return len(m.bayOf)
}
