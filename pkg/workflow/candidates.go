package workflow

// Candidate is an organization member offered for review.
type Candidate struct {
	Username string
	Ordinal  int
	Selected bool
}

// Candidates is the reviewer selection state. Ordinals run 0..n-1 in the
// order the members were listed and never change.
type Candidates struct {
	items []Candidate
}

// NewCandidates creates an unselected candidate per login.
func NewCandidates(logins []string) *Candidates {
	items := make([]Candidate, len(logins))
	for i, login := range logins {
		items[i] = Candidate{Username: login, Ordinal: i}
	}
	return &Candidates{items: items}
}

// Len returns the number of candidates.
func (c *Candidates) Len() int {
	return len(c.items)
}

// All returns a copy of the candidates in ordinal order.
func (c *Candidates) All() []Candidate {
	out := make([]Candidate, len(c.items))
	copy(out, c.items)
	return out
}

// Toggle flips the selection of the candidate with the given ordinal.
// It reports false, changing nothing, when no candidate has that ordinal.
func (c *Candidates) Toggle(ordinal int) bool {
	if ordinal < 0 || ordinal >= len(c.items) {
		return false
	}
	c.items[ordinal].Selected = !c.items[ordinal].Selected
	return true
}

// Selected returns the usernames of selected candidates in ordinal order.
func (c *Candidates) Selected() []string {
	var out []string
	for _, item := range c.items {
		if item.Selected {
			out = append(out, item.Username)
		}
	}
	return out
}
