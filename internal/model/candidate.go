package model

// OwnerCandidate is a deduplicated identity accumulated from one or more
// signals during a single resolution run. Name is the normalized canonical
// spelling and is unique within a run.
type OwnerCandidate struct {
	Name           string        `json:"name"`
	Confidence     int           `json:"confidence"`
	Signals        []Signal      `json:"signals"`
	ContactInfo    []ContactInfo `json:"contact_info,omitempty"`
	IsEntity       bool          `json:"is_entity"`
	LinkedEntities []string      `json:"linked_entities,omitempty"`
	Recommendation string        `json:"recommendation,omitempty"`
}

// HasContact reports whether the exact contact value is already recorded.
func (c *OwnerCandidate) HasContact(value string) bool {
	for _, ci := range c.ContactInfo {
		if ci.Value == value {
			return true
		}
	}
	return false
}

// AddContact appends the contact unless its value is already present.
// Returns true if the contact was added.
func (c *OwnerCandidate) AddContact(ci ContactInfo) bool {
	if ci.Value == "" || c.HasContact(ci.Value) {
		return false
	}
	c.ContactInfo = append(c.ContactInfo, ci)
	return true
}

// HasLink reports whether name is already in LinkedEntities.
func (c *OwnerCandidate) HasLink(name string) bool {
	for _, n := range c.LinkedEntities {
		if n == name {
			return true
		}
	}
	return false
}

// AddLink appends name to LinkedEntities if not already present.
func (c *OwnerCandidate) AddLink(name string) {
	if !c.HasLink(name) {
		c.LinkedEntities = append(c.LinkedEntities, name)
	}
}

// HasSource reports whether any signal came from the given source.
func (c *OwnerCandidate) HasSource(s Source) bool {
	for _, sig := range c.Signals {
		if sig.Source == s {
			return true
		}
	}
	return false
}

// DistinctSources counts the distinct signal sources on the candidate.
func (c *OwnerCandidate) DistinctSources() int {
	seen := make(map[Source]bool, len(c.Signals))
	for _, sig := range c.Signals {
		seen[sig.Source] = true
	}
	return len(seen)
}
