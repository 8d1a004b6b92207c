package entities

// RelationType defines the kind of edge between two people.
type RelationType string

const (
	RelationParentChild      RelationType = "parent-child"
	RelationParentChildInLaw RelationType = "parent-child-in-law"
	RelationParentChildAdopt RelationType = "parent-child-adopt"
	RelationSpouse           RelationType = "spouse"
)

// IsParentChild reports whether t is one of the three parent-child variants.
func (t RelationType) IsParentChild() bool {
	switch t {
	case RelationParentChild, RelationParentChildInLaw, RelationParentChildAdopt:
		return true
	}
	return false
}

// IsValid reports whether t is a known relation type.
func (t RelationType) IsValid() bool {
	return t.IsParentChild() || t == RelationSpouse
}

// Subtype returns the parent-child subtype for t, or "" for spouse edges.
func (t RelationType) Subtype() ParentChildSubtype {
	switch t {
	case RelationParentChild:
		return SubtypePlain
	case RelationParentChildInLaw:
		return SubtypeInLaw
	case RelationParentChildAdopt:
		return SubtypeAdopt
	}
	return ""
}

// ParentChildSubtype distinguishes biological, in-law and adoptive links.
// It only affects labels; traversal treats all subtypes alike.
type ParentChildSubtype string

const (
	SubtypePlain ParentChildSubtype = "plain"
	SubtypeInLaw ParentChildSubtype = "in-law"
	SubtypeAdopt ParentChildSubtype = "adopt"
)

// RelationType maps a subtype to the stored edge type. Unknown subtypes map to "".
func (s ParentChildSubtype) RelationType() RelationType {
	switch s {
	case SubtypePlain, "":
		return RelationParentChild
	case SubtypeInLaw:
		return RelationParentChildInLaw
	case SubtypeAdopt:
		return RelationParentChildAdopt
	}
	return ""
}

// ParseSubtype accepts a subtype name or a full relation type name.
func ParseSubtype(s string) (ParentChildSubtype, bool) {
	switch s {
	case "", string(SubtypePlain), string(RelationParentChild):
		return SubtypePlain, true
	case string(SubtypeInLaw), string(RelationParentChildInLaw):
		return SubtypeInLaw, true
	case string(SubtypeAdopt), string(RelationParentChildAdopt):
		return SubtypeAdopt, true
	}
	return "", false
}

// Relationship is an edge between two people. For parent-child types PersonID
// is the parent and RelatedID the child. Spouse edges are unordered but keep
// the order they were created with.
type Relationship struct {
	ID        string       `json:"id"`
	Type      RelationType `json:"type"`
	PersonID  string       `json:"personId"`
	RelatedID string       `json:"relatedId"`
}

// Touches reports whether the edge references personID on either end.
func (r Relationship) Touches(personID string) bool {
	return r.PersonID == personID || r.RelatedID == personID
}

// Connects reports whether the edge joins a and b in either direction.
func (r Relationship) Connects(a, b string) bool {
	return (r.PersonID == a && r.RelatedID == b) || (r.PersonID == b && r.RelatedID == a)
}

// Other returns the endpoint that is not personID.
func (r Relationship) Other(personID string) string {
	if r.PersonID == personID {
		return r.RelatedID
	}
	return r.PersonID
}
