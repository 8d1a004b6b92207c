package entities

import (
	"encoding/json"
	"fmt"
)

// FamilyTree is one immutable snapshot of the canonical state.
// Version increases by one on every effective mutation.
type FamilyTree struct {
	People        []Person       `json:"people"`
	Relationships []Relationship `json:"relationships"`
	Version       uint64         `json:"version"`
}

// EncodeFamilyTree serializes a snapshot into the persistence blob.
func EncodeFamilyTree(t FamilyTree) ([]byte, error) {
	if t.People == nil {
		t.People = []Person{}
	}
	if t.Relationships == nil {
		t.Relationships = []Relationship{}
	}
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encoding family tree: %w", err)
	}
	return data, nil
}

// DecodeFamilyTree parses a persistence blob. An empty blob is an empty tree.
func DecodeFamilyTree(data []byte) (FamilyTree, error) {
	var t FamilyTree
	if len(data) == 0 {
		return t, nil
	}
	if err := json.Unmarshal(data, &t); err != nil {
		return FamilyTree{}, fmt.Errorf("decoding family tree: %w", err)
	}
	return t, nil
}

// TreeNode is one person in a built tree.
type TreeNode struct {
	Person   Person      `json:"person"`
	Children []*TreeNode `json:"children"`
	// Spouse is the first entry of Spouses, kept for callers that draw one spouse.
	Spouse  *Person  `json:"spouse,omitempty"`
	Spouses []Person `json:"spouses"`
}

// NewTreeNode builds a node and fills the Spouse convenience field.
func NewTreeNode(p Person, spouses []Person, children []*TreeNode) *TreeNode {
	if spouses == nil {
		spouses = []Person{}
	}
	if children == nil {
		children = []*TreeNode{}
	}
	n := &TreeNode{Person: p, Children: children, Spouses: spouses}
	if len(spouses) > 0 {
		first := spouses[0]
		n.Spouse = &first
	}
	return n
}
