package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ersonp/famitree/internal/domain/entities"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// lifespan renders the known years of a person, e.g. "1930-2000", "b. 1962"
// or "1930-?" for someone deceased without a recorded death year.
func lifespan(p entities.Person) string {
	by, hasBirth := p.BirthDate.Year()
	dy, hasDeath := p.DeathDate.Year()
	switch {
	case hasBirth && hasDeath:
		return fmt.Sprintf("%d-%d", by, dy)
	case hasBirth && p.IsDeceased():
		return fmt.Sprintf("%d-?", by)
	case hasBirth:
		return fmt.Sprintf("b. %d", by)
	case hasDeath:
		return fmt.Sprintf("d. %d", dy)
	}
	return ""
}

// personLabel is the one-line form used in trees and lists.
func personLabel(p entities.Person) string {
	label := entities.SafeName(p.Name)
	if p.Title != "" {
		label = p.Title + " " + label
	}
	if span := lifespan(p); span != "" {
		label += " (" + span + ")"
	}
	return label
}

func displayDate(d entities.FlexDate) string {
	if d.IsEmpty() {
		return "-"
	}
	return d.FormatDisplay()
}

// printTree draws a forest with box-drawing connectors. Spouses follow the
// person they married, joined by "+".
func printTree(w io.Writer, nodes []*entities.TreeNode) {
	for _, n := range nodes {
		fmt.Fprintln(w, nodeLine(n))
		printChildren(w, n.Children, "")
	}
}

func printChildren(w io.Writer, nodes []*entities.TreeNode, prefix string) {
	for i, n := range nodes {
		connector, next := "├── ", "│   "
		if i == len(nodes)-1 {
			connector, next = "└── ", "    "
		}
		fmt.Fprintln(w, prefix+connector+nodeLine(n))
		printChildren(w, n.Children, prefix+next)
	}
}

func nodeLine(n *entities.TreeNode) string {
	var b strings.Builder
	b.WriteString(personLabel(n.Person))
	for _, s := range n.Spouses {
		b.WriteString(" + ")
		b.WriteString(personLabel(s))
	}
	return b.String()
}

// printPeople writes a people table.
func printPeople(w io.Writer, people []entities.Person) {
	fmt.Fprintf(w, "%-36s %-28s %-7s %-10s %s\n", "ID", "NAME", "GENDER", "BORN", "DIED")
	for _, p := range people {
		gender := string(p.Gender)
		if gender == "" {
			gender = "-"
		}
		fmt.Fprintf(w, "%-36s %-28s %-7s %-10s %s\n",
			p.ID, truncate(entities.SafeName(p.Name), 28), gender, displayDate(p.BirthDate), displayDate(p.DeathDate))
	}
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
