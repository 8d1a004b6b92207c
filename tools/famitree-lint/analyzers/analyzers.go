// Package analyzers lists the analyzers famitree-lint runs.
package analyzers

import (
	"golang.org/x/tools/go/analysis"

	"github.com/ersonp/famitree/tools/famitree-lint/analyzers/loopcall"
)

// All returns all analyzers to run.
func All() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		loopcall.Analyzer,
	}
}
