// famitree-lint flags storage, index and embedding calls made once per loop
// iteration in famitree.
package main

import (
	"golang.org/x/tools/go/analysis/multichecker"

	"github.com/ersonp/famitree/tools/famitree-lint/analyzers"
)

func main() {
	multichecker.Main(analyzers.All()...)
}
