// phtqa answers keyword questions over the transmission asset, mitigation and
// generation datasets.
package main

import (
	"os"

	"github.com/0xcro3dile/phtqa/cmd/phtqa/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
