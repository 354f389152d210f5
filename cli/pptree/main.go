package main

import (
	"os"

	pptreecmder "github.com/papercomputeco/pptree/cmd/pptree"
)

func main() {
	cmd := pptreecmder.NewPptreeCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
