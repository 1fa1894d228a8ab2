package main

import (
	"os"

	"studyquiz"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		studyquiz.Logger().Errorf("%v", err)
		os.Exit(1)
	}
}
