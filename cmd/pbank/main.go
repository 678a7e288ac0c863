package main

import (
	"os"

	"github.com/premiumbank/pbank/cmd"
	"github.com/premiumbank/pbank/internal/format"
	"github.com/premiumbank/pbank/internal/utils"
)

func main() {
	if err := cmd.Execute(); err != nil {
		format.PrintError(utils.MessageOf(err, err.Error()))
		os.Exit(1)
	}
}
