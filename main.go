package main

import (
	"os"

	"github.com/GoEnrollSync/GoEnrollSync/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
