package main

import (
	"log"

	"github.com/gmpi-ec/gmpi-backend/app"
)

func main() {
	if err := app.SetupAndRunServer(); err != nil {
		log.Fatal(err)
	}
}
