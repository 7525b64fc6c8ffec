package main

import (
	"log"

	"github.com/MrSnakeDoc/cookbook/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ cookbook failed to start: %v", err)
	}
}
