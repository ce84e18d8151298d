package app

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gmpi-ec/gmpi-backend/api"
	"github.com/gmpi-ec/gmpi-backend/config"
	"github.com/gmpi-ec/gmpi-backend/database"
	"github.com/gmpi-ec/gmpi-backend/router"
)

// SetupAndRunServer boots the whole service: environment, database,
// seeding, routes, and finally the HTTP listener. It blocks until the
// process receives SIGINT or SIGTERM, then shuts the listener down
// gracefully.
func SetupAndRunServer() error {
	if err := config.LoadENV(); err != nil {
		return err
	}

	env, err := config.Get()
	if err != nil {
		return err
	}

	store, err := database.StartGORM()
	if err != nil {
		log.Println("Check whether Postgres is running and DB_* variables are set")
		return err
	}

	if err := store.Init(); err != nil {
		log.Println("Failed to initialize database tables")
		return err
	}
	defer store.Close()

	seeder := database.NewSeeder(store.GetDB())
	if err := seeder.SeedAll(); err != nil {
		return err
	}

	server := api.NewAPIServer(fmt.Sprintf(":%d", env.PORT), store)
	app := server.GetEngine()

	router.SetupRoutes(app, store, env)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-shutdown
		log.Println("Shutting down...")
		if err := server.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	return server.Run()
}
