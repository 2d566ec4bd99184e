package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/config"
	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/goal"
	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/server"
	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/store"
	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/telemetry"
)

const configFile = "discip_config.yml"

func main() {
	// A missing .env is fine; env vars still apply.
	_ = godotenv.Load()

	cfg, err := config.Load(configFile)
	if err != nil {
		log.Printf("config: %v, using defaults", err)
		cfg = config.Default()
	}
	config.FromEnv(cfg)

	repo, err := store.NewFileRepo(cfg.Server.DataDir)
	if err != nil {
		log.Fatalf("open data dir: %v", err)
	}
	initial, err := repo.Load()
	if err != nil {
		log.Fatalf("load state: %v", err)
	}

	app := server.NewApp(cfg, goal.NewEngine(cfg), repo, telemetry.NewMemoryRepository(), initial)

	mux := http.NewServeMux()
	server.RegisterAPIRoutes(mux, app)

	go runSweep(app, time.Duration(cfg.Sweep.IntervalSeconds)*time.Second)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("listening on http://localhost%s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}

func runSweep(app *server.App, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for now := range ticker.C {
		if app.SweepOnce(now) {
			log.Printf("sweep: activated scheduled goals at %s", now.Format(time.RFC3339))
		}
	}
}
