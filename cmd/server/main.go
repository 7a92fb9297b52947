package main

import (
	"log"
	"net/http"

	"plump-game/internal/config"
	"plump-game/internal/database"
	"plump-game/internal/server"
)

func main() {
	log.Println("Starting Plump server...")

	cfg := config.Load()

	db := database.New(cfg.DBPath)
	defer db.Close()

	hub := server.NewHub(&db, cfg.RevealWindow)
	go hub.Run()

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		server.ServeWs(hub, w, r)
	})

	server.HandleRoutes(&db)

	log.Printf("Listening on :%s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, nil))
}
