package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-stochastic-raytracer/pkg/config"
	"github.com/df07/go-stochastic-raytracer/web/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Parse command line flags
	addr := flag.String("addr", cfg.ServerAddress, "Address to serve on")
	static := flag.String("static", "static", "Directory of static files")
	data := flag.String("data", "", "Directory of globe textures (default data or ../data)")
	flag.Parse()

	webServer := server.NewServer(server.Options{
		Address:     *addr,
		StaticDir:   *static,
		TexturePath: cfg.Texture,
		DataDir:     *data,
		Workers:     cfg.Workers,
	})

	log.Printf("Stochastic Raytracer Web Server")
	log.Printf("Visit http://localhost%s to start rendering", *addr)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
