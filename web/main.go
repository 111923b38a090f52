package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-bvh-pathtracer/pkg/scene"
	"github.com/df07/go-bvh-pathtracer/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	models := flag.String("models", "", "Extra directory searched for PLY models")
	flag.Parse()

	if *models != "" {
		scene.ModelDirs = append([]string{*models}, scene.ModelDirs...)
	}

	log.Printf("BVH Path Tracer web server, PLY models from %v", scene.ModelDirs)
	log.Printf("Render with http://localhost:%d/api/render?scene=default", *port)

	if err := server.NewServer(*port).Start(); err != nil {
		log.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
}
