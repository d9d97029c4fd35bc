package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sketchpad/internal/config"
	sketchnet "sketchpad/internal/net"
	"sketchpad/internal/raster"
	"sketchpad/internal/state"
	"sketchpad/internal/ui"
)

const discoverTimeout = 3 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	fonts, err := raster.LoadFonts(cfg.FontPath)
	if err != nil {
		log.Fatalf("Failed to load font: %v", err)
	}

	var logger *log.Logger
	if cfg.Verbose {
		logger = log.Default()
	}

	mode := ""
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}
	switch mode {
	case "":
		runDesktop(cfg, fonts, logger)
	case "serve":
		runServer(cfg, fonts, logger)
	case "discover":
		runDiscover()
	default:
		fmt.Fprintf(os.Stderr, "usage: %s [serve|discover]\n", os.Args[0])
		os.Exit(2)
	}
}

func runDesktop(cfg config.Config, fonts *raster.Fonts, logger *log.Logger) {
	log.Println("Starting desktop sketchpad")
	session := state.NewSession(state.Options{Logger: logger})
	ui.RunApp(cfg, session, fonts)
}

func runServer(cfg config.Config, fonts *raster.Fonts, logger *log.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Advertise {
		mdnsServer, err := sketchnet.Advertise(cfg.Port)
		if err != nil {
			log.Printf("[MDNS] Advertising disabled: %v", err)
		} else {
			defer mdnsServer.Shutdown()
		}
	}

	server := sketchnet.NewServer(sketchnet.Options{
		CanvasSize:  cfg.CanvasSize,
		ExportScale: cfg.ExportScale,
		Fonts:       fonts,
		Logger:      logger,
	})
	log.Printf("Share this link: http://%s:%d/", sketchnet.LANAddress(), cfg.Port)
	if err := server.ListenAndServe(ctx, fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func runDiscover() {
	log.Printf("Looking for sketchpads for %s...", discoverTimeout)
	count := 0
	err := sketchnet.Browse(discoverTimeout, func(d sketchnet.Discovered) {
		count++
		fmt.Printf("%s\t%s\n", d.Name, d.URL)
	})
	if err != nil {
		log.Fatalf("Discovery failed: %v", err)
	}
	if count == 0 {
		log.Println("No sketchpads found")
	}
}
