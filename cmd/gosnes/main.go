// Package main implements the gosnes emulator executable.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gosnes/internal/app"
	"gosnes/internal/version"
)

func main() {
	var (
		romFile    = flag.String("rom", "", "Path to Super NES ROM image")
		mapper     = flag.String("mapper", "", "Cartridge mapping: lorom, hirom or exhirom (overrides config)")
		configFile = flag.String("config", "", "Path to configuration file")
		scriptFile = flag.String("script", "", "Lua script to attach")
		page       = flag.String("page", "", "First memory page shown, e.g. 7E0000")
		frames     = flag.Int("frames", 0, "Stop after this many frames (0 runs until quit)")
		dumpEvery  = flag.Int("dump", 0, "Headless: print the machine state every n frames")
		loadSlot   = flag.Int("loadstate", -1, "Load a save state slot before running")
		saveSlot   = flag.Int("savestate", -1, "Save the state to a slot on exit")
		debug      = flag.Bool("debug", false, "Enable debug logging")
		trace      = flag.Bool("trace", false, "Log every executed instruction")
		pause      = flag.Bool("pause", false, "Start paused")
		terminal   = flag.Bool("terminal", false, "Use the terminal view")
		nogui      = flag.Bool("nogui", false, "Run without a view (headless mode)")
		help       = flag.Bool("help", false, "Show help message")
		showVer    = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}

	if *showVer {
		version.WriteBuildInfo(os.Stdout)
		os.Exit(0)
	}

	if *romFile == "" && flag.NArg() > 0 {
		*romFile = flag.Arg(0)
	}
	if *romFile == "" {
		printUsage()
		os.Exit(2)
	}

	configPath := *configFile
	if configPath == "" {
		configPath = app.GetDefaultConfigPath()
	}
	config := app.NewConfig()
	if err := config.LoadFromFile(configPath); err != nil {
		log.Printf("[APP] Could not load config from %s, using defaults: %v", configPath, err)
		config = app.NewConfig()
	}

	// Command line flags win over the file
	if *mapper != "" {
		config.Emulation.Mapper = *mapper
	}
	if *scriptFile != "" {
		config.Debug.Script = *scriptFile
	}
	if *page != "" {
		config.Debug.Page = *page
	}
	if *frames > 0 {
		config.Emulation.FrameLimit = *frames
	}
	if *dumpEvery > 0 {
		config.Video.DumpInterval = *dumpEvery
	}
	if *debug {
		config.Debug.EnableLogging = true
		config.Debug.LogLevel = "DEBUG"
	}
	if *trace {
		config.Debug.CPUTracing = true
	}
	if *pause {
		config.Emulation.StartPaused = true
	}
	if *terminal {
		config.Video.Backend = "terminal"
	}

	application, err := app.NewApplicationWithConfig(config, *nogui)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	defer func() {
		if err := application.Cleanup(); err != nil {
			log.Printf("Application cleanup error: %v", err)
		}
	}()

	setupGracefulShutdown(application)

	if err := application.LoadROM(*romFile); err != nil {
		log.Fatalf("Failed to load ROM: %v", err)
	}

	if *loadSlot >= 0 {
		if err := application.LoadState(*loadSlot); err != nil {
			log.Fatalf("Failed to load state: %v", err)
		}
	}

	if config.Debug.Script != "" {
		if err := application.LoadScript(config.Debug.Script); err != nil {
			log.Fatalf("Failed to load script: %v", err)
		}
	}

	if err := application.Run(); err != nil {
		log.Printf("Run failed: %v", err)
		return
	}

	if *saveSlot >= 0 {
		if err := application.SaveState(*saveSlot); err != nil {
			log.Printf("Failed to save state: %v", err)
		}
	}

	state := application.GetBus().GetCPUState()
	fmt.Printf("Frames: %d  Time: %v\n", application.GetFrameCount(), application.GetUptime())
	fmt.Printf("%s\n", state)
}

// setupGracefulShutdown stops the main loop on the first interrupt so that
// SRAM is saved; a second interrupt exits immediately
func setupGracefulShutdown(application *app.Application) {
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintln(os.Stderr, "\nInterrupt received, shutting down...")
		application.Stop()
		<-c
		os.Exit(1)
	}()
}

func printUsage() {
	fmt.Println("gosnes - Super NES CPU emulator and debugger")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  gosnes [options] -rom <file>")
	fmt.Println("  gosnes [options] <file>")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  gosnes game.sfc                           # Debug window")
	fmt.Println("  gosnes -mapper hirom -pause game.sfc      # HiROM image, start paused")
	fmt.Println("  gosnes -terminal -page 7E0100 game.sfc    # Terminal view")
	fmt.Println("  gosnes -nogui -frames 600 -dump 60 t.sfc  # Headless test run")
	fmt.Println("  gosnes -nogui -script check.lua t.sfc     # Scripted run")
	fmt.Println()
	fmt.Println("CONTROLS:")
	fmt.Println("  Space          Pause / resume")
	fmt.Println("  N              Step one instruction (paused)")
	fmt.Println("  F / Enter      Run one frame (paused)")
	fmt.Println("  R              Reset")
	fmt.Println("  T              Toggle instruction trace")
	fmt.Println("  PageUp/PageDn  Previous / next memory page (also [ and ])")
	fmt.Println("  Escape / Q     Quit")
	fmt.Println()
	fmt.Println("CONFIGURATION:")
	fmt.Printf("  Config file: %s\n", app.GetDefaultConfigPath())
	fmt.Println("  Battery saves: ./saves/  Save states: ./states/  Logs: ./logs/")
}
