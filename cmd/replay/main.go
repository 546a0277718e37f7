package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/VoidMesh/horizon/internal/config"
	"github.com/VoidMesh/horizon/internal/logging"
	"github.com/VoidMesh/horizon/internal/replay"
)

func main() {
	seedFlag := flag.String("seed", "", "World seed (overrides TERRAIN_SEED)")
	parallel := flag.Int("parallel", runtime.NumCPU(), "Maximum simulations run at once")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] script.yaml...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", "error", err)
	}
	if *seedFlag != "" {
		cfg.Terrain.Seed = *seedFlag
	}
	logger := logging.Setup(cfg.Logging, os.Stderr)

	scripts := make([]*replay.Script, 0, flag.NArg())
	for _, path := range flag.Args() {
		s, err := replay.LoadFile(path)
		if err != nil {
			log.Fatal("Failed to load script", "error", err)
		}
		scripts = append(scripts, s)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Debug("Running replays", "scripts", len(scripts), "parallel", *parallel)
	results, err := replay.RunAll(ctx, cfg, scripts, *parallel)
	if err != nil {
		log.Fatal("Replay failed", "error", err)
	}
	replay.Log(logger, results)

	fmt.Println(replay.Table(results))
}
