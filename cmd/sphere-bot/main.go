package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/hand-sphere/config"
	"github.com/lixenwraith/hand-sphere/engine"
	"github.com/lixenwraith/hand-sphere/event"
	"github.com/lixenwraith/hand-sphere/input"
	"github.com/lixenwraith/hand-sphere/logger"
	"github.com/lixenwraith/hand-sphere/network"
	"github.com/lixenwraith/hand-sphere/render"
)

// Headless canvas size in cells
const (
	botCols = 80
	botRows = 24
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.RegisterFlags(flag.CommandLine)
	count := flag.Int("count", 1, "number of bots")
	duration := flag.Duration("duration", 0, "stop after this long (0 runs until interrupted)")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
	if *count < 1 {
		fmt.Fprintln(os.Stderr, "count must be at least 1")
		os.Exit(2)
	}

	closer, err := logger.Init(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging to file disabled: %v\n", err)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	var wg sync.WaitGroup
	for i := 0; i < *count; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			runBot(ctx, cfg, i, *count)
		}(i)
	}
	wg.Wait()
}

// runBot drives one headless participant around a phase-shifted orbit
func runBot(ctx context.Context, cfg *config.Config, index, count int) {
	log := logger.Log.WithField("bot", index)

	queue := event.NewEventQueue()
	client := network.NewClient(cfg.Network(), queue, log)
	if err := client.Start(ctx); err != nil {
		log.WithError(err).Error("bot not started")
		return
	}
	defer client.Stop()

	orbit := input.DefaultOrbitConfig()
	orbit.Phase = float64(index) / float64(count)
	tracker := input.NewOrbitTracker(queue, orbit, cfg.Mirror)
	go func() {
		_ = tracker.Run(ctx)
	}()

	loop := engine.NewLoop(cfg.Engine(), engine.Deps{
		Queue:   queue,
		Surface: render.NewCanvas(botCols, botRows),
		Sender:  client,
		Field:   cfg.Field(),
		Log:     log,
	})

	start := time.Now()
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		log.WithError(err).Error("bot loop stopped")
	}

	sent, dropped, _ := client.Stats()
	log.WithFields(logrus.Fields{
		"uptime":  time.Since(start).Round(time.Second),
		"frames":  loop.Frames(),
		"sent":    sent,
		"dropped": dropped,
	}).Info("bot stopped")
}
