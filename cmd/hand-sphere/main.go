package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/hand-sphere/audio"
	"github.com/lixenwraith/hand-sphere/config"
	"github.com/lixenwraith/hand-sphere/engine"
	"github.com/lixenwraith/hand-sphere/event"
	"github.com/lixenwraith/hand-sphere/input"
	"github.com/lixenwraith/hand-sphere/logger"
	"github.com/lixenwraith/hand-sphere/network"
	"github.com/lixenwraith/hand-sphere/render"
)

const defaultLogFile = "hand-sphere.log"

func main() {
	var screen tcell.Screen

	// Panic Recovery: Ensure terminal is reset even if the client crashes
	defer func() {
		if r := recover(); r != nil {
			if screen != nil {
				screen.Fini()
			}
			fmt.Fprintf(os.Stderr, "\n\x1b[31mHAND-SPHERE CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	// The terminal owns stdout, so logs always go to a file
	logPath := cfg.LogFile
	if logPath == "" {
		logPath = defaultLogFile
	}
	closer, err := logger.Init(cfg.LogLevel, cfg.LogFormat, logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging disabled: %v\n", err)
	}
	defer closer.Close()
	log := logger.Log

	screen, err = tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}
	// Normal exit terminal cleanup
	defer screen.Fini()
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queue := event.NewEventQueue()
	surface := render.NewTerminalSurface(screen)

	emitter := audio.NewEmitter(cfg.Audio(), nil, log)
	defer emitter.Close()

	client := network.NewClient(cfg.Network(), queue, log)
	if err := client.Start(ctx); err != nil {
		log.WithError(err).Error("relay client not started")
	}
	defer client.Stop()

	loop := engine.NewLoop(cfg.Engine(), engine.Deps{
		Queue:    queue,
		Surface:  surface,
		Sender:   client,
		Feedback: emitter,
		Field:    cfg.Field(),
		Log:      log,
	})

	var mouse *input.MouseTracker
	var tracker input.Tracker
	switch input.Kind(cfg.Tracker) {
	case input.KindStdin:
		tracker = input.NewLineTracker(os.Stdin, queue, cfg.Mirror, log)
	case input.KindOrbit:
		tracker = input.NewOrbitTracker(queue, input.DefaultOrbitConfig(), cfg.Mirror)
	default:
		cols, rows := screen.Size()
		mouse = input.NewMouseTracker(queue, cols, rows-1, cfg.Mirror, cfg.MouseIdle)
		tracker = mouse
	}
	go func() {
		if err := tracker.Run(ctx); err != nil {
			log.WithError(err).Warn("tracker stopped")
		}
	}()

	go pollEvents(screen, queue, input.DefaultKeyTable(), mouse)

	log.WithFields(logrus.Fields{
		"relay":   cfg.RelayURL,
		"room":    cfg.Room,
		"tracker": cfg.Tracker,
	}).Info("hand-sphere started")

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Error("loop stopped")
	}

	sent, dropped, malformed := client.Stats()
	played, silenced, _ := emitter.Stats()
	log.WithFields(logrus.Fields{
		"frames":         loop.Frames(),
		"sent":           sent,
		"send_dropped":   dropped,
		"malformed":      malformed,
		"tones":          played,
		"tones_dropped":  silenced,
		"events_dropped": queue.Dropped(),
	}).Info("hand-sphere stopped")
}

// pollEvents forwards terminal input to the loop until the screen is closed
func pollEvents(screen tcell.Screen, queue *event.EventQueue, keys *input.KeyTable, mouse *input.MouseTracker) {
	push := func(t event.EventType) {
		queue.Push(event.UpdateEvent{Type: t})
	}

	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}

		switch ev := ev.(type) {
		case *tcell.EventResize:
			if mouse != nil {
				cols, rows := ev.Size()
				mouse.Resize(cols, rows-1)
			}
			push(event.EventResize)

		case *tcell.EventKey:
			switch keys.Lookup(ev) {
			case input.IntentQuit:
				push(event.EventQuit)
			case input.IntentToggleMute:
				push(event.EventToggleMute)
			default:
				push(event.EventGesture)
			}

		case *tcell.EventMouse:
			pressed := ev.Buttons()&(tcell.Button1|tcell.Button2|tcell.Button3) != 0
			if mouse != nil {
				pressed = mouse.HandleMouse(ev)
			}
			if pressed {
				push(event.EventGesture)
			}
		}
	}
}
