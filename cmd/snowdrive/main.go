// Command snowdrive runs a headless driving session on the flat-ground
// engine from a scripted scenario, optionally serving the dashboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teslashibe/go-snowdrive/internal/config"
	"github.com/teslashibe/go-snowdrive/internal/log"
	"github.com/teslashibe/go-snowdrive/pkg/debug"
	"github.com/teslashibe/go-snowdrive/pkg/input"
	"github.com/teslashibe/go-snowdrive/pkg/sim"
	"github.com/teslashibe/go-snowdrive/pkg/telemetry"
	"github.com/teslashibe/go-snowdrive/pkg/web"
)

// looping replays a script forever.
type looping struct{ *input.Script }

func (l looping) Next(dt float64) (input.Raw, bool) {
	raw, ok := l.Script.Next(dt)
	if !ok {
		l.Rewind()
		raw, ok = l.Script.Next(dt)
	}
	return raw, ok
}

func main() {
	configPath := flag.String("config", "", "Config file (json, yaml or toml)")
	scenario := flag.String("scenario", "", "Scenario script, e.g. \"throttle 5s; reverse 3s\"")
	duration := flag.Duration("duration", 0, "Stop after this long (0 = when the scenario ends)")
	loop := flag.Bool("loop", false, "Repeat the scenario until stopped")
	fast := flag.Bool("fast", false, "Replay at a fixed dt as fast as possible instead of real time")
	dashboard := flag.String("dashboard", "", "Serve the dashboard on this address, e.g. 127.0.0.1:8090")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	debugPhysics := flag.Bool("debug-physics", false, "Log per-tick controller output (very verbose)")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		settings.LogLevel = *logLevel
	}
	if *scenario != "" {
		settings.Scenario = *scenario
	}
	if *dashboard != "" {
		settings.Dashboard.Enabled = true
		settings.Dashboard.Addr = *dashboard
	}
	debug.Enabled = settings.Debug || *debugFlag
	debug.Physics = settings.DebugPhysics || *debugPhysics
	if debug.Enabled || debug.Physics {
		settings.LogLevel = "debug"
	}
	log.Init(settings.LogLevel)
	debug.Log("settings: %+v\n", settings)

	if err := run(settings, *duration, *loop, *fast); err != nil {
		log.Error("snowdrive failed", "error", err)
		os.Exit(1)
	}
}

func run(settings config.Settings, duration time.Duration, loop, fast bool) error {
	script, err := input.ParseScript(settings.Scenario)
	if err != nil {
		return err
	}
	var src input.Source = script
	if loop {
		src = looping{script}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n👋 Shutting down...")
		cancel()
	}()
	if duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	_, opts := sim.NewFlat()
	opts.Config = settings.Sim
	opts.Input = settings.Input
	opts.Vehicle = settings.Vehicle

	every := max(uint64(settings.Sim.TickRate), 1)
	sinks := telemetry.Multi{
		telemetry.SinkFunc(func(_ context.Context, f telemetry.Frame) {
			if f.Tick%every == 0 {
				fmt.Println(f.String())
			}
		}),
	}
	if debug.Enabled {
		sinks = append(sinks, telemetry.LogSink{Logger: log.L(), Every: every / 4})
	}

	var srv *web.Server
	if settings.Dashboard.Enabled {
		srv = web.NewServer(settings.Dashboard)
		sinks = append(sinks, srv)
	}
	opts.Sink = sinks

	session, err := sim.New(opts)
	if err != nil {
		return err
	}

	fmt.Println("🏎️  Snowdrive")
	fmt.Printf("   Session:  %s\n", session.ID())
	fmt.Printf("   Preset:   %s\n", settings.Preset)
	fmt.Printf("   Scenario: %s (%s)\n", settings.Scenario, script.Duration())
	if srv != nil {
		srv.Bind(session)
		go func() {
			if err := srv.Start(ctx); err != nil {
				log.Warn("dashboard stopped", "error", err)
			}
		}()
		fmt.Printf("   Dashboard: http://%s\n", settings.Dashboard.Addr)
	}
	fmt.Println()

	if fast {
		err = session.Replay(ctx, src, settings.Sim.DT())
	} else {
		err = session.Run(ctx, src)
	}
	if err != nil && ctx.Err() == nil {
		return err
	}

	st := session.Stats()
	fmt.Printf("\n✅ %d ticks, top speed %.1f km/h, %d tilt corrections, %d cap cuts, %d kicks\n",
		st.Ticks, st.TopSpeedKmh, st.Corrections, st.CapCuts, st.Kicks)
	return nil
}
