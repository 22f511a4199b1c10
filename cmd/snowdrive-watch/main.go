// Command snowdrive-watch prints live telemetry from a snowdrive dashboard
// and can push tuning changes to it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"syscall"

	"github.com/teslashibe/go-snowdrive/internal/httpc"
	"github.com/teslashibe/go-snowdrive/pkg/sim"
	"github.com/teslashibe/go-snowdrive/pkg/telemetry"
	"github.com/teslashibe/go-snowdrive/pkg/web"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8090", "Dashboard address")
	tune := flag.String("tune", "", "Tuning to apply, e.g. \"max_forward_kmh=90,stiffness=3000\"")
	status := flag.Bool("status", false, "Print the session status and exit")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *addr, *tune, *status); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, addr, tune string, status bool) error {
	api := "http://" + addr + "/api"

	if tune != "" {
		params, err := parseTuning(tune)
		if err != nil {
			return err
		}
		var applied sim.TuningParams
		if err := httpc.PostJSON(ctx, api+"/tuning", params, &applied); err != nil {
			return fmt.Errorf("tuning: %w", err)
		}
		fmt.Printf("🔧 Tuning queued: %+v\n", applied)
		return nil
	}

	if status {
		var st web.Status
		if err := httpc.GetJSON(ctx, api+"/status", &st); err != nil {
			return fmt.Errorf("status: %w", err)
		}
		fmt.Printf("Session %s\n%s\n", st.SessionID, st.Frame.String())
		fmt.Printf("ticks=%d top=%.1f km/h corrections=%d cap_cuts=%d kicks=%d clients=%d\n",
			st.Stats.Ticks, st.Stats.TopSpeedKmh, st.Stats.Corrections, st.Stats.CapCuts, st.Stats.Kicks, st.Clients)
		return nil
	}

	client, err := telemetry.Dial(ctx, "ws://"+addr+"/ws/telemetry")
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		client.Close()
	}()

	fmt.Printf("📡 Watching %s (Ctrl+C to stop)\n", addr)
	for {
		f, err := client.Next()
		if err != nil {
			if errors.Is(err, telemetry.ErrClosed) || ctx.Err() != nil {
				fmt.Println()
				return nil
			}
			return err
		}
		fmt.Printf("\r%s\033[K", f.String())
	}
}

// parseTuning turns "a=1,b=2" into a JSON-ready map keyed like TuningParams.
func parseTuning(s string) (map[string]float64, error) {
	out := map[string]float64{}
	for _, pair := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("bad tuning %q, want key=value", pair)
		}
		if !slices.Contains(sim.TuningKeys(), k) {
			return nil, fmt.Errorf("unknown tuning key %q", k)
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("bad tuning value for %s: %w", k, err)
		}
		out[k] = f
	}
	return out, nil
}
