package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/filament-ui/filament/pkg/dom"
	"github.com/filament-ui/filament/pkg/live"
	"github.com/filament-ui/filament/pkg/reactive"
	"github.com/filament-ui/filament/pkg/runtime"
	"github.com/filament-ui/filament/pkg/template"
)

var liveCounterTpl = template.Must(
	`<div><button class="inc">+</button><span class="count"></span></div>`)

func liveCounter() *runtime.Component {
	return runtime.NewComponent("bench-counter", func(*reactive.Store) []dom.Node {
		count := reactive.NewSignal(0)
		return runtime.H(liveCounterTpl, runtime.Slots{
			1: {Events: map[string]dom.Handler{"click": func(*dom.Event) {
				count.Update(func(n int) int { return n + 1 })
			}}},
			2: {Children: []any{func() any { return strconv.Itoa(count.Get()) }}},
		})
	})
}

var liveSessionRe = regexp.MustCompile(`data-session="([0-9a-f]+)"`)

func liveCmd() *cobra.Command {
	var (
		clients  int
		events   int
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "live",
		Short: "Benchmark end-to-end WebSocket event round trips",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLiveBench(clients, events, interval)
		},
	}

	cmd.Flags().IntVar(&clients, "clients", 25, "concurrent sessions")
	cmd.Flags().IntVar(&events, "events", 200, "events per client")
	cmd.Flags().DurationVar(&interval, "interval", 0, "delay between events per client")
	return cmd
}

func runLiveBench(clients, events int, interval time.Duration) error {
	srv := live.NewServer(liveCounter(), live.WithMaxSessions(clients*2))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	var (
		completed  atomic.Uint64
		patchBytes atomic.Uint64
	)

	errs := make(chan error, clients)
	start := time.Now()
	for i := 0; i < clients; i++ {
		go func() {
			errs <- runLiveClient(ts.URL, events, interval, &completed, &patchBytes)
		}()
	}
	for i := 0; i < clients; i++ {
		if err := <-errs; err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	report("live/event-roundtrip", int(completed.Load()), elapsed.Nanoseconds())
	fmt.Printf("%-28s %12d bytes\n", "live/patch-bytes", patchBytes.Load())
	return nil
}

func runLiveClient(baseURL string, events int, interval time.Duration, completed, patchBytes *atomic.Uint64) error {
	resp, err := http.Get(baseURL + "/")
	if err != nil {
		return err
	}
	page, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return err
	}

	match := liveSessionRe.FindSubmatch(page)
	if match == nil {
		return fmt.Errorf("page missing session id")
	}
	sessionID := string(match[1])

	wsURL := "ws" + strings.TrimPrefix(baseURL, "http") + "/live?session=" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Initial patch pushed on attach.
	_, raw, err := conn.ReadMessage()
	if err != nil {
		return err
	}
	patchBytes.Add(uint64(len(raw)))

	// The counter button is the first child of the component root.
	event, err := json.Marshal(map[string]any{
		"type":  "event",
		"event": "click",
		"path":  []int{0, 0},
	})
	if err != nil {
		return err
	}

	for n := 0; n < events; n++ {
		if err := conn.WriteMessage(websocket.TextMessage, event); err != nil {
			return err
		}
		conn.SetReadDeadline(time.Now().Add(10 * time.Second))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		patchBytes.Add(uint64(len(raw)))
		completed.Add(1)
		if interval > 0 {
			time.Sleep(interval)
		}
	}
	return nil
}
