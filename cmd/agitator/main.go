// Package main - agitator
// Load generator for stress testing: floods the server with spectator
// connections and a scripted player spamming input and interactions.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/url"
	"os"
	"os/signal"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Config for the agitator
type Config struct {
	ServerURL      string
	NumClients     int
	ActionInterval time.Duration
	TestDuration   time.Duration
}

// Stats tracks performance metrics
type Stats struct {
	MessagesSent     int64
	MessagesReceived int64
	Errors           int64
	Latencies        []time.Duration
	mu               sync.Mutex
}

func main() {
	serverURL := flag.String("url", "ws://localhost:8080/ws", "WebSocket server URL")
	numClients := flag.Int("clients", 50, "Number of concurrent clients")
	interval := flag.Duration("interval", 100*time.Millisecond, "Action interval per client")
	duration := flag.Duration("duration", 60*time.Second, "Test duration")
	flag.Parse()

	config := Config{
		ServerURL:      *serverURL,
		NumClients:     *numClients,
		ActionInterval: *interval,
		TestDuration:   *duration,
	}

	fmt.Println("=========================================")
	fmt.Println("EL AGITADOR - Stress Test Tool")
	fmt.Println("=========================================")
	fmt.Printf("Server: %s\n", config.ServerURL)
	fmt.Printf("Clients: %d\n", config.NumClients)
	fmt.Printf("Interval: %v\n", config.ActionInterval)
	fmt.Printf("Duration: %v\n", config.TestDuration)
	fmt.Println("=========================================")

	ctx, cancel := context.WithTimeout(context.Background(), config.TestDuration)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupt received, stopping...")
		cancel()
	}()

	stats := runStressTest(ctx, config)
	printResults(stats, config)
}

func runStressTest(ctx context.Context, config Config) *Stats {
	stats := &Stats{
		Latencies: make([]time.Duration, 0, 10000),
	}

	var wg sync.WaitGroup

	fmt.Println("\nStarting clients...")

	for i := 0; i < config.NumClients; i++ {
		wg.Add(1)
		go func(clientID int) {
			defer wg.Done()
			runClient(ctx, clientID, config, stats)
		}(i)

		// Stagger client starts to avoid thundering herd
		time.Sleep(10 * time.Millisecond)
	}

	fmt.Printf("All %d clients started\n\n", config.NumClients)

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sent := atomic.LoadInt64(&stats.MessagesSent)
				recv := atomic.LoadInt64(&stats.MessagesReceived)
				errs := atomic.LoadInt64(&stats.Errors)
				fmt.Printf("Progress: Sent=%d Recv=%d Errors=%d\n", sent, recv, errs)
			}
		}
	}()

	wg.Wait()
	return stats
}

func runClient(ctx context.Context, clientID int, config Config, stats *Stats) {
	u, err := url.Parse(config.ServerURL)
	if err != nil {
		log.Printf("Client %d: URL parse error: %v", clientID, err)
		atomic.AddInt64(&stats.Errors, 1)
		return
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		log.Printf("Client %d: Connection failed: %v", clientID, err)
		atomic.AddInt64(&stats.Errors, 1)
		return
	}
	defer conn.Close()

	// Receiver: count snapshots and events pushed by the hub.
	go func() {
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				return
			}
			atomic.AddInt64(&stats.MessagesReceived, 1)
		}
	}()

	// Client 0 drives the session; everyone else just holds keys and
	// wiggles the mouse so the input buffer sees constant churn.
	if clientID == 0 {
		sendAction(conn, stats, map[string]interface{}{"type": "START"})
	}

	ticker := time.NewTicker(config.ActionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !sendAction(conn, stats, generateRandomAction(clientID)) {
				return
			}
		}
	}
}

func sendAction(conn *websocket.Conn, stats *Stats, action map[string]interface{}) bool {
	start := time.Now()
	if err := conn.WriteJSON(action); err != nil {
		atomic.AddInt64(&stats.Errors, 1)
		return false
	}
	atomic.AddInt64(&stats.MessagesSent, 1)

	stats.mu.Lock()
	stats.Latencies = append(stats.Latencies, time.Since(start))
	stats.mu.Unlock()
	return true
}

func generateRandomAction(clientID int) map[string]interface{} {
	roll := rand.Float64()

	switch {
	case roll < 0.5:
		// Held movement keys, random combination.
		return map[string]interface{}{
			"type": "INPUT",
			"payload": map[string]bool{
				"forward":  rand.Intn(2) == 0,
				"backward": rand.Intn(2) == 0,
				"left":     rand.Intn(2) == 0,
				"right":    rand.Intn(2) == 0,
			},
		}
	case roll < 0.85:
		// Mouse look jitter.
		return map[string]interface{}{
			"type": "LOOK",
			"payload": map[string]float64{
				"yaw":   (rand.Float64() - 0.5) * 0.2,
				"pitch": (rand.Float64() - 0.5) * 0.1,
			},
		}
	case roll < 0.97:
		return map[string]interface{}{"type": "INTERACT"}
	default:
		return map[string]interface{}{
			"type":    "MUTE",
			"payload": map[string]bool{"muted": rand.Intn(2) == 0},
		}
	}
}

func printResults(stats *Stats, config Config) {
	fmt.Println("\n=========================================")
	fmt.Println("STRESS TEST RESULTS")
	fmt.Println("=========================================")

	sent := atomic.LoadInt64(&stats.MessagesSent)
	recv := atomic.LoadInt64(&stats.MessagesReceived)
	errs := atomic.LoadInt64(&stats.Errors)

	fmt.Printf("Messages Sent:     %d\n", sent)
	fmt.Printf("Messages Received: %d\n", recv)
	fmt.Printf("Errors:            %d\n", errs)
	fmt.Printf("Error Rate:        %.2f%%\n", float64(errs)/float64(sent+1)*100)

	stats.mu.Lock()
	defer stats.mu.Unlock()
	if len(stats.Latencies) == 0 {
		return
	}
	sort.Slice(stats.Latencies, func(i, j int) bool { return stats.Latencies[i] < stats.Latencies[j] })
	p50 := stats.Latencies[len(stats.Latencies)/2]
	p99 := stats.Latencies[len(stats.Latencies)*99/100]
	fmt.Printf("Write Latency p50: %v\n", p50)
	fmt.Printf("Write Latency p99: %v\n", p99)
}
