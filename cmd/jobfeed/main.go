// Package main subscribes to the live job feed and prints every event. With
// recruiter credentials it also posts jobs so the feed can be load tested.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

// Metrics tracks the run results
type Metrics struct {
	ConnectionsAttempted int64
	ConnectionsSuccess   int64
	ConnectionsFailed    int64
	EventsReceived       int64
	JobsPosted           int64
	Errors               int64
}

var metrics Metrics

type feedEvent struct {
	Type   string `json:"type"`
	JobID  uint   `json:"jobId"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

func main() {
	host := flag.String("host", "localhost:5000", "API server host")
	clients := flag.Int("clients", 1, "Number of concurrent feed subscribers")
	duration := flag.Duration("duration", 0, "Run time (0 runs until interrupted)")
	quiet := flag.Bool("quiet", false, "Only print the summary")
	email := flag.String("email", "", "Recruiter email; enables job posting")
	password := flag.String("password", "", "Recruiter password")
	postEvery := flag.Duration("post-every", 5*time.Second, "Interval between posted jobs")
	flag.Parse()

	log.Printf("📡 Job feed client")
	log.Printf("Target: %s", *host)
	log.Printf("Subscribers: %d", *clients)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup
	stopChan := make(chan struct{})

	for i := 0; i < *clients; i++ {
		wg.Add(1)
		go runSubscriber(*host, i, !*quiet && i == 0, stopChan, &wg)
		time.Sleep(20 * time.Millisecond)
	}

	if *email != "" {
		token, err := login(*host, *email, *password)
		if err != nil {
			log.Fatalf("❌ Login failed: %v", err)
		}
		log.Printf("✅ Logged in as %s", *email)
		wg.Add(1)
		go runPoster(*host, token, *postEvery, stopChan, &wg)
	}

	var timeout <-chan time.Time
	if *duration > 0 {
		timeout = time.After(*duration)
	}
	select {
	case <-timeout:
		log.Println("⏱️  Duration reached")
	case <-interrupt:
		log.Println("🛑 Interrupted by user")
	}

	close(stopChan)
	wg.Wait()

	printMetrics()
}

func login(host, email, password string) (string, error) {
	loginURL := fmt.Sprintf("http://%s/api/auth/login", host)
	body, _ := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})

	resp, err := http.Post(loginURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.Token, nil
}

func runSubscriber(host string, id int, printEvents bool, stopChan <-chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()
	atomic.AddInt64(&metrics.ConnectionsAttempted, 1)

	u := url.URL{Scheme: "ws", Host: host, Path: "/api/ws/jobs"}
	c, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		atomic.AddInt64(&metrics.ConnectionsFailed, 1)
		atomic.AddInt64(&metrics.Errors, 1)
		log.Printf("subscriber %d: dial failed: %v", id, err)
		return
	}
	if resp != nil && resp.Body != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	defer func() { _ = c.Close() }()

	atomic.AddInt64(&metrics.ConnectionsSuccess, 1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				return
			}
			atomic.AddInt64(&metrics.EventsReceived, 1)
			if printEvents {
				printEvent(msg)
			}
		}
	}()

	select {
	case <-stopChan:
		_ = c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	case <-done:
		log.Printf("subscriber %d: server closed the feed", id)
	}
}

func printEvent(raw []byte) {
	var ev feedEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		log.Printf("? %s", raw)
		return
	}
	log.Printf("%-20s job=%d status=%s %s", ev.Type, ev.JobID, ev.Status, ev.Title)
}

func runPoster(host, token string, every time.Duration, stopChan <-chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()
	client := &http.Client{Timeout: 5 * time.Second}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	n := 0
	for {
		select {
		case <-stopChan:
			return
		case <-ticker.C:
			n++
			body, _ := json.Marshal(map[string]any{
				"title":       fmt.Sprintf("Feed test job %d", n),
				"location":    "Remote",
				"duration":    "1 month",
				"description": "Posted by the job feed client",
				"skills":      []string{"Go"},
			})
			req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("http://%s/api/jobs", host), bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := client.Do(req)
			if err != nil {
				atomic.AddInt64(&metrics.Errors, 1)
				continue
			}
			_ = resp.Body.Close()
			if resp.StatusCode != http.StatusCreated {
				atomic.AddInt64(&metrics.Errors, 1)
				continue
			}
			atomic.AddInt64(&metrics.JobsPosted, 1)
		}
	}
}

func printMetrics() {
	log.Println("\n📊 Results")
	log.Println("==========")
	log.Printf("Connections Attempted: %d", atomic.LoadInt64(&metrics.ConnectionsAttempted))
	log.Printf("Connections Successful: %d", atomic.LoadInt64(&metrics.ConnectionsSuccess))
	log.Printf("Connections Failed: %d", atomic.LoadInt64(&metrics.ConnectionsFailed))
	log.Printf("Events Received: %d", atomic.LoadInt64(&metrics.EventsReceived))
	log.Printf("Jobs Posted: %d", atomic.LoadInt64(&metrics.JobsPosted))
	log.Printf("Total Errors: %d", atomic.LoadInt64(&metrics.Errors))
}
