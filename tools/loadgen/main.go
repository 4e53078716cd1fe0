// Command loadgen drives a running ledger backend with a mixed
// read/write workload, for eyeballing latency before a release.
//
// Usage:
//
//	loadgen -addr http://localhost:8080 -operator mom -pin 1234 -workers 4 -duration 30s
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

type options struct {
	addr     string
	operator string
	pin      string
	workers  int
	duration time.Duration
}

type stats struct {
	requests atomic.Int64
	errors   atomic.Int64

	mu        sync.Mutex
	latencies []time.Duration
}

func (s *stats) record(d time.Duration, err bool) {
	s.requests.Add(1)
	if err {
		s.errors.Add(1)
		return
	}
	s.mu.Lock()
	s.latencies = append(s.latencies, d)
	s.mu.Unlock()
}

func main() {
	var opts options
	flag.StringVar(&opts.addr, "addr", "http://localhost:8080", "Base URL of the backend")
	flag.StringVar(&opts.operator, "operator", "mom", "Operator name for login")
	flag.StringVar(&opts.pin, "pin", "1234", "Operator PIN")
	flag.IntVar(&opts.workers, "workers", 4, "Concurrent workers")
	flag.DurationVar(&opts.duration, "duration", 30*time.Second, "How long to run")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	token, err := login(client, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "login failed: %v\n", err)
		os.Exit(1)
	}

	st := &stats{}
	deadline := time.Now().Add(opts.duration)

	var wg sync.WaitGroup
	for i := 0; i < opts.workers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for time.Now().Before(deadline) {
				runOne(client, opts, token, rng, st)
			}
		}(int64(i) + time.Now().UnixNano())
	}
	wg.Wait()

	report(st, opts)
}

func login(client *http.Client, opts options) (string, error) {
	body, _ := json.Marshal(map[string]string{
		"operator": opts.operator,
		"pin":      opts.pin,
	})
	resp, err := client.Post(opts.addr+"/api/v1/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, b)
	}

	var parsed struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if parsed.Data.AccessToken == "" {
		return "", fmt.Errorf("empty access token")
	}
	return parsed.Data.AccessToken, nil
}

// runOne fires a single weighted-random request. Reads dominate the
// mix the way they do in real shop traffic.
func runOne(client *http.Client, opts options, token string, rng *rand.Rand, st *stats) {
	var (
		method = http.MethodGet
		path   string
		body   []byte
	)

	switch n := rng.Intn(10); {
	case n < 4:
		path = "/api/v1/debts?page=1&page_size=20"
	case n < 6:
		path = "/api/v1/finance/summary"
	case n < 8:
		path = "/api/v1/sales/totals"
	case n < 9:
		method = http.MethodPost
		path = "/api/v1/debts"
		body, _ = json.Marshal(map[string]interface{}{
			"customer_name":     fmt.Sprintf("loadgen-%d", rng.Intn(100000)),
			"items_description": "imiringa",
			"amount":            1000 + rng.Intn(9000),
		})
	default:
		method = http.MethodPost
		path = "/api/v1/sales"
		body, _ = json.Marshal(map[string]interface{}{
			"item_name":  "isaha",
			"cost_price": 2000,
			"sale_price": 3500,
			"quantity":   1,
		})
	}

	req, err := http.NewRequest(method, opts.addr+path, bytes.NewReader(body))
	if err != nil {
		st.record(0, true)
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		st.record(elapsed, true)
		return
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	st.record(elapsed, resp.StatusCode >= 500)
}

func report(st *stats, opts options) {
	st.mu.Lock()
	lat := st.latencies
	st.mu.Unlock()

	sort.Slice(lat, func(i, j int) bool { return lat[i] < lat[j] })
	pct := func(p float64) time.Duration {
		if len(lat) == 0 {
			return 0
		}
		idx := int(float64(len(lat)-1) * p)
		return lat[idx]
	}

	total := st.requests.Load()
	fmt.Printf("requests: %d\n", total)
	fmt.Printf("errors:   %d\n", st.errors.Load())
	fmt.Printf("rps:      %.1f\n", float64(total)/opts.duration.Seconds())
	fmt.Printf("p50:      %s\n", pct(0.50))
	fmt.Printf("p95:      %s\n", pct(0.95))
	fmt.Printf("p99:      %s\n", pct(0.99))
}
