package main

import (
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	vegeta "github.com/tsenart/vegeta/v12/lib"
)

const (
	defaultTarget = "http://localhost:8080"
	rps           = 20
	duration      = 1 * time.Minute
	// Доля POST /api/refresh: конфликтующие обновления должны получать 409, а не ломать дашборд
	refreshShare = 0.02
)

func targetHost() string {
	if v := os.Getenv("LOADTEST_TARGET"); v != "" {
		return v
	}
	return defaultTarget
}

// waitHealthy ждет, пока сервис начнет отвечать на /health.
func waitHealthy(host string) error {
	client := resty.New().SetTimeout(2 * time.Second)
	for i := 0; i < 30; i++ {
		resp, err := client.R().Get(host + "/health")
		if err == nil && resp.StatusCode() == http.StatusOK {
			return nil
		}
		time.Sleep(time.Second)
	}
	return fmt.Errorf("service at %s is not healthy", host)
}

// Targeter
func makeTargeter(host string) vegeta.Targeter {
	return func(t *vegeta.Target) error {
		r := rand.Float64()
		t.Body = nil

		// 50% GET / (HTML страница)
		if r < 0.50 {
			t.Method = http.MethodGet
			t.URL = host + "/"
			t.Header = map[string][]string{"Accept": {"text/html"}}
			return nil
		}

		// 38% GET /api/dashboard
		if r < 0.88 {
			t.Method = http.MethodGet
			t.URL = host + "/api/dashboard"
			t.Header = map[string][]string{"Accept": {"application/json"}}
			return nil
		}

		// 10% GET /api/dashboard-stats
		if r < 1-refreshShare {
			t.Method = http.MethodGet
			t.URL = host + "/api/dashboard-stats"
			t.Header = map[string][]string{"Accept": {"application/json"}}
			return nil
		}

		t.Method = http.MethodPost
		t.URL = host + "/api/refresh"
		t.Header = map[string][]string{"Accept": {"application/json"}}
		return nil
	}
}

// Attack
func runAttack(host string) {
	rate := vegeta.Rate{Freq: rps, Per: time.Second}
	attacker := vegeta.NewAttacker()
	targeter := makeTargeter(host)

	var metrics vegeta.Metrics
	conflicts := 0

	log.Printf("Starting attack: %s for %s", host, duration)
	for res := range attacker.Attack(targeter, rate, duration, "dashboard-load-test") {
		if res.Code == http.StatusConflict {
			conflicts++
		}
		metrics.Add(res)
	}
	metrics.Close()

	fmt.Println("=== Results ===")
	fmt.Printf("Requests: %d\n", metrics.Requests)
	fmt.Printf("Success rate: %.4f%%\n", metrics.Success*100)
	fmt.Printf("Refresh conflicts (409): %d\n", conflicts)
	fmt.Printf("Latency mean: %s\n", metrics.Latencies.Mean)
	fmt.Printf("Latency P95: %s\n", metrics.Latencies.P95)
	fmt.Printf("Latency P99: %s\n", metrics.Latencies.P99)
}

func main() {
	host := targetHost()

	if err := waitHealthy(host); err != nil {
		log.Fatalf("Health check failed: %v", err)
	}

	runAttack(host)
}
