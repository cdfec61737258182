// Command seeder generates synthetic log traffic against the ingestion API.
// Useful for demos and for exercising the detection pipeline end to end.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

var (
	apiURL    = flag.String("url", "http://localhost:8081", "ingestion API base URL")
	count     = flag.Int("count", 100, "number of log entries to generate")
	interval  = flag.Duration("interval", 100*time.Millisecond, "interval between batches")
	batchSize = flag.Int("batch-size", 10, "number of entries per batch")
	attackPct = flag.Int("attack-pct", 20, "percentage of entries that look like attack traffic")
)

type logEntry struct {
	Source     string `json:"source"`
	LogLevel   string `json:"logLevel,omitempty"`
	Message    string `json:"message"`
	SourceIP   string `json:"sourceIp,omitempty"`
	UserID     string `json:"userId,omitempty"`
	Endpoint   string `json:"endpoint,omitempty"`
	Method     string `json:"method,omitempty"`
	StatusCode *int   `json:"statusCode,omitempty"`
}

type batchRequest struct {
	Logs []logEntry `json:"logs"`
}

var sources = []string{"auth-service", "payment-api", "user-api", "admin-portal", "nginx"}

var normalMessages = []string{
	"request completed",
	"user login successful",
	"session refreshed",
	"password changed",
	"health check ok",
}

var attackMessages = []string{
	"failed login attempt for user admin",
	"SQL syntax error near ' OR '1'='1",
	"blocked request: path traversal ../../etc/passwd",
	"rate limit exceeded",
	"invalid token signature",
}

func main() {
	flag.Parse()

	gofakeit.Seed(time.Now().UnixNano())

	log.Printf("Starting log seeder:")
	log.Printf("  API URL: %s", *apiURL)
	log.Printf("  Entry count: %d", *count)
	log.Printf("  Batch size: %d", *batchSize)
	log.Printf("  Attack traffic: %d%%", *attackPct)

	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	successCount := 0
	failCount := 0

	batch := make([]logEntry, 0, *batchSize)
	for i := 0; i < *count; i++ {
		batch = append(batch, generateEntry())

		if len(batch) == *batchSize || i == *count-1 {
			if err := sendBatch(client, batch); err != nil {
				log.Printf("batch failed: %v", err)
				failCount += len(batch)
			} else {
				successCount += len(batch)
			}
			batch = batch[:0]
			time.Sleep(*interval)
		}
	}

	log.Printf("Done: %d sent, %d failed", successCount, failCount)
}

func generateEntry() logEntry {
	status := 200
	entry := logEntry{
		Source:     sources[rand.Intn(len(sources))],
		LogLevel:   "INFO",
		Message:    normalMessages[rand.Intn(len(normalMessages))],
		SourceIP:   gofakeit.IPv4Address(),
		UserID:     gofakeit.Username(),
		Endpoint:   "/api/" + gofakeit.Word(),
		Method:     gofakeit.HTTPMethod(),
		StatusCode: &status,
	}

	if rand.Intn(100) < *attackPct {
		failStatus := []int{401, 403, 500}[rand.Intn(3)]
		entry.LogLevel = "WARN"
		entry.Message = attackMessages[rand.Intn(len(attackMessages))]
		entry.StatusCode = &failStatus
	}

	return entry
}

func sendBatch(client *http.Client, entries []logEntry) error {
	body, err := json.Marshal(batchRequest{Logs: entries})
	if err != nil {
		return err
	}

	resp, err := client.Post(*apiURL+"/api/logs/batch", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
