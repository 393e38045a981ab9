package main

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

const (
	targetHost = "http://localhost:8081" // e2e окружение
	secret     = "e2e-secret"
	rps        = 10
	duration   = 1 * time.Minute
	prCount    = 200
)

type putToReviewRequest struct {
	Repository   string `json:"repository"`
	PRIdentifier string `json:"pr_identifier"`
	Channel      string `json:"channel"`
	MessageID    string `json:"message_id"`
}

var httpc = &http.Client{Timeout: 10 * time.Second}

func postJSON(url string, body any) (int, error) {
	b, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := httpc.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

// Seed: ставим PR на ревью, чтобы вебхукам было во что попадать.
func seedData() error {
	log.Println("Seeding: putting PRs to review...")

	for i := 1; i <= prCount; i++ {
		req := putToReviewRequest{
			Repository:   "acme/repo",
			PRIdentifier: fmt.Sprintf("acme/repo/%d", i),
			Channel:      "squad",
			MessageID:    fmt.Sprintf("squad@%d.1", i),
		}
		status, err := postJSON(targetHost+"/chat/putToReview", req)
		if err != nil {
			return err
		}
		if status != http.StatusOK {
			return fmt.Errorf("seed failed for %s: status %d", req.PRIdentifier, status)
		}
	}

	log.Printf("Seeded %d PRs", prCount)
	return nil
}

func signedWebhookTarget() vegeta.Target {
	number := rand.Intn(prCount) + 1
	states := []string{"approved", "changes_requested", "commented"}
	payload := fmt.Sprintf(`{
		"action": "submitted",
		"review": {"state": %q},
		"pull_request": {"number": %d},
		"repository": {"full_name": "acme/repo"}
	}`, states[rand.Intn(len(states))], number)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	signature := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	return vegeta.Target{
		Method: http.MethodPost,
		URL:    targetHost + "/vcs/github",
		Body:   []byte(payload),
		Header: http.Header{
			"Content-Type":        []string{"application/json"},
			"X-GitHub-Event":      []string{"pull_request_review"},
			"X-Hub-Signature-256": []string{signature},
		},
	}
}

func listingTarget() vegeta.Target {
	return vegeta.Target{
		Method: http.MethodGet,
		URL:    targetHost + "/prs",
	}
}

func main() {
	if err := seedData(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	targeter := func(tgt *vegeta.Target) error {
		if tgt == nil {
			return vegeta.ErrNilTarget
		}
		// 4 из 5 запросов — вебхуки ревью, пятый — листинг
		if rand.Intn(5) == 0 {
			*tgt = listingTarget()
		} else {
			*tgt = signedWebhookTarget()
		}
		return nil
	}

	attacker := vegeta.NewAttacker()
	rate := vegeta.Rate{Freq: rps, Per: time.Second}

	log.Printf("Attacking %s at %d rps for %v", targetHost, rps, duration)

	var metrics vegeta.Metrics
	for res := range attacker.Attack(targeter, rate, duration, "review-webhooks") {
		metrics.Add(res)
	}
	metrics.Close()

	log.Printf("Requests: %d", metrics.Requests)
	log.Printf("Success rate: %.2f%%", metrics.Success*100)
	log.Printf("Latency p50: %v, p95: %v, p99: %v", metrics.Latencies.P50, metrics.Latencies.P95, metrics.Latencies.P99)
	log.Printf("Status codes: %v", metrics.StatusCodes)
}
