package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Posts one synthetic tracked-page session against a running timer-api, the
// way the browser instrumentation would: an open, a few heartbeats with
// accrued active time, and a final unload.
func main() {
	baseURL := flag.String("url", "http://localhost:8080", "timer-api base URL")
	email := flag.String("email", "jane.doe@example.com", "user email")
	complaint := flag.String("complaint", "60512345", "complaint id")
	section := flag.String("section", "Reportability Assessment", "section label")
	heartbeats := flag.Int("heartbeats", 3, "number of heartbeat events")
	flag.Parse()

	sessionID := uuid.New().String()
	fmt.Printf("session %s\n", sessionID)

	send := func(reason string, activeMS, idleMS int64) {
		payload := map[string]any{
			"ts":           time.Now().UTC().Format(time.RFC3339),
			"email":        *email,
			"team":         "GCH",
			"complaint_id": *complaint,
			"source":       "timer-client",
			"section":      *section,
			"reason":       reason,
			"active_ms":    activeMS,
			"idle_ms":      idleMS,
			"page":         "https://crm.example.com/case",
			"session_id":   sessionID,
		}

		body, err := json.Marshal(payload)
		if err != nil {
			log.Fatalf("marshal payload: %v", err)
		}

		resp, err := http.Post(*baseURL+"/ingest", "application/json", bytes.NewReader(body))
		if err != nil {
			log.Fatalf("post %s: %v", reason, err)
		}
		defer resp.Body.Close()

		fmt.Printf("%-10s -> %s\n", reason, resp.Status)
	}

	send("open", 0, 0)
	for i := 0; i < *heartbeats; i++ {
		time.Sleep(time.Second)
		send("heartbeat", 60000, 5000)
	}
	send("unload", 30000, 0)

	resp, err := http.Get(*baseURL + "/sessions")
	if err != nil {
		log.Fatalf("get sessions: %v", err)
	}
	defer resp.Body.Close()

	var sessions []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&sessions); err != nil {
		log.Fatalf("decode sessions: %v", err)
	}
	fmt.Printf("sessions: %d\n", len(sessions))
}
