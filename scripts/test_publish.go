//go:build ignore
// +build ignore

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

type envelope struct {
	Data json.RawMessage `json:"data"`
}

type asyncSearch struct {
	RequestID string `json:"request_id"`
	SessionID string `json:"session_id"`
	Seq       uint64 `json:"seq"`
}

func post(url string, body interface{}, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s: status %d", url, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return err
	}
	return json.Unmarshal(env.Data, out)
}

func main() {
	apiAddr := flag.String("api", "http://localhost:8080", "API base URL")
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	category := flag.String("category", "cafe", "Place category")
	radius := flag.Int("radius", 3000, "Search radius in meters")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	// Проверка подключения
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Сессия с устройством в районе Jing'an
	var session struct {
		State struct {
			SessionID string `json:"session_id"`
		} `json:"state"`
	}
	err := post(*apiAddr+"/api/v1/sessions", map[string]interface{}{
		"device": map[string]interface{}{
			"auth_status": true,
			"latitude":    31.2286,
			"longitude":   121.4484,
		},
	}, &session)
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	var queued asyncSearch
	err = post(*apiAddr+"/api/v1/sessions/"+session.State.SessionID+"/search/async", map[string]interface{}{
		"category": *category,
		"radius":   *radius,
	}, &queued)
	if err != nil {
		log.Fatalf("Failed to enqueue search: %v", err)
	}

	fmt.Printf("Search enqueued\n")
	fmt.Printf("   Session ID: %s\n", queued.SessionID)
	fmt.Printf("   Request ID: %s\n", queued.RequestID)
	fmt.Printf("   Seq: %d\n", queued.Seq)

	fmt.Printf("\nWaiting for response in stream:places:done...\n")

	timeout := time.After(30 * time.Second)
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			fmt.Println("Timeout waiting for response")
			return
		case <-ticker.C:
			results, err := client.XRead(ctx, &redis.XReadArgs{
				Streams: []string{"stream:places:done", "0"},
				Count:   100,
				Block:   -1,
			}).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				continue
			}

			for _, stream := range results {
				for _, msg := range stream.Messages {
					dataStr, ok := msg.Values["data"].(string)
					if !ok {
						continue
					}

					var response map[string]interface{}
					if err := json.Unmarshal([]byte(dataStr), &response); err != nil {
						continue
					}

					if response["request_id"] == queued.RequestID {
						fmt.Printf("\nResponse received!\n")
						prettyJSON, _ := json.MarshalIndent(response, "", "  ")
						fmt.Printf("%s\n", prettyJSON)
						return
					}
				}
			}
		}
	}
}
