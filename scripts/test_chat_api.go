package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	return resp, respBody, nil
}

func decode(body []byte) map[string]interface{} {
	var out map[string]interface{}
	_ = json.Unmarshal(body, &out)
	return out
}

func main() {
	color.Cyan("🚀 Starting Chat API Smoke Test\n")

	// 1. Health
	color.Yellow("\n1. Health Check")
	resp, body, err := sendRequest("GET", "/../health", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 2. Direct chat
	color.Yellow("\n2. Send Chat: 'What CPE courses do you offer for CPAs?'")
	resp, body, err = sendRequest("POST", "/chat/v1", map[string]string{
		"message": "What CPE courses do you offer for CPAs?",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	chatBody := decode(body)
	prettyPrint(chatBody)

	// 3. Follow-up on the same thread
	threadID := ""
	if data, ok := chatBody["data"].(map[string]interface{}); ok {
		threadID, _ = data["threadId"].(string)
	}
	if threadID != "" {
		color.Yellow("\n3. Follow-up on thread %s", threadID)
		resp, body, err = sendRequest("POST", "/chat/v1", map[string]string{
			"message":  "Which of those count toward ethics requirements?",
			"threadId": threadID,
		})
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		color.Green("Status: %s", resp.Status)
		prettyPrint(decode(body))
	} else {
		color.Red("Skipping follow-up: no threadId returned")
	}

	// 4. Widget flow
	color.Yellow("\n4. Widget Bootstrap")
	resp, body, err = sendRequest("POST", "/chat/v1/widget/bootstrap", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	bootBody := decode(body)
	prettyPrint(bootBody)

	nonce := ""
	if data, ok := bootBody["data"].(map[string]interface{}); ok {
		nonce, _ = data["nonce"].(string)
	}
	if nonce == "" {
		color.Red("No nonce returned, aborting widget test")
		os.Exit(1)
	}

	color.Yellow("\n5. Widget Chat")
	resp, body, err = sendRequest("POST", "/chat/v1/widget", map[string]string{
		"message": "Do you have divorce taxation courses?",
		"nonce":   nonce,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	color.Yellow("\n6. Widget Reset")
	resp, body, err = sendRequest("POST", "/chat/v1/widget/reset", map[string]string{
		"nonce": nonce,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	color.Cyan("\n✅ Smoke test finished")
}
