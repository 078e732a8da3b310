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

const baseURL = "http://localhost:3000/api/v1"

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
func doRequest(method, path, token string, body interface{}) (int, map[string]interface{}) {
	var reqBody io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	}

	req, err := http.NewRequest(method, baseURL+path, reqBody)
	if err != nil {
		color.Red("Request build failed: %v", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		color.Red("Request failed: %v", err)
		os.Exit(1)
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(res.Body)
	var parsed map[string]interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		parsed = map[string]interface{}{"raw": string(raw)}
	}
	return res.StatusCode, parsed
}

func step(name string) {
	color.Cyan("\n=== %s ===", name)
}

func main() {
	token := os.Getenv("SMOKE_TOKEN")
	if token == "" {
		color.Yellow("SMOKE_TOKEN not set; requests will hit auth walls")
	}
	userId := os.Getenv("SMOKE_USER_ID")
	if userId == "" {
		userId = "smoke-user"
	}

	step("Create session")
	status, res := doRequest("POST", "/session/new", token, map[string]string{
		"userId": userId,
		"title":  "New chat",
	})
	prettyPrint(res)
	if status != http.StatusCreated {
		color.Red("Create session failed with status %d", status)
		os.Exit(1)
	}
	sessionId, _ := res["sessionId"].(string)
	color.Green("Session: %s", sessionId)

	step("Send message")
	status, res = doRequest("POST", "/chat/"+sessionId+"?question=What+is+2%2B2%3F", token, nil)
	prettyPrint(res)
	if status != http.StatusOK {
		color.Red("Send failed with status %d", status)
		os.Exit(1)
	}
	messageId, _ := res["messageId"].(string)

	step("Regenerate answer")
	status, res = doRequest("POST", "/chat/regenerate/"+sessionId+"/"+messageId, token, nil)
	prettyPrint(res)
	if status != http.StatusOK {
		color.Red("Regenerate failed with status %d", status)
	}

	step("Navigate back")
	status, res = doRequest("PUT", "/chat/"+sessionId+"/"+messageId+"/-1", token, nil)
	prettyPrint(res)
	if status != http.StatusOK {
		color.Red("Navigate failed with status %d", status)
	}

	step("Fetch history")
	status, res = doRequest("GET", "/session/"+sessionId, token, nil)
	prettyPrint(res)
	if status != http.StatusOK {
		color.Red("History failed with status %d", status)
	}

	step("Share twice (idempotent)")
	_, first := doRequest("GET", "/session/share/"+sessionId, token, nil)
	_, second := doRequest("GET", "/session/share/"+sessionId, token, nil)
	prettyPrint(second)
	if first["shareableUrl"] != second["shareableUrl"] {
		color.Red("Share URLs differ between calls")
	} else {
		color.Green("Share URL stable: %v", second["shareableUrl"])
	}

	step("Shared history without token")
	status, res = doRequest("GET", "/session/history/"+sessionId, "", nil)
	prettyPrint(res)
	if status != http.StatusOK {
		color.Red("Shared history failed with status %d", status)
	}

	step("Delete session")
	status, res = doRequest("DELETE", "/session/deleteSession?sessionId="+sessionId, token, nil)
	prettyPrint(res)
	if status != http.StatusOK {
		color.Red("Delete failed with status %d", status)
	}

	step("History after delete (expect 404)")
	status, res = doRequest("GET", "/session/"+sessionId, token, nil)
	prettyPrint(res)
	if status != http.StatusNotFound {
		color.Red("Expected 404 after delete, got %d", status)
	} else {
		color.Green("Deleted session is gone")
	}

	color.Green("\nSmoke run finished")
}
