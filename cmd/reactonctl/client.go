package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

func getRef(addr, name string) (map[string]any, error) {
	resp, err := http.Get(addr + "/v1/refs/" + name)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reactonctl: %v", out["error"])
	}
	return out, nil
}

func setRef(addr, name string, value any) error {
	body, err := json.Marshal(map[string]any{"value": value})
	if err != nil {
		return err
	}
	resp, err := http.Post(addr+"/v1/refs/"+name, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var out map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&out)
		return fmt.Errorf("reactonctl: %v", out["error"])
	}
	return nil
}

func fetchGraph(addr string) (string, error) {
	resp, err := http.Get(addr + "/v1/graph")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(bufio.NewReader(resp.Body)); err != nil {
		return "", err
	}
	return buf.String(), nil
}
