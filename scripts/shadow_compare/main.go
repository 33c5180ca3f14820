// Command shadow_compare replays read-only requests against the Go survey API
// and the legacy PHP endpoints, and reports status and body differences. Used
// during the migration cutover to prove the two stacks answer alike.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"
)

// volatileFields never match between stacks and are stripped before
// comparison: generated hashes, timestamps, request ids.
var volatileFields = map[string]struct{}{
	"hash_session": {},
	"generado_en":  {},
	"fecha_envio":  {},
	"request_id":   {},
}

type target struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Critical bool   `json:"critical"`
}

type targetsFile struct {
	Targets []target `json:"targets"`
}

type result struct {
	Target         target
	LegacyStatus   int
	GoStatus       int
	StatusMatch    bool
	BodyMatch      bool
	Err            error
	DurationGo     time.Duration
	DurationLegacy time.Duration
}

func main() {
	var (
		goBase      string
		legacyBase  string
		targetsPath string
		timeout     time.Duration
	)

	flag.StringVar(&goBase, "go-base", "http://localhost:8080", "Go survey API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:8000", "Legacy PHP base URL")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "shadow_compare", "targets.json"), "Path to JSON targets file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var (
		results  []result
		breaking int
		optional int
	)

	for _, tgt := range targets {
		res := compare(client, goBase, legacyBase, tgt)
		if res.Err != nil || !res.StatusMatch || !res.BodyMatch {
			if tgt.Critical {
				breaking++
			} else {
				optional++
			}
		}
		results = append(results, res)
	}

	printReport(results)

	fmt.Printf("Breaking diffs: %d, Optional diffs: %d\n", breaking, optional)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file targetsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return file.Targets, nil
}

func compare(client *http.Client, goBase, legacyBase string, tgt target) result {
	res := result{Target: tgt}

	goBody, goStatus, goDur, err := fetch(client, goBase, tgt)
	if err != nil {
		res.Err = fmt.Errorf("go request failed: %w", err)
		return res
	}
	legacyBody, legacyStatus, legacyDur, err := fetch(client, legacyBase, tgt)
	if err != nil {
		res.Err = fmt.Errorf("legacy request failed: %w", err)
		return res
	}

	res.GoStatus = goStatus
	res.LegacyStatus = legacyStatus
	res.DurationGo = goDur
	res.DurationLegacy = legacyDur
	res.StatusMatch = goStatus == legacyStatus
	res.BodyMatch = bodiesEqual(goBody, legacyBody)
	return res
}

func fetch(client *http.Client, base string, tgt target) ([]byte, int, time.Duration, error) {
	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, nil)
	if err != nil {
		return nil, 0, 0, err
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, 0, err
	}
	return body, resp.StatusCode, time.Since(start), nil
}

func bodiesEqual(a, b []byte) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}

	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	normalize(&aj)
	normalize(&bj)
	return reflect.DeepEqual(aj, bj)
}

// normalize strips volatile fields and collapses integral floats so the two
// stacks' JSON encoders compare equal.
func normalize(v *interface{}) {
	switch val := (*v).(type) {
	case map[string]interface{}:
		for k, v2 := range val {
			if _, volatile := volatileFields[k]; volatile {
				delete(val, k)
				continue
			}
			normalize(&v2)
			val[k] = v2
		}
	case []interface{}:
		for i, v2 := range val {
			normalize(&v2)
			val[i] = v2
		}
	case float64:
		if val == float64(int64(val)) {
			*v = int64(val)
		}
	}
}

func printReport(results []result) {
	fmt.Println("Shadow Compare Report")
	fmt.Println("======================")
	for _, res := range results {
		status := "OK"
		if res.Err != nil {
			status = "ERROR"
		} else if !res.StatusMatch || !res.BodyMatch {
			status = "DIFF"
		}
		fmt.Printf("[%s] %s %s\n", status, res.Target.Method, res.Target.Path)
		if res.Err != nil {
			fmt.Printf("  Error: %v\n", res.Err)
			continue
		}
		fmt.Printf("  Go Status: %d (%s)\n", res.GoStatus, res.DurationGo)
		fmt.Printf("  Legacy Status: %d (%s)\n", res.LegacyStatus, res.DurationLegacy)
		fmt.Printf("  Status match: %t | Body match: %t | Critical: %t\n", res.StatusMatch, res.BodyMatch, res.Target.Critical)
	}
}
