package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// LoadTestConfig holds configuration for load testing
type LoadTestConfig struct {
	BaseURL         string
	ConcurrentUsers int
	RequestsPerUser int
	RaceAttempts    int
}

// LoadTestResult holds the results of load testing
type LoadTestResult struct {
	TotalRequests     int
	SuccessfulReqs    int
	FailedReqs        int
	AvgResponseTimeMs float64
	MaxResponseTimeMs int64
	MinResponseTimeMs int64
	ThroughputRPS     float64
	ErrorsByType      map[string]int

	RaceCreated   int
	RaceConflicts int
}

// LoadTester drives user CRUD lifecycles against a running server
type LoadTester struct {
	config    LoadTestConfig
	client    *http.Client
	runID     string
	results   LoadTestResult
	mutex     sync.Mutex
	startTime time.Time
}

// NewLoadTester creates a new load tester
func NewLoadTester(config LoadTestConfig) *LoadTester {
	return &LoadTester{
		config: config,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		runID: strings.ReplaceAll(uuid.New().String(), "-", "")[:8],
		results: LoadTestResult{
			ErrorsByType: make(map[string]int),
		},
	}
}

// RunLoadTest executes the CRUD load test
func (lt *LoadTester) RunLoadTest() {
	fmt.Printf("Starting load test with %d concurrent users...\n", lt.config.ConcurrentUsers)

	lt.startTime = time.Now()
	var wg sync.WaitGroup

	// Create semaphore to limit concurrent requests
	semaphore := make(chan struct{}, lt.config.ConcurrentUsers)

	totalLifecycles := lt.config.ConcurrentUsers * lt.config.RequestsPerUser

	for i := 0; i < totalLifecycles; i++ {
		wg.Add(1)

		go func(seq int) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			lt.simulateUserLifecycle(seq)
		}(i)
	}

	wg.Wait()

	lt.calculateMetrics()
}

// RunDuplicateRace fires concurrent creates for one username. The storage
// layer must accept exactly one of them.
func (lt *LoadTester) RunDuplicateRace() {
	username := "race_" + lt.runID
	var wg sync.WaitGroup

	for i := 0; i < lt.config.RaceAttempts; i++ {
		wg.Add(1)
		go func(seq int) {
			defer wg.Done()

			status, _, err := lt.send(http.MethodPost, "/users/", map[string]string{
				"username":         username,
				"email":            fmt.Sprintf("%s_%d@loadtest.local", username, seq),
				"password":         "loadtest-secret",
				"password_confirm": "loadtest-secret",
			})
			if err != nil {
				return
			}

			lt.mutex.Lock()
			defer lt.mutex.Unlock()
			switch status {
			case http.StatusCreated:
				lt.results.RaceCreated++
			case http.StatusBadRequest:
				lt.results.RaceConflicts++
			}
		}(i)
	}

	wg.Wait()
}

// simulateUserLifecycle creates, reads, updates and deletes one user
func (lt *LoadTester) simulateUserLifecycle(seq int) {
	username := fmt.Sprintf("lt_%s_%d", lt.runID, seq)

	status, body, err := lt.send(http.MethodPost, "/users/", map[string]string{
		"username":         username,
		"email":            username + "@loadtest.local",
		"password":         "loadtest-secret",
		"password_confirm": "loadtest-secret",
	})
	if err != nil || status != http.StatusCreated {
		return
	}

	var created struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		lt.recordError("decode_create")
		return
	}

	path := fmt.Sprintf("/users/%d", created.ID)
	if _, _, err := lt.send(http.MethodGet, path, nil); err != nil {
		return
	}
	if _, _, err := lt.send(http.MethodPut, path, map[string]string{"email": username + "@updated.local"}); err != nil {
		return
	}
	lt.send(http.MethodDelete, path, nil)
}

// send performs one request and records its outcome
func (lt *LoadTester) send(method, path string, payload interface{}) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			lt.recordError("json_marshal")
			return 0, nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, lt.config.BaseURL+path, reader)
	if err != nil {
		lt.recordError("build_request")
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	startTime := time.Now()
	resp, err := lt.client.Do(req)
	responseTime := time.Since(startTime)
	if err != nil {
		lt.recordError("http_request")
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		lt.recordError("read_body")
		return 0, nil, err
	}

	lt.recordResponse(method, resp.StatusCode, responseTime)
	return resp.StatusCode, body, nil
}

// recordResponse records the response metrics
func (lt *LoadTester) recordResponse(method string, statusCode int, responseTime time.Duration) {
	lt.mutex.Lock()
	defer lt.mutex.Unlock()

	lt.results.TotalRequests++
	responseTimeMs := responseTime.Milliseconds()

	if lt.results.MaxResponseTimeMs < responseTimeMs {
		lt.results.MaxResponseTimeMs = responseTimeMs
	}

	if lt.results.MinResponseTimeMs == 0 || lt.results.MinResponseTimeMs > responseTimeMs {
		lt.results.MinResponseTimeMs = responseTimeMs
	}

	// Calculate running average
	currentAvg := lt.results.AvgResponseTimeMs
	currentCount := float64(lt.results.TotalRequests)
	lt.results.AvgResponseTimeMs = (currentAvg*(currentCount-1) + float64(responseTimeMs)) / currentCount

	if statusCode >= 200 && statusCode < 300 {
		lt.results.SuccessfulReqs++
		return
	}
	lt.results.FailedReqs++
	lt.results.ErrorsByType[fmt.Sprintf("%s_http_%d", strings.ToLower(method), statusCode)]++
}

// recordError records an error that occurred before a response was received
func (lt *LoadTester) recordError(errorType string) {
	lt.mutex.Lock()
	defer lt.mutex.Unlock()

	lt.results.TotalRequests++
	lt.results.FailedReqs++
	lt.results.ErrorsByType[errorType]++
}

// calculateMetrics calculates final test metrics
func (lt *LoadTester) calculateMetrics() {
	totalDuration := time.Since(lt.startTime)
	if totalDuration > 0 {
		lt.results.ThroughputRPS = float64(lt.results.TotalRequests) / totalDuration.Seconds()
	}
}

// Results returns a copy of the collected metrics
func (lt *LoadTester) Results() LoadTestResult {
	lt.mutex.Lock()
	defer lt.mutex.Unlock()
	return lt.results
}

// printResults displays the load test results
func (lt *LoadTester) printResults() {
	r := lt.Results()
	total := r.TotalRequests
	if total == 0 {
		total = 1
	}

	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("USER SERVICE LOAD TEST RESULTS")
	fmt.Println(strings.Repeat("=", 80))

	fmt.Printf("Test Configuration:\n")
	fmt.Printf("  - Concurrent Users: %d\n", lt.config.ConcurrentUsers)
	fmt.Printf("  - Lifecycles per User: %d\n", lt.config.RequestsPerUser)
	fmt.Printf("  - Duplicate Race Attempts: %d\n", lt.config.RaceAttempts)

	fmt.Printf("\nOverall Performance:\n")
	fmt.Printf("  - Total Requests: %d\n", r.TotalRequests)
	fmt.Printf("  - Successful: %d (%.2f%%)\n", r.SuccessfulReqs, float64(r.SuccessfulReqs)/float64(total)*100)
	fmt.Printf("  - Failed: %d (%.2f%%)\n", r.FailedReqs, float64(r.FailedReqs)/float64(total)*100)

	fmt.Printf("\nResponse Time Metrics:\n")
	fmt.Printf("  - Average: %.2f ms\n", r.AvgResponseTimeMs)
	fmt.Printf("  - Minimum: %d ms\n", r.MinResponseTimeMs)
	fmt.Printf("  - Maximum: %d ms\n", r.MaxResponseTimeMs)

	fmt.Printf("\nThroughput:\n")
	fmt.Printf("  - Requests per Second: %.2f\n", r.ThroughputRPS)

	if len(r.ErrorsByType) > 0 {
		fmt.Printf("\nError Breakdown:\n")
		for errorType, count := range r.ErrorsByType {
			fmt.Printf("  - %s: %d\n", errorType, count)
		}
	}

	if lt.config.RaceAttempts > 0 {
		fmt.Printf("\nDuplicate Username Race:\n")
		fmt.Printf("  - Created: %d\n", r.RaceCreated)
		fmt.Printf("  - Rejected as conflict: %d\n", r.RaceConflicts)
		if r.RaceCreated == 1 {
			fmt.Printf("  ✅ Uniqueness held under concurrent creates\n")
		} else {
			fmt.Printf("  ❌ Expected exactly one create to succeed\n")
		}
	}
}

// loadtestCmd represents the loadtest command
var loadtestCmd = &cobra.Command{
	Use:   "loadtest",
	Short: "Run load tests against the user API",
	Long: `Run load tests against a running user service.
Each simulated user creates, reads, updates and deletes an account.
A duplicate-username race checks that concurrent creates of the same
username yield exactly one account.`,
	Run: func(cmd *cobra.Command, args []string) {
		runLoadTest()
	},
}

var (
	baseURL         string
	concurrentUsers int
	requestsPerUser int
	raceAttempts    int
)

func init() {
	rootCmd.AddCommand(loadtestCmd)

	loadtestCmd.Flags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the user API")
	loadtestCmd.Flags().IntVarP(&concurrentUsers, "concurrent", "c", 20, "Number of concurrent users")
	loadtestCmd.Flags().IntVar(&requestsPerUser, "requests", 5, "Number of lifecycles per user")
	loadtestCmd.Flags().IntVar(&raceAttempts, "race", 10, "Concurrent creates in the duplicate-username race (0 disables)")
}

func runLoadTest() {
	loadTester := NewLoadTester(LoadTestConfig{
		BaseURL:         strings.TrimRight(baseURL, "/"),
		ConcurrentUsers: concurrentUsers,
		RequestsPerUser: requestsPerUser,
		RaceAttempts:    raceAttempts,
	})

	fmt.Println("User Service Load Test")
	fmt.Println("======================")

	loadTester.RunLoadTest()
	if raceAttempts > 0 {
		loadTester.RunDuplicateRace()
	}
	loadTester.printResults()
}
