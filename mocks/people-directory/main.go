package main

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort      = "8082"
	defaultLatencyMs = "100"
	maxResults       = 5000
)

type Response struct {
	Results []User `json:"results"`
	Info    Info   `json:"info"`
}

type Info struct {
	Seed    string `json:"seed"`
	Results int    `json:"results"`
	Page    int    `json:"page"`
	Version string `json:"version"`
}

type User struct {
	Name     Name     `json:"name"`
	Email    string   `json:"email"`
	Location Location `json:"location"`
	DOB      DOB      `json:"dob"`
	Picture  Picture  `json:"picture"`
	Nat      string   `json:"nat"`
}

type Name struct {
	Title string `json:"title"`
	First string `json:"first"`
	Last  string `json:"last"`
}

type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

type DOB struct {
	Date string `json:"date"`
	Age  int    `json:"age"`
}

type Picture struct {
	Large     string `json:"large"`
	Medium    string `json:"medium"`
	Thumbnail string `json:"thumbnail"`
}

var (
	latencyMs = getEnvInt("LATENCY_MS", defaultLatencyMs)
	// FAIL_MODE forces every batch request to fail: unavailable, rate_limited, error or malformed.
	failMode = getEnv("FAIL_MODE", "")
)

func main() {
	port := getEnv("PORT", defaultPort)

	http.HandleFunc("/health", handleHealth)
	http.HandleFunc("/api/", handleBatch)

	log.Printf("👥 Mock People Directory API starting on port %s", port)
	log.Printf("⏱️  Simulated latency: %dms", latencyMs)
	if failMode != "" {
		log.Printf("💥 Failure mode: %s", failMode)
	}

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal(err)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "people-directory",
		"version": "1.4",
	})
}

// fixtureUsers is returned verbatim for seed "e2e" so end-to-end scenarios can
// assert exact names and counts.
var fixtureUsers = []User{
	fixture("John", "Walker", "United States", "us", "1993-07-20T09:44:18.674Z", "men", 11),
	fixture("Ingrid", "Berg", "Norway", "no", "1971-03-04T02:10:00.000Z", "women", 12),
	fixture("Johnny", "Silva", "Brazil", "br", "1985-11-30T23:15:42.120Z", "men", 13),
	fixture("Emma", "Johnson", "United States", "us", "1999-12-31T12:00:00.000Z", "women", 14),
	fixture("Lukas", "Müller", "Germany", "de", "1962-05-05T06:30:00.000Z", "men", 15),
	fixture("Chloé", "Martin", "France", "fr", "2001-01-01T00:00:00.000Z", "women", 16),
}

// failureSeeds let a single run trigger a failure without restarting the mock.
var failureSeeds = map[string]string{
	"fail-unavailable": "unavailable",
	"fail-rate":        "rate_limited",
	"fail-error":       "error",
	"fail-malformed":   "malformed",
}

func handleBatch(w http.ResponseWriter, r *http.Request) {
	time.Sleep(time.Duration(latencyMs) * time.Millisecond)

	log.Printf("📥 Incoming request: %s %s from %s", r.Method, r.URL.RequestURI(), r.RemoteAddr)

	if r.Method != http.MethodGet {
		sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	seed := q.Get("seed")

	mode := failMode
	if m, ok := failureSeeds[seed]; ok {
		mode = m
	}
	switch mode {
	case "unavailable":
		sendError(w, "Service temporarily unavailable", http.StatusServiceUnavailable)
		return
	case "rate_limited":
		sendError(w, "Too many requests", http.StatusTooManyRequests)
		return
	case "error":
		sendError(w, "Uh oh, something has gone wrong. Please tweet us @randomapi about the issue. Thank you.", http.StatusOK)
		return
	case "malformed":
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"results":[{"name":`))
		log.Printf("❌ Sent malformed body")
		return
	}

	results := 1
	if v := q.Get("results"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			n = 1
		}
		results = min(n, maxResults)
	}
	if seed == "" {
		seed = strconv.FormatInt(time.Now().UnixNano(), 16)
	}

	var users []User
	if seed == "e2e" {
		users = fixtureUsers[:min(results, len(fixtureUsers))]
	} else {
		users = generateUsers(seed, results, nationalityFilter(q.Get("nat")))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(Response{
		Results: users,
		Info:    Info{Seed: seed, Results: len(users), Page: 1, Version: "1.4"},
	})

	log.Printf("✅ Batch served: seed=%s results=%d", seed, len(users))
}

var nationalities = []struct {
	Code    string
	Country string
}{
	{"us", "United States"},
	{"gb", "United Kingdom"},
	{"no", "Norway"},
	{"de", "Germany"},
	{"fr", "France"},
	{"br", "Brazil"},
	{"ca", "Canada"},
	{"es", "Spain"},
	{"au", "Australia"},
	{"nl", "Netherlands"},
}

// nationalityFilter returns the indexes into nationalities allowed by a nat parameter.
// An empty or fully unknown parameter allows all of them.
func nationalityFilter(nat string) []int {
	var allowed []int
	for _, code := range strings.Split(strings.ToLower(nat), ",") {
		code = strings.TrimSpace(code)
		for i, n := range nationalities {
			if n.Code == code {
				allowed = append(allowed, i)
			}
		}
	}
	if len(allowed) == 0 {
		for i := range nationalities {
			allowed = append(allowed, i)
		}
	}
	return allowed
}

func generateUsers(seed string, count int, allowed []int) []User {
	firstNames := []string{"Alice", "Bob", "Carol", "David", "Emma", "Frank", "Grace", "Henry", "Isabel", "Jack", "Johan", "Maria"}
	lastNames := []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Berg", "Martin", "Silva"}
	now := time.Now().UTC()

	users := make([]User, 0, count)
	for i := 0; i < count; i++ {
		hash := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", seed, i)))
		h := int(binary.BigEndian.Uint32(hash[:4]) & 0x7fffffff)

		first := firstNames[h%len(firstNames)]
		last := lastNames[(h/7)%len(lastNames)]
		nat := nationalities[allowed[(h/11)%len(allowed)]]

		age := 18 + (h/13)%60
		dob := time.Date(now.Year()-age, time.Month(1+(h/17)%12), 1+(h/19)%28,
			(h/23)%24, (h/29)%60, (h/31)%60, 0, time.UTC)

		gender := "men"
		if h%2 == 1 {
			gender = "women"
		}
		portrait := (h / 37) % 100

		users = append(users, User{
			Name:     Name{Title: "Mx", First: first, Last: last},
			Email:    strings.ToLower(fmt.Sprintf("%s.%s@example.com", first, last)),
			Location: Location{City: "Springfield", Country: nat.Country},
			DOB:      DOB{Date: dob.Format("2006-01-02T15:04:05.000Z"), Age: age},
			Picture:  pictures(gender, portrait),
			Nat:      strings.ToUpper(nat.Code),
		})
	}
	return users
}

func fixture(first, last, country, nat, dob, gender string, portrait int) User {
	return User{
		Name:     Name{Title: "Mx", First: first, Last: last},
		Email:    strings.ToLower(fmt.Sprintf("%s.%s@example.com", first, last)),
		Location: Location{City: "Springfield", Country: country},
		DOB:      DOB{Date: dob},
		Picture:  pictures(gender, portrait),
		Nat:      strings.ToUpper(nat),
	}
}

func pictures(gender string, n int) Picture {
	return Picture{
		Large:     fmt.Sprintf("https://randomuser.me/api/portraits/%s/%d.jpg", gender, n),
		Medium:    fmt.Sprintf("https://randomuser.me/api/portraits/med/%s/%d.jpg", gender, n),
		Thumbnail: fmt.Sprintf("https://randomuser.me/api/portraits/thumb/%s/%d.jpg", gender, n),
	}
}

// sendError mirrors the upstream error envelope: {"error": "..."}.
func sendError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
	log.Printf("❌ Error response: %d - %s", code, message)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key, defaultValue string) int {
	value := getEnv(key, defaultValue)
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("⚠️  Invalid integer value for %s, using default: %s", key, defaultValue)
		intValue, _ = strconv.Atoi(defaultValue)
	}
	return intValue
}
