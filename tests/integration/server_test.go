package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/linky/pkg/linky/cache"
	"github.com/mikepea/linky/pkg/linky/config"
	"github.com/mikepea/linky/pkg/linky/database"
	"github.com/mikepea/linky/pkg/linky/importexport"
	"github.com/mikepea/linky/pkg/linky/links"
	"github.com/mikepea/linky/pkg/linky/server"
	"github.com/mikepea/linky/pkg/linky/store"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	return db
}

// setupFullServer creates a Gin engine with all routes registered
// This mirrors the setup in cmd/linky-server/main.go
func setupFullServer(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{AllowedOrigins: "*"}
	return server.New(cfg, store.New(db), cache.New(nil, 0))
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func submitLink(t *testing.T, router *gin.Engine, url string) uint {
	t.Helper()
	resp := doJSON(t, router, "POST", "/api/process-link", map[string]string{"url": url})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200 submitting %s, got %d: %s", url, resp.Code, resp.Body.String())
	}
	var out links.ProcessLinkResponse
	json.Unmarshal(resp.Body.Bytes(), &out)
	return out.ID
}

func vote(t *testing.T, router *gin.Engine, id uint, voteType string) {
	t.Helper()
	resp := doJSON(t, router, "POST", "/api/vote", map[string]interface{}{"link_id": id, "vote_type": voteType})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200 voting %s on %d, got %d: %s", voteType, id, resp.Code, resp.Body.String())
	}
}

func listLinks(t *testing.T, router *gin.Engine) []links.LinkResponse {
	t.Helper()
	resp := doJSON(t, router, "GET", "/api/links", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200 listing links, got %d", resp.Code)
	}
	var out []links.LinkResponse
	json.Unmarshal(resp.Body.Bytes(), &out)
	return out
}

// TestServerStartup verifies that all routes can be registered without conflicts
func TestServerStartup(t *testing.T) {
	db := setupTestDB(t)

	// This will panic if there are route conflicts
	router := setupFullServer(db)

	if router == nil {
		t.Fatal("Expected router to be created")
	}
}

// TestPublicEndpoints verifies nothing asks for credentials
func TestPublicEndpoints(t *testing.T) {
	db := setupTestDB(t)
	router := setupFullServer(db)

	endpoints := []struct {
		method       string
		path         string
		expectedCode int
	}{
		{"GET", "/health", http.StatusOK},
		{"GET", "/api/health", http.StatusOK},
		{"GET", "/api/links", http.StatusOK},
		{"GET", "/api/export", http.StatusOK},
		{"POST", "/api/process-link", http.StatusBadRequest}, // no body
		{"POST", "/api/vote", http.StatusBadRequest},         // no body
		{"DELETE", "/api/vote/1", http.StatusNotFound},       // no such link
		{"DELETE", "/api/vote/abc", http.StatusBadRequest},
		{"GET", "/nonexistent", http.StatusNotFound},
	}

	for _, endpoint := range endpoints {
		t.Run(endpoint.method+" "+endpoint.path, func(t *testing.T) {
			req, _ := http.NewRequest(endpoint.method, endpoint.path, nil)
			resp := httptest.NewRecorder()

			router.ServeHTTP(resp, req)

			if resp.Code != endpoint.expectedCode {
				t.Errorf("Expected status %d for %s %s, got %d", endpoint.expectedCode, endpoint.method, endpoint.path, resp.Code)
			}
		})
	}
}

// TestVoteAndRankFlow walks the submit / vote / list / remove cycle
func TestVoteAndRankFlow(t *testing.T) {
	db := setupTestDB(t)
	router := setupFullServer(db)

	a := submitLink(t, router, "https://a.example")
	b := submitLink(t, router, "https://b.example")
	c := submitLink(t, router, "https://c.example")
	if a != 1 || b != 2 || c != 3 {
		t.Fatalf("Expected ids 1,2,3, got %d,%d,%d", a, b, c)
	}

	vote(t, router, a, "like")
	vote(t, router, a, "like")
	vote(t, router, c, "dislike")

	ranked := listLinks(t, router)
	if len(ranked) != 3 || ranked[0].ID != a || ranked[1].ID != b || ranked[2].ID != c {
		t.Fatalf("Expected order a,b,c, got %+v", ranked)
	}

	// c's only vote is a dislike; removing it brings c level with b
	resp := doJSON(t, router, "DELETE", fmt.Sprintf("/api/vote/%d", c), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}
	resp = doJSON(t, router, "DELETE", fmt.Sprintf("/api/vote/%d", c), nil)
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 with no votes left, got %d", resp.Code)
	}

	vote(t, router, b, "dislike")
	vote(t, router, b, "like")
	ranked = listLinks(t, router)
	// b and c both score 0; b was submitted first
	if ranked[0].ID != a || ranked[1].ID != b || ranked[2].ID != c {
		t.Errorf("Expected order a,b,c after ties, got %+v", ranked)
	}

	// removing b's most recent vote (the like) leaves it at -1
	doJSON(t, router, "DELETE", fmt.Sprintf("/api/vote/%d", b), nil)
	ranked = listLinks(t, router)
	if ranked[2].ID != b || ranked[2].Likes != 0 || ranked[2].Dislikes != 1 {
		t.Errorf("Expected b last with one dislike, got %+v", ranked)
	}
}

// TestConcurrentVotes checks that parallel requests lose no increments
func TestConcurrentVotes(t *testing.T) {
	db := setupTestDB(t)
	router := setupFullServer(db)
	id := submitLink(t, router, "https://busy.example")

	const n = 20
	var wg sync.WaitGroup
	codes := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body, _ := json.Marshal(map[string]interface{}{"link_id": id, "vote_type": "like"})
			req, _ := http.NewRequest("POST", "/api/vote", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			codes <- resp.Code
		}()
	}
	wg.Wait()
	close(codes)
	for code := range codes {
		if code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", code)
		}
	}

	ranked := listLinks(t, router)
	if ranked[0].Likes != n {
		t.Errorf("Expected %d likes, got %d", n, ranked[0].Likes)
	}
}

// TestExportImportBetweenServers moves data through the legacy format
func TestExportImportBetweenServers(t *testing.T) {
	src := setupFullServer(setupTestDB(t))
	id := submitLink(t, src, "https://moved.example")
	vote(t, src, id, "like")
	vote(t, src, id, "dislike")
	vote(t, src, id, "like")

	resp := doJSON(t, src, "GET", "/api/export", nil)
	var archive importexport.Archive
	if err := json.Unmarshal(resp.Body.Bytes(), &archive); err != nil {
		t.Fatalf("Failed to decode export: %v", err)
	}

	dst := setupFullServer(setupTestDB(t))
	resp = doJSON(t, dst, "POST", "/api/import", archive)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	ranked := listLinks(t, dst)
	if len(ranked) != 1 || ranked[0].Likes != 2 || ranked[0].Dislikes != 1 {
		t.Fatalf("Unexpected links after import: %+v", ranked)
	}

	// the most recent vote travelled with its timestamp
	doJSON(t, dst, "DELETE", fmt.Sprintf("/api/vote/%d", id), nil)
	ranked = listLinks(t, dst)
	if ranked[0].Likes != 1 || ranked[0].Dislikes != 1 {
		t.Errorf("Expected the last like removed, got %+v", ranked[0])
	}

	// new submissions continue after the imported id
	if next := submitLink(t, dst, "https://new.example"); next != id+1 {
		t.Errorf("Expected next id %d, got %d", id+1, next)
	}
}

// TestDataSurvivesRestart reopens a file-backed database
func TestDataSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linky.db")

	db, err := database.Open(path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	router := setupFullServer(db)
	id := submitLink(t, router, "https://persisted.example")
	vote(t, router, id, "dislike")
	sqlDB, _ := db.DB()
	sqlDB.Close()

	db, err = database.Open(path)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	ranked := listLinks(t, setupFullServer(db))
	if len(ranked) != 1 || ranked[0].URL != "https://persisted.example" || ranked[0].Dislikes != 1 {
		t.Errorf("Unexpected links after restart: %+v", ranked)
	}
}
