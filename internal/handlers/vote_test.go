package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/dsiemon2/eventvote/internal/handlers"
	"github.com/dsiemon2/eventvote/internal/logger"
	"github.com/dsiemon2/eventvote/internal/repository"
	"github.com/dsiemon2/eventvote/internal/services"
	"github.com/dsiemon2/eventvote/internal/testutil"
)

// setupServer wires the full stack against an in-memory store and returns
// the router plus the seeded ranked fixture
func setupServer(t *testing.T) (http.Handler, testutil.Fixture, *repository.Repository) {
	t.Helper()
	repo := testutil.NewTestRepository(t)
	log := logger.NewWithWriter(io.Discard, slog.LevelError)

	cfgSvc := services.NewConfigService(log, repo)
	sumSvc := services.NewSummaryService(log, repo)
	votingSvc := services.NewVotingService(log, repo, cfgSvc, sumSvc)
	resultsSvc := services.NewResultsService(log, repo)

	h := handlers.New(votingSvc, resultsSvc, cfgSvc, sumSvc, repo, log, "http://eventvote.test", false)
	f := testutil.RankedEvent(t, repo, 3)
	return h.Router(), f, repo
}

func doJSON(t *testing.T, router http.Handler, method, path string, userID int, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID > 0 {
		req.Header.Set("X-User-ID", strconv.Itoa(userID))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func rankedPayload(f testutil.Fixture) map[string]interface{} {
	return map[string]interface{}{
		"votes": map[string]map[string]int{
			"default": {
				"1": f.EntryIDs[0],
				"2": f.EntryIDs[1],
				"3": f.EntryIDs[2],
			},
		},
	}
}

// TestSubmitVoteEndpoint tests the happy path of POST /events/{event}/votes
func TestSubmitVoteEndpoint(t *testing.T) {
	router, f, _ := setupServer(t)

	rec := doJSON(t, router, "POST", fmt.Sprintf("/events/%d/votes", f.EventID), 1, rankedPayload(f))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp handlers.VoteSubmitResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Success {
		t.Error("expected success true")
	}
	if resp.BallotID == "" {
		t.Error("expected a ballot ID")
	}
	if resp.VoteCount != 3 || resp.Points != 6.0 {
		t.Errorf("expected 3 votes and 6.0 points, got %d and %g", resp.VoteCount, resp.Points)
	}
}

// TestSubmitVoteEndpoint_ValidationFailure tests the 422 field-grouped shape
func TestSubmitVoteEndpoint_ValidationFailure(t *testing.T) {
	router, f, _ := setupServer(t)

	payload := map[string]interface{}{
		"votes": map[string]map[string]int{
			"default": {"1": 99999},
		},
	}
	rec := doJSON(t, router, "POST", fmt.Sprintf("/events/%d/votes", f.EventID), 1, payload)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp handlers.ValidationFailureResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Success {
		t.Error("expected success false")
	}
	if len(resp.Errors["entries"]) == 0 {
		t.Errorf("expected an 'entries' violation, got %v", resp.Errors)
	}
}

// TestSubmitVoteEndpoint_AlreadyVoted tests the duplicate-ballot code
func TestSubmitVoteEndpoint_AlreadyVoted(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	log := logger.NewWithWriter(io.Discard, slog.LevelError)
	cfgSvc := services.NewConfigService(log, repo)
	sumSvc := services.NewSummaryService(log, repo)
	votingSvc := services.NewVotingService(log, repo, cfgSvc, sumSvc)
	resultsSvc := services.NewResultsService(log, repo)
	h := handlers.New(votingSvc, resultsSvc, cfgSvc, sumSvc, repo, log, "http://eventvote.test", false)
	router := h.Router()

	// Event that forbids vote changes
	f := testutil.NoChangesEvent(t, repo, 3)

	rec := doJSON(t, router, "POST", fmt.Sprintf("/events/%d/votes", f.EventID), 1, rankedPayload(f))
	if rec.Code != http.StatusOK {
		t.Fatalf("first submit: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, "POST", fmt.Sprintf("/events/%d/votes", f.EventID), 1, rankedPayload(f))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("second submit: expected 422, got %d", rec.Code)
	}
	var apiErr struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if apiErr.Code != "ALREADY_VOTED" {
		t.Errorf("expected ALREADY_VOTED code, got %s", apiErr.Code)
	}
}

// TestSubmitVoteEndpoint_NoConfig tests the organizer configuration error
func TestSubmitVoteEndpoint_NoConfig(t *testing.T) {
	router, _, repo := setupServer(t)

	eventID, err := repo.CreateEvent(context.Background(), "Unconfigured", true, true)
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	rec := doJSON(t, router, "POST", fmt.Sprintf("/events/%d/votes", eventID), 1,
		map[string]interface{}{"votes": map[string]map[string]int{"default": {"1": 1}}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	var apiErr struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if apiErr.Code != "CONFIGURATION_ERROR" {
		t.Errorf("expected CONFIGURATION_ERROR code, got %s", apiErr.Code)
	}
}

// TestValidateEndpoint tests the dry run: reports problems, persists nothing
func TestValidateEndpoint(t *testing.T) {
	router, f, repo := setupServer(t)

	rec := doJSON(t, router, "POST", fmt.Sprintf("/events/%d/votes/validate", f.EventID), 1, rankedPayload(f))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp handlers.ValidateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Valid {
		t.Errorf("expected a valid ballot, got errors %v", resp.Errors)
	}

	// Nothing was written
	count, err := repo.CountLiveVotes(context.Background(), f.EventID)
	if err != nil {
		t.Fatalf("CountLiveVotes failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no persisted votes after dry run, got %d", count)
	}

	// Invalid ballot reports its violations with a 200
	bad := map[string]interface{}{
		"votes": map[string]map[string]int{"default": {"9": f.EntryIDs[0]}},
	}
	rec = doJSON(t, router, "POST", fmt.Sprintf("/events/%d/votes/validate", f.EventID), 1, bad)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Valid {
		t.Error("expected an invalid ballot")
	}
	if len(resp.Errors["places"]) == 0 {
		t.Errorf("expected a 'places' violation, got %v", resp.Errors)
	}
}

// TestMyBallotEndpoint tests ballot retrieval and its auth requirement
func TestMyBallotEndpoint(t *testing.T) {
	router, f, _ := setupServer(t)

	// Anonymous callers are rejected
	rec := doJSON(t, router, "GET", fmt.Sprintf("/events/%d/votes/mine", f.EventID), 0, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous caller, got %d", rec.Code)
	}

	// Empty before voting
	rec = doJSON(t, router, "GET", fmt.Sprintf("/events/%d/votes/mine", f.EventID), 1, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp handlers.MyBallotResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Votes) != 0 {
		t.Errorf("expected no votes before voting, got %d", len(resp.Votes))
	}

	doJSON(t, router, "POST", fmt.Sprintf("/events/%d/votes", f.EventID), 1, rankedPayload(f))

	rec = doJSON(t, router, "GET", fmt.Sprintf("/events/%d/votes/mine", f.EventID), 1, nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Votes) != 3 {
		t.Errorf("expected 3 ballot rows, got %d", len(resp.Votes))
	}
	if resp.BallotID == "" {
		t.Error("expected the ballot ID on the response")
	}
}

// TestHasVotedEndpoint tests the voting status check
func TestHasVotedEndpoint(t *testing.T) {
	router, f, _ := setupServer(t)
	path := fmt.Sprintf("/events/%d/votes/has-voted", f.EventID)

	var resp handlers.HasVotedResponse

	// Anonymous callers simply have not voted
	rec := doJSON(t, router, "GET", path, 0, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.HasVoted {
		t.Error("expected has_voted false for anonymous caller")
	}

	rec = doJSON(t, router, "GET", path, 1, nil)
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.HasVoted {
		t.Error("expected has_voted false before voting")
	}

	doJSON(t, router, "POST", fmt.Sprintf("/events/%d/votes", f.EventID), 1, rankedPayload(f))

	rec = doJSON(t, router, "GET", path, 1, nil)
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if !resp.HasVoted {
		t.Error("expected has_voted true after voting")
	}
}

// TestRemoveBallotEndpoint tests the audited removal endpoint
func TestRemoveBallotEndpoint(t *testing.T) {
	router, f, _ := setupServer(t)

	rec := doJSON(t, router, "POST", fmt.Sprintf("/events/%d/votes", f.EventID), 1, rankedPayload(f))
	var submitted handlers.VoteSubmitResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &submitted); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	path := fmt.Sprintf("/events/%d/votes/%s", f.EventID, submitted.BallotID)

	// Removal requires a reason
	rec = doJSON(t, router, "DELETE", path, 9, map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without a reason, got %d", rec.Code)
	}

	rec = doJSON(t, router, "DELETE", path, 9, map[string]string{"reason": "duplicate account"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// A second removal reports not found
	rec = doJSON(t, router, "DELETE", path, 9, map[string]string{"reason": "again"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 on double removal, got %d", rec.Code)
	}
}

// TestSubmitVoteEndpoint_BadScopeKey tests wire-level key validation
func TestSubmitVoteEndpoint_BadScopeKey(t *testing.T) {
	router, f, _ := setupServer(t)

	payload := map[string]interface{}{
		"votes": map[string]map[string]int{"sector_7": {"1": f.EntryIDs[0]}},
	}
	rec := doJSON(t, router, "POST", fmt.Sprintf("/events/%d/votes", f.EventID), 1, payload)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown scope key, got %d", rec.Code)
	}
}
