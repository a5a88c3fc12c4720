// README: Request binding and validation tests for the ride handler.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"vecturo/internal/http/handlers"
	httpmiddleware "vecturo/internal/http/middleware"
	"vecturo/internal/infra"
	"vecturo/internal/modules/ride"
)

// stubTokenVerifier is a test double for infra.TokenVerifier.
type stubTokenVerifier struct {
	token *infra.IdentityToken
	err   error
}

func (s *stubTokenVerifier) VerifyIDToken(_ context.Context, _ string) (*infra.IdentityToken, error) {
	return s.token, s.err
}

// buildTestRouter wires a minimal engine with the auth middleware and the
// ride handler. ride.NewService(nil, nil, nil, nil, nil) is safe here because every
// request in these tests is rejected during binding or validation, before any
// store access.
func buildTestRouter(verifier infra.TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := ride.NewService(nil, nil, nil, nil, nil)
	r := gin.New()
	r.Use(httpmiddleware.Auth(verifier))
	h := handlers.NewRideHandler(svc, nil)
	r.POST("/api/rides", h.Create)
	return r
}

func makeVerifier(uid string) *stubTokenVerifier {
	return &stubTokenVerifier{token: &infra.IdentityToken{UID: uid, Claims: map[string]interface{}{}}}
}

func doRequest(r *gin.Engine, method, path string, body interface{}, authHeader string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validCreateBody() map[string]any {
	return map[string]any{
		"pickup": map[string]any{
			"name": "30th Street Station", "placeId": "pickup-1",
			"lat": 39.9557, "lng": -75.1820,
		},
		"destination": map[string]any{
			"name": "City Hall", "placeId": "dest-1",
			"lat": 39.9526, "lng": -75.1652,
		},
		"date":           "2030-06-01",
		"timeRangeStart": "09:00",
		"timeRangeEnd":   "10:00",
		"passengers":     1,
	}
}

func TestCreateRide_Unauthenticated(t *testing.T) {
	r := buildTestRouter(&stubTokenVerifier{err: errors.New("no token")})
	w := doRequest(r, http.MethodPost, "/api/rides", validCreateBody(), "Bearer badtoken")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestCreateRide_MissingFields(t *testing.T) {
	r := buildTestRouter(makeVerifier("rider1"))

	body := validCreateBody()
	delete(body, "date")
	w := doRequest(r, http.MethodPost, "/api/rides", body, "Bearer sometoken")
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing date: expected 400, got %d", w.Code)
	}

	body = validCreateBody()
	body["pickup"] = map[string]any{"name": "no place id", "lat": 39.9, "lng": -75.1}
	w = doRequest(r, http.MethodPost, "/api/rides", body, "Bearer sometoken")
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing pickup placeId: expected 400, got %d", w.Code)
	}

	body = validCreateBody()
	body["passengers"] = 0
	w = doRequest(r, http.MethodPost, "/api/rides", body, "Bearer sometoken")
	if w.Code != http.StatusBadRequest {
		t.Errorf("zero passengers: expected 400, got %d", w.Code)
	}
}

// Validation failures inside the ride service surface as 400, not 500.
func TestCreateRide_DomainValidation(t *testing.T) {
	r := buildTestRouter(makeVerifier("rider1"))

	body := validCreateBody()
	body["date"] = "06/01/2030"
	w := doRequest(r, http.MethodPost, "/api/rides", body, "Bearer sometoken")
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed date: expected 400, got %d", w.Code)
	}

	body = validCreateBody()
	body["timeRangeStart"] = "10:00"
	body["timeRangeEnd"] = "09:00"
	w = doRequest(r, http.MethodPost, "/api/rides", body, "Bearer sometoken")
	if w.Code != http.StatusBadRequest {
		t.Errorf("inverted window: expected 400, got %d", w.Code)
	}
}
