package api

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPIErrorDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":"game not found","code":"GAME_NOT_FOUND","details":"game not found: x"}`)
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	c.Out = io.Discard
	c.SetToken("tok")

	_, err := c.GetGame("x")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Code != "GAME_NOT_FOUND" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestMovesDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/games/g1/squares/b1/moves" {
			t.Errorf("path = %s", r.URL.Path)
		}
		io.WriteString(w, `{"gameId":"g1","square":"b1","piece":"knight","player":"w","moves":["a3","c3"]}`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.Out = io.Discard

	resp, err := c.AvailableMoves("g1", "b1")
	if err != nil {
		t.Fatalf("AvailableMoves: %v", err)
	}
	if len(resp.Moves) != 2 || resp.Moves[1].String() != "c3" {
		t.Errorf("moves = %v", resp.Moves)
	}
}
