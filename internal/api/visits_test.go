package api

import (
	"net/http"
	"testing"
	"time"

	"visitas-store/internal/model"
)

type visitList struct {
	Visits []model.Visit `json:"visits"`
}

func TestVisits_CreateAndList(t *testing.T) {
	r, h := newTestRouter(t, Options{})
	now := time.Date(2024, 10, 1, 9, 30, 0, 0, time.UTC)
	h.now = func() time.Time { return now }

	payloads := []map[string]string{
		{"owner": "rep-1", "loja": "Mercado Central", "endereco": "Rua A, 10", "contato": "Ana", "comentarios": "  quer catálogo  "},
		{"owner": "rep-1", "loja": "Padaria Sol", "photoPath": "1727775000-fachada.jpg"},
		{"loja": "Loja antiga"},
	}
	for i, p := range payloads {
		now = now.Add(24 * time.Hour)
		w := serve(r, jsonRequest(t, http.MethodPost, "/api/visits", p))
		if w.Code != http.StatusCreated {
			t.Fatalf("visit %d status=%d body=%s", i, w.Code, w.Body.String())
		}
		if v := decode[model.Visit](t, w); v.ID == "" || v.Store != p["loja"] {
			t.Fatalf("unexpected visit: %+v", v)
		}
	}

	w := serve(r, jsonRequest(t, http.MethodGet, "/api/visits?owner=rep-1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list status=%d body=%s", w.Code, w.Body.String())
	}
	list := decode[visitList](t, w)
	if len(list.Visits) != 2 || list.Visits[0].Store != "Padaria Sol" || list.Visits[1].Comments != "quer catálogo" {
		t.Fatalf("unexpected visits: %+v", list.Visits)
	}

	w = serve(r, jsonRequest(t, http.MethodGet, "/api/visits?owner=rep-1&loja=Mercado%20Central", nil))
	if list := decode[visitList](t, w); len(list.Visits) != 1 || list.Visits[0].Address != "Rua A, 10" {
		t.Fatalf("store filter: %+v", list.Visits)
	}

	w = serve(r, jsonRequest(t, http.MethodGet, "/api/visits?owner=rep-1&since=2024-10-03", nil))
	if list := decode[visitList](t, w); len(list.Visits) != 1 || list.Visits[0].Store != "Padaria Sol" {
		t.Fatalf("since filter: %+v", list.Visits)
	}

	w = serve(r, jsonRequest(t, http.MethodGet, "/api/visits", nil))
	if list := decode[visitList](t, w); len(list.Visits) != 1 || list.Visits[0].Store != "Loja antiga" {
		t.Fatalf("unassigned visits: %+v", list.Visits)
	}
}

func TestVisits_Validation(t *testing.T) {
	r, _ := newTestRouter(t, Options{})

	w := serve(r, jsonRequest(t, http.MethodPost, "/api/visits", map[string]string{"loja": "   ", "contato": "Ana"}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("blank store want 400 got %d body=%s", w.Code, w.Body.String())
	}
	resp := decode[struct {
		Error  string       `json:"error"`
		Fields []FieldError `json:"fields"`
	}](t, w)
	if resp.Error != "validation_failed" || len(resp.Fields) != 1 || resp.Fields[0].Field != "loja" || resp.Fields[0].Rule != "required" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	w = serve(r, jsonRequest(t, http.MethodGet, "/api/visits?since=01/10/2024", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad since want 400 got %d", w.Code)
	}
}
