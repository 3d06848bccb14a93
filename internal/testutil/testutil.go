package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/fitpay/fitpay-admin/pkg/client"
)

// Resources served by the fake backend.
var Resources = []string{"alunos", "planos", "enderecos", "matriculas", "pagamentos", "movimentacoes_financeiras"}

type failure struct {
	status int
	body   string
}

// Request is one call recorded by the fake backend.
type Request struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

// Backend is an in-memory FitPay REST backend. Records are kept as decoded JSON
// objects so any entity shape round-trips unchanged.
type Backend struct {
	mu       sync.Mutex
	server   *httptest.Server
	records  map[string]map[int64]map[string]interface{}
	nextID   map[string]int64
	failures map[string]failure
	counters map[string]int64
	requests []Request

	// BeforeHandle, when set, runs before every request is served.
	BeforeHandle func(r *http.Request)
}

// NewBackend starts a fake backend closed at test cleanup.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		records:  make(map[string]map[int64]map[string]interface{}),
		nextID:   make(map[string]int64),
		failures: make(map[string]failure),
		counters: make(map[string]int64),
	}
	for _, r := range Resources {
		b.records[r] = make(map[int64]map[string]interface{})
		b.nextID[r] = 1
	}
	b.server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.server.Close)
	return b
}

// URL returns the base URL of the backend.
func (b *Backend) URL() string {
	return b.server.URL
}

// Client returns a FitPay client bound to the backend.
func (b *Backend) Client() *client.Client {
	return client.NewClient(client.Config{BaseURL: b.server.URL})
}

// Seed stores items under resource and returns the assigned ids.
func (b *Backend) Seed(t *testing.T, resource string, items ...interface{}) []int64 {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			t.Fatalf("seed %s: %v", resource, err)
		}
		var rec map[string]interface{}
		if err := json.Unmarshal(raw, &rec); err != nil {
			t.Fatalf("seed %s: %v", resource, err)
		}
		ids = append(ids, b.insertLocked(resource, rec))
	}
	return ids
}

// Fail makes every request whose "METHOD /path" starts with prefix answer status and body.
func (b *Backend) Fail(prefix string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[prefix] = failure{status: status, body: body}
}

// ClearFailures removes every forced failure.
func (b *Backend) ClearFailures() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = make(map[string]failure)
}

// SetCounter fixes the value of matriculas/dashboard/{name}.
func (b *Backend) SetCounter(name string, n int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.counters[name] = n
}

// Calls counts recorded requests whose "METHOD /path" starts with prefix.
func (b *Backend) Calls(prefix string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.requests {
		if strings.HasPrefix(r.Method+" "+r.Path, prefix) {
			n++
		}
	}
	return n
}

// LastRequest returns the latest request matching prefix.
func (b *Backend) LastRequest(prefix string) (Request, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.requests) - 1; i >= 0; i-- {
		r := b.requests[i]
		if strings.HasPrefix(r.Method+" "+r.Path, prefix) {
			return r, true
		}
	}
	return Request{}, false
}

// Record returns a stored record decoded into out.
func (b *Backend) Record(t *testing.T, resource string, id int64, out interface{}) bool {
	t.Helper()
	b.mu.Lock()
	rec, ok := b.records[resource][id]
	b.mu.Unlock()
	if !ok {
		return false
	}
	raw, _ := json.Marshal(rec)
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode %s/%d: %v", resource, id, err)
	}
	return true
}

// Count returns the number of stored records of resource.
func (b *Backend) Count(resource string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.records[resource])
}

func (b *Backend) insertLocked(resource string, rec map[string]interface{}) int64 {
	id := b.nextID[resource]
	b.nextID[resource]++
	rec["id"] = float64(id)
	b.records[resource][id] = rec
	return id
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	if b.BeforeHandle != nil {
		b.BeforeHandle(r)
	}

	body, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.requests = append(b.requests, Request{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: body})

	key := r.Method + " " + r.URL.Path
	for prefix, f := range b.failures {
		if strings.HasPrefix(key, prefix) {
			w.WriteHeader(f.status)
			io.WriteString(w, f.body)
			return
		}
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 2 {
		http.NotFound(w, r)
		return
	}
	resource, action := parts[0], parts[1]
	store, ok := b.records[resource]
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch {
	case r.Method == http.MethodGet && action == "findall":
		b.findAll(w, r, resource, store)
	case r.Method == http.MethodGet && action == "find" && len(parts) == 3:
		id, _ := strconv.ParseInt(parts[2], 10, 64)
		rec, ok := store[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Registro não encontrado."})
			return
		}
		writeJSON(w, http.StatusOK, rec)
	case r.Method == http.MethodPost && action == "save":
		rec, ok := decode(w, body)
		if !ok {
			return
		}
		delete(rec, "id")
		b.expandLocked(rec)
		b.insertLocked(resource, rec)
		writeJSON(w, http.StatusCreated, rec)
	case r.Method == http.MethodPut && action == "update":
		rec, ok := decode(w, body)
		if !ok {
			return
		}
		id := toInt64(rec["id"])
		if _, exists := store[id]; !exists {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Registro não encontrado."})
			return
		}
		b.expandLocked(rec)
		rec["id"] = float64(id)
		store[id] = rec
		writeJSON(w, http.StatusOK, rec)
	case r.Method == http.MethodDelete && action == "delete" && len(parts) == 3:
		id, _ := strconv.ParseInt(parts[2], 10, 64)
		if _, exists := store[id]; !exists {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Registro não encontrado."})
			return
		}
		delete(store, id)
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodGet && resource == "matriculas" && action == "aluno" && len(parts) == 3:
		studentID, _ := strconv.ParseInt(parts[2], 10, 64)
		out := []map[string]interface{}{}
		for _, rec := range sorted(store) {
			if ref, ok := rec["aluno"].(map[string]interface{}); ok && toInt64(ref["id"]) == studentID {
				out = append(out, rec)
			}
		}
		writeJSON(w, http.StatusOK, out)
	case r.Method == http.MethodGet && resource == "matriculas" && action == "dashboard" && len(parts) == 3:
		writeJSON(w, http.StatusOK, b.counters[parts[2]])
	default:
		http.NotFound(w, r)
	}
}

func (b *Backend) findAll(w http.ResponseWriter, r *http.Request, resource string, store map[int64]map[string]interface{}) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	if size <= 0 {
		size = 10
	}

	filters := map[string]string{}
	for _, key := range []string{"status", "metodo", "tipo", "categoria"} {
		if v := q.Get(key); v != "" {
			filters[key] = v
		}
	}
	term := q.Get("search")
	if term == "" {
		term = q.Get("nome")
	}

	fieldFor := map[string]string{
		"status":    "status",
		"metodo":    "metodo_pagamento",
		"tipo":      "tipo_movimentacao",
		"categoria": "categoria_movimentacao",
	}

	var matched []map[string]interface{}
	for _, rec := range sorted(store) {
		ok := true
		for key, want := range filters {
			if fmt.Sprint(rec[fieldFor[key]]) != want {
				ok = false
				break
			}
		}
		if ok && term != "" && !containsFold(rec, strings.ToLower(term)) {
			ok = false
		}
		if ok {
			matched = append(matched, rec)
		}
	}

	total := len(matched)
	totalPages := (total + size - 1) / size
	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	content := matched[start:end]
	if content == nil {
		content = []map[string]interface{}{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"content":       content,
		"totalPages":    totalPages,
		"totalElements": total,
		"number":        page,
		"size":          size,
	})
}

// expandLocked replaces {id} references with the stored entity, the way the
// backend answers with nested objects.
func (b *Backend) expandLocked(rec map[string]interface{}) {
	refs := map[string]string{"aluno": "alunos", "plano": "planos", "contrato_aluno": "matriculas"}
	for field, resource := range refs {
		ref, ok := rec[field].(map[string]interface{})
		if !ok {
			continue
		}
		if stored, ok := b.records[resource][toInt64(ref["id"])]; ok {
			rec[field] = stored
		}
	}
}

func sorted(store map[int64]map[string]interface{}) []map[string]interface{} {
	ids := make([]int64, 0, len(store))
	for id := range store {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]map[string]interface{}, 0, len(ids))
	for _, id := range ids {
		out = append(out, store[id])
	}
	return out
}

func containsFold(v interface{}, term string) bool {
	switch val := v.(type) {
	case string:
		return strings.Contains(strings.ToLower(val), term)
	case map[string]interface{}:
		for _, inner := range val {
			if containsFold(inner, term) {
				return true
			}
		}
	case []interface{}:
		for _, inner := range val {
			if containsFold(inner, term) {
				return true
			}
		}
	}
	return false
}

func decode(w http.ResponseWriter, body []byte) (map[string]interface{}, bool) {
	var rec map[string]interface{}
	if err := json.Unmarshal(body, &rec); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "JSON inválido."})
		return nil, false
	}
	return rec, true
}

func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case string:
		i, _ := strconv.ParseInt(n, 10, 64)
		return i
	default:
		return 0
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
