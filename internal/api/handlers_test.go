package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/tuanlee/sharebill/internal/service"
	"github.com/tuanlee/sharebill/internal/storage/sqlite"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "sharebill-api-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	svc, err := service.NewBillService(store, 5)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	mux := http.NewServeMux()
	NewBillHandler(svc).Register(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()

	var out bytes.Buffer
	if _, err := out.ReadFrom(resp.Body); err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return resp, out.Bytes()
}

func addMember(t *testing.T, base, name string) string {
	t.Helper()

	resp, body := doJSON(t, http.MethodPost, base+"/api/members", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /api/members = %d: %s", resp.StatusCode, body)
	}
	var member struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &member); err != nil {
		t.Fatalf("failed to decode member: %v", err)
	}

	resp, body = doJSON(t, http.MethodPost, base+"/api/members/"+member.ID+"/name",
		map[string]string{"name": name})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("commit name = %d: %s", resp.StatusCode, body)
	}
	return member.ID
}

func TestBillRoundTrip(t *testing.T) {
	server := setupTestServer(t)

	for field, value := range map[string]string{
		"foodSubtotal":  "600000",
		"serviceFees":   "30000",
		"totalDiscount": "90000",
	} {
		resp, body := doJSON(t, http.MethodPut, server.URL+"/api/bill/"+field,
			map[string]string{"value": value})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("PUT /api/bill/%s = %d: %s", field, resp.StatusCode, body)
		}
	}

	ids := []string{
		addMember(t, server.URL, "An"),
		addMember(t, server.URL, "Binh"),
		addMember(t, server.URL, "Chi"),
	}
	for i, order := range []int64{180000, 240000, 180000} {
		resp, body := doJSON(t, http.MethodPatch, server.URL+"/api/members/"+ids[i],
			map[string]any{"field": "order", "value": order})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("order edit = %d: %s", resp.StatusCode, body)
		}
	}

	resp, body := doJSON(t, http.MethodGet, server.URL+"/api/bill", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/bill = %d", resp.StatusCode)
	}

	var snap service.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		t.Fatalf("failed to decode snapshot: %v", err)
	}
	if snap.TotalPaid != 540000 {
		t.Errorf("TotalPaid = %d, want 540000", snap.TotalPaid)
	}
	if snap.PerHeadServiceFee != 10000 {
		t.Errorf("PerHeadServiceFee = %d, want 10000", snap.PerHeadServiceFee)
	}
	if len(snap.Members) != 3 {
		t.Fatalf("members = %d, want 3", len(snap.Members))
	}
	if snap.Members[1].FoodShare != 204000 || snap.Members[1].Total != 214000 {
		t.Errorf("second member = %d/%d, want 204000/214000",
			snap.Members[1].FoodShare, snap.Members[1].Total)
	}
}

func TestOrderValidationOverHTTP(t *testing.T) {
	server := setupTestServer(t)

	resp, _ := doJSON(t, http.MethodPut, server.URL+"/api/bill/foodSubtotal",
		map[string]string{"value": "500000"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set subtotal = %d", resp.StatusCode)
	}

	id := addMember(t, server.URL, "An")
	resp, _ = doJSON(t, http.MethodPatch, server.URL+"/api/members/"+id,
		map[string]any{"field": "order", "value": 500001})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("over-subtotal order = %d, want 400", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPatch, server.URL+"/api/members/"+id,
		map[string]any{"field": "order", "value": -1})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("negative order = %d, want 400", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPatch, server.URL+"/api/members/nope",
		map[string]any{"field": "order", "value": 1})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown member = %d, want 404", resp.StatusCode)
	}
}

func TestDuplicateNameOverHTTP(t *testing.T) {
	server := setupTestServer(t)

	addMember(t, server.URL, "Tuan")

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/members", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /api/members = %d", resp.StatusCode)
	}
	var member struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &member); err != nil {
		t.Fatalf("failed to decode member: %v", err)
	}

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/members/"+member.ID+"/name",
		map[string]string{"name": "TUAN"})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("case-insensitive duplicate = %d, want 409", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/members/"+member.ID+"/name",
		map[string]string{"name": "  "})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty name = %d, want 400", resp.StatusCode)
	}
}

func TestNamesEndpoints(t *testing.T) {
	server := setupTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/names",
		map[string]string{"name": "Zed"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /api/names = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPut, server.URL+"/api/names/Zed",
		map[string]string{"newName": "Zoe"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT /api/names/Zed = %d", resp.StatusCode)
	}

	resp, body := doJSON(t, http.MethodDelete, server.URL+"/api/names/Zoe", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("DELETE /api/names/Zoe = %d", resp.StatusCode)
	}

	var names []string
	if err := json.Unmarshal(body, &names); err != nil {
		t.Fatalf("failed to decode names: %v", err)
	}
	for _, n := range names {
		if n == "Zed" || n == "Zoe" {
			t.Errorf("name %q should be gone, have %v", n, names)
		}
	}
}

func TestQRCodeEndpoints(t *testing.T) {
	server := setupTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/qrcodes",
		map[string]string{"type": "", "imageData": "data:image/png;base64,AAAA"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing type = %d, want 400", resp.StatusCode)
	}

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/qrcodes",
		map[string]string{"type": "Momo", "imageData": "data:image/png;base64,AAAA"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /api/qrcodes = %d: %s", resp.StatusCode, body)
	}
	var item struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &item); err != nil {
		t.Fatalf("failed to decode qr item: %v", err)
	}

	resp, _ = doJSON(t, http.MethodDelete, server.URL+"/api/qrcodes/"+item.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("DELETE /api/qrcodes = %d", resp.StatusCode)
	}
}

func TestResetEndpoints(t *testing.T) {
	server := setupTestServer(t)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/reset", nil)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("POST /api/reset = %d", resp.StatusCode)
	}
	var started map[string]int
	if err := json.Unmarshal(body, &started); err != nil {
		t.Fatalf("failed to decode reset response: %v", err)
	}
	if started["countdown"] != 5 {
		t.Errorf("countdown = %d, want 5", started["countdown"])
	}

	resp, body = doJSON(t, http.MethodDelete, server.URL+"/api/reset", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("DELETE /api/reset = %d", resp.StatusCode)
	}
	var snap service.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		t.Fatalf("failed to decode snapshot: %v", err)
	}
	if snap.ResetCountdown != 0 {
		t.Errorf("ResetCountdown after cancel = %d, want 0", snap.ResetCountdown)
	}
}

func TestInvalidJSONBody(t *testing.T) {
	server := setupTestServer(t)

	req, _ := http.NewRequest(http.MethodPut, server.URL+"/api/bill/foodSubtotal",
		bytes.NewBufferString("{not json"))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid JSON = %d, want 400", resp.StatusCode)
	}
}
