package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"visitas-store/internal/model"
	"visitas-store/internal/store"
)

func newTestRouter(t *testing.T, opts Options) (*gin.Engine, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(filepath.Join(t.TempDir(), "visitas.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	if opts.ExportDir == "" {
		opts.ExportDir = t.TempDir()
	}
	h := NewHandler(st, zap.NewNop(), opts)
	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))
	return r, h
}

// priceListWorkbook Beverages 表头在第 2 行，Snacks 表头在第 1 行
func priceListWorkbook(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	if err := f.SetSheetName("Sheet1", "Beverages"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if _, err := f.NewSheet("Snacks"); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	rows := map[string][][]interface{}{
		"Beverages": {
			{"Price list"},
			{"Item Description", "Barcode", "Unit Cost", "Units - Units", "Average market retail"},
			{"Cola 2L", "7891234567890", "1.50", "12", "2.99"},
		},
		"Snacks": {
			{"Description", "Retail"},
			{"Chips", "3.50"},
		},
	}
	for sheet, sheetRows := range rows {
		for i, row := range sheetRows {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			values := row
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				t.Fatalf("write row: %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

// uploadRequest 构造 multipart 上传；data 为 nil 时不附带文件
func uploadRequest(t *testing.T, path string, data []byte, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if data != nil {
		fw, err := mw.CreateFormFile("file", "prices.xlsx")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(data); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, method, path string, payload any) *http.Request {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func importForOwner(t *testing.T, r *gin.Engine, owner string) model.ImportResult {
	t.Helper()
	w := serve(r, uploadRequest(t, "/api/import", priceListWorkbook(t), map[string]string{
		"owner":       owner,
		"catalogName": "October",
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("import status=%d body=%s", w.Code, w.Body.String())
	}
	return decode[model.ImportResult](t, w)
}

func TestImport_ReturnsNumberedProducts(t *testing.T) {
	r, _ := newTestRouter(t, Options{})

	w := serve(r, uploadRequest(t, "/api/import", priceListWorkbook(t), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}

	res := decode[model.ImportResult](t, w)
	if res.TotalProducts != 2 || res.CatalogID != "" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Products[0].Number != "003" || res.Products[1].Number != "004" {
		t.Fatalf("unexpected numbers: %s %s", res.Products[0].Number, res.Products[1].Number)
	}
	if !strings.Contains(w.Body.String(), `"caseCost":"18.00"`) {
		t.Fatalf("money should be serialized with two decimals: %s", w.Body.String())
	}
}

func TestImport_Errors(t *testing.T) {
	r, _ := newTestRouter(t, Options{MaxUploadBytes: 1024})

	cases := []struct {
		name string
		req  *http.Request
		code int
		want string
	}{
		{"missing file", uploadRequest(t, "/api/import", nil, map[string]string{"owner": "x"}), http.StatusBadRequest, ""},
		{"unreadable", uploadRequest(t, "/api/import", []byte("hello, world"), nil), http.StatusUnprocessableEntity, "unreadable_workbook"},
		{"too large", uploadRequest(t, "/api/import", bytes.Repeat([]byte("x"), 4096), nil), http.StatusRequestEntityTooLarge, "upload_too_large"},
	}
	for _, tc := range cases {
		w := serve(r, tc.req)
		if w.Code != tc.code {
			t.Fatalf("%s: want %d got %d body=%s", tc.name, tc.code, w.Code, w.Body.String())
		}
		if tc.want != "" {
			if got := decode[map[string]string](t, w)["error"]; got != tc.want {
				t.Fatalf("%s: want error %q got %q", tc.name, tc.want, got)
			}
		}
	}
}

func TestImport_PersistsCatalogForOwner(t *testing.T) {
	r, _ := newTestRouter(t, Options{})

	res := importForOwner(t, r, "store-1")
	if res.CatalogID == "" {
		t.Fatalf("catalog id expected")
	}

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/catalogs/store-1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("get catalog status=%d body=%s", w.Code, w.Body.String())
	}
	catalog := decode[model.Catalog](t, w)
	if catalog.ID != res.CatalogID || catalog.Name != "October" || len(catalog.Products) != 2 {
		t.Fatalf("unexpected catalog: %+v", catalog)
	}

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/catalogs/store-1?category=Snacks", nil))
	filtered := decode[model.Catalog](t, w)
	if len(filtered.Products) != 1 || filtered.Products[0].Name != "Chips" {
		t.Fatalf("category filter failed: %+v", filtered.Products)
	}

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/catalogs/store-1/categories", nil))
	got := decode[map[string][]string](t, w)["categories"]
	if len(got) != 2 || got[0] != "Beverages" || got[1] != "Snacks" {
		t.Fatalf("unexpected categories: %v", got)
	}
}

func TestGetCatalog_NotFound(t *testing.T) {
	r, _ := newTestRouter(t, Options{})

	for _, path := range []string{"/api/catalogs/nobody", "/api/catalogs/nobody/categories"} {
		w := serve(r, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s: want 404 got %d", path, w.Code)
		}
	}
}

func TestImportStream_SendsDoneEvent(t *testing.T) {
	r, _ := newTestRouter(t, Options{})

	w := serve(r, uploadRequest(t, "/api/import/stream", priceListWorkbook(t), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type: %s", ct)
	}

	var types []string
	for _, line := range strings.Split(w.Body.String(), "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var evt struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &evt); err != nil {
			t.Fatalf("bad event %q: %v", line, err)
		}
		types = append(types, evt.Type)
	}
	if len(types) < 2 || types[0] != "start" || types[len(types)-1] != "done" {
		t.Fatalf("unexpected event sequence: %v", types)
	}
}
