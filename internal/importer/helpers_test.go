package importer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/xuri/excelize/v2"

	"visitas-store/internal/model"
)

type testSheet struct {
	name string
	rows [][]interface{}
}

func buildWorkbook(t *testing.T, sheets ...testSheet) []byte {
	t.Helper()

	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			t.Fatalf("new sheet %s: %v", s.name, err)
		}

		for r, row := range s.rows {
			if len(row) == 0 {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(1, r+1)
			values := row
			if err := f.SetSheetRow(s.name, cell, &values); err != nil {
				t.Fatalf("write row %d of %s: %v", r, s.name, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

// twoSheetWorkbook Beverages 表头在第 2 行，Snacks 表头在第 1 行
func twoSheetWorkbook(t *testing.T) []byte {
	t.Helper()
	return buildWorkbook(t,
		testSheet{name: "Beverages", rows: [][]interface{}{
			{"Price list 2024"},
			{"Item Description", "Barcode", "Unit Cost", "Units - Units", "Average market retail"},
			{"Cola 2L", "7891234567890", "1.50", "12", "2.99"},
		}},
		testSheet{name: "Snacks", rows: [][]interface{}{
			{"Description", "Retail"},
			{"Chips", "3.50"},
		}},
	)
}

type fakeRepo struct {
	mu        sync.Mutex
	saved     map[string][]model.Product
	logs      map[int64]string
	nextLogID int64
	sheets    map[int64][]model.SheetReport
	saveErr   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		saved:  map[string][]model.Product{},
		logs:   map[int64]string{},
		sheets: map[int64][]model.SheetReport{},
	}
}

func (r *fakeRepo) SaveCatalog(_ context.Context, owner, name string, products []model.Product) (*model.Catalog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	r.saved[owner] = products
	return &model.Catalog{ID: "cat-" + owner, Owner: owner, Name: name, TotalProducts: len(products)}, nil
}

func (r *fakeRepo) CreateImportLog(_ context.Context, _, _ string, _ int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextLogID++
	r.logs[r.nextLogID] = "processing"
	return r.nextLogID, nil
}

func (r *fakeRepo) FinishImportLog(_ context.Context, id int64, status string, _, _, _ int, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.logs[id]; !ok {
		return errors.New("unknown import log")
	}
	r.logs[id] = status
	return nil
}

func (r *fakeRepo) SaveSheetReports(_ context.Context, id int64, reports []model.SheetReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sheets[id] = reports
	return nil
}
