package excel

import (
	"os"
	"path/filepath"
	"testing"

	"datascout/domain/dataset"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadCSV(t *testing.T) {
	path := writeCSV(t, "customer_id,amount,active,category\n1,10.5,true,A\n2,20.0,false,B\n3,,true,A\n")
	reader := NewDataReader(path, 0)
	ds, err := reader.ReadData()
	if err != nil {
		t.Fatalf("ReadData: %v", err)
	}
	if ds.Name != "data" {
		t.Errorf("name = %q, want data", ds.Name)
	}
	if len(ds.Columns) != 4 {
		t.Fatalf("columns = %d, want 4", len(ds.Columns))
	}
	if ds.Rows() != 3 {
		t.Errorf("rows = %d, want 3", ds.Rows())
	}

	wantTypes := map[string]dataset.DType{
		"customer_id": dataset.DTypeInt64,
		"amount":      dataset.DTypeFloat64,
		"active":      dataset.DTypeBool,
		"category":    dataset.DTypeObject,
	}
	for name, want := range wantTypes {
		col := ds.Column(name)
		if col == nil {
			t.Fatalf("missing column %q", name)
		}
		if col.DType != want {
			t.Errorf("%s dtype = %q, want %q", name, col.DType, want)
		}
	}

	if got := ds.Column("amount").NullCount(); got != 1 {
		t.Errorf("amount nulls = %d, want 1", got)
	}
}

func TestReadCSVNullMarkers(t *testing.T) {
	path := writeCSV(t, "x\nNA\nn/a\nnull\nNaN\nnone\n7\n")
	ds, err := NewDataReader(path, 0).ReadData()
	if err != nil {
		t.Fatalf("ReadData: %v", err)
	}
	col := ds.Column("x")
	if col.NullCount() != 5 {
		t.Errorf("nulls = %d, want 5", col.NullCount())
	}
	if col.DType != dataset.DTypeInt64 {
		t.Errorf("dtype = %q, want int64", col.DType)
	}
}

func TestReadCSVIntegerColumnStaysInt(t *testing.T) {
	path := writeCSV(t, "a,b\n1,1.0\n2,2.5\n")
	ds, err := NewDataReader(path, 0).ReadData()
	if err != nil {
		t.Fatalf("ReadData: %v", err)
	}
	if got := ds.Column("a").DType; got != dataset.DTypeInt64 {
		t.Errorf("a dtype = %q, want int64", got)
	}
	if got := ds.Column("b").DType; got != dataset.DTypeFloat64 {
		t.Errorf("b dtype = %q, want float64", got)
	}
}

func TestReadCSVMixedColumnIsObject(t *testing.T) {
	path := writeCSV(t, "x\n1\ntwo\n3\n")
	ds, err := NewDataReader(path, 0).ReadData()
	if err != nil {
		t.Fatalf("ReadData: %v", err)
	}
	if got := ds.Column("x").DType; got != dataset.DTypeObject {
		t.Errorf("dtype = %q, want object", got)
	}
}

func TestReadCSVRowCap(t *testing.T) {
	path := writeCSV(t, "x\n1\n2\n3\n4\n5\n")
	ds, err := NewDataReader(path, 3).ReadData()
	if err != nil {
		t.Fatalf("ReadData: %v", err)
	}
	if ds.Rows() != 3 {
		t.Errorf("rows = %d, want 3", ds.Rows())
	}
	// Cap keeps the first rows in order.
	if got := ds.Column("x").Cells[2].Raw; got != "3" {
		t.Errorf("last kept row = %q, want 3", got)
	}
}

func TestReadCSVHeaderOnly(t *testing.T) {
	path := writeCSV(t, "a,b\n")
	if _, err := NewDataReader(path, 0).ReadData(); err == nil {
		t.Fatal("expected an error for header-only file")
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := NewDataReader("/nonexistent/file.csv", 0).ReadData(); err == nil {
		t.Fatal("expected an error for missing file")
	}
}

func TestReadCSVRaggedRows(t *testing.T) {
	path := writeCSV(t, "a,b\n1,2\n3\n")
	ds, err := NewDataReader(path, 0).ReadData()
	if err != nil {
		t.Fatalf("ReadData: %v", err)
	}
	// Short rows pad with nulls.
	if got := ds.Column("b").NullCount(); got != 1 {
		t.Errorf("b nulls = %d, want 1", got)
	}
}
