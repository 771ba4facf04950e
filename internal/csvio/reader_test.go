package csvio

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"salesclean/internal/models"
)

// Helper to create a temp source file.
func createTempSource(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sales.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp source: %v", err)
	}

	return path
}

func TestRead_InfersColumnKinds(t *testing.T) {
	in := "Product Name,Price,Quantity\n  Apple  ,1.5, 3 \nPear,abc,2\n"

	ds, err := Read(strings.NewReader(in), ReadOptions{})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	want := []models.Column{
		{Name: "Product Name", Kind: models.ColumnText},
		{Name: "Price", Kind: models.ColumnText},
		{Name: "Quantity", Kind: models.ColumnNumeric},
	}
	if diff := cmp.Diff(want, ds.Columns); diff != "" {
		t.Errorf("Columns mismatch (-want +got):\n%s", diff)
	}

	if ds.Len() != 2 {
		t.Fatalf("Expected 2 rows, got %d", ds.Len())
	}

	if s, _ := ds.Rows[0]["Product Name"].Text(); s != "  Apple  " {
		t.Errorf("Expected raw text preserved, got %q", s)
	}

	if f, ok := ds.Rows[0]["Quantity"].Float(); !ok || f != 3 {
		t.Errorf("Expected quantity 3, got %v (number=%v)", f, ok)
	}

	if s, ok := ds.Rows[1]["Price"].Text(); !ok || s != "abc" {
		t.Errorf("Expected price text 'abc', got %q", s)
	}
}

func TestRead_NAValuesLoadAsNull(t *testing.T) {
	in := "price,quantity,name\n,3,Bolt\nNaN,N/A,null\n"

	ds, err := Read(strings.NewReader(in), ReadOptions{})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	for i, row := range ds.Rows {
		if !row["price"].IsNull() {
			t.Errorf("row %d: expected null price, got %v", i, row["price"])
		}
	}

	if !ds.Rows[1]["quantity"].IsNull() || !ds.Rows[1]["name"].IsNull() {
		t.Errorf("Expected NA tokens to load as null: %v", ds.Rows[1])
	}

	if c, _ := ds.Column("price"); c.Kind != models.ColumnNumeric {
		t.Errorf("Expected all-null column to be numeric, got %s", c.Kind)
	}
}

func TestRead_CustomNAValues(t *testing.T) {
	in := "price\n-\nNA\n"

	ds, err := Read(strings.NewReader(in), ReadOptions{NAValues: []string{"-"}})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if !ds.Rows[0]["price"].IsNull() {
		t.Error("Expected '-' to load as null")
	}

	if s, ok := ds.Rows[1]["price"].Text(); !ok || s != "NA" {
		t.Errorf("Expected 'NA' to stay text, got %v", ds.Rows[1]["price"])
	}
}

func TestRead_HeaderMangling(t *testing.T) {
	in := "\ufeffprice,price,,price.1\n1,2,3,4\n"

	ds, err := Read(strings.NewReader(in), ReadOptions{})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	want := []string{"price", "price.1", "Unnamed: 2", "price.1.1"}
	if diff := cmp.Diff(want, ds.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
}

func TestMangleHeader_Repeats(t *testing.T) {
	got := mangleHeader([]string{"a", "a.1", "a", "a"})
	want := []string{"a", "a.1", "a.2", "a.3"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mangleHeader mismatch (-want +got):\n%s", diff)
	}
}

func TestRead_ShortRowsPadWithNull(t *testing.T) {
	in := "price,quantity,name\n1,2\n"

	ds, err := Read(strings.NewReader(in), ReadOptions{})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if !ds.Rows[0]["name"].IsNull() {
		t.Errorf("Expected padded null, got %v", ds.Rows[0]["name"])
	}
}

func TestRead_LongRowIsParseError(t *testing.T) {
	in := "price,quantity\n1,2\n1,2,3\n"

	_, err := Read(strings.NewReader(in), ReadOptions{})
	if !errors.Is(err, ErrParse) {
		t.Fatalf("Expected ErrParse, got %v", err)
	}

	var pe *ParseError
	if !errors.As(err, &pe) || pe.Line != 3 {
		t.Errorf("Expected parse error at line 3, got %v", err)
	}
}

func TestRead_EmptySource(t *testing.T) {
	_, err := Read(strings.NewReader(""), ReadOptions{})
	if !errors.Is(err, ErrParse) {
		t.Fatalf("Expected ErrParse for empty source, got %v", err)
	}
}

func TestRead_MalformedQuotes(t *testing.T) {
	in := "price,name\n1,\"unterminated\n"

	_, err := Read(strings.NewReader(in), ReadOptions{})
	if !errors.Is(err, ErrParse) {
		t.Fatalf("Expected ErrParse for malformed quoting, got %v", err)
	}
}

func TestRead_HeaderOnly(t *testing.T) {
	ds, err := Read(strings.NewReader("price,quantity\n"), ReadOptions{})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if ds.Len() != 0 || len(ds.Columns) != 2 {
		t.Errorf("Expected 0 rows and 2 columns, got %d rows, %d columns", ds.Len(), len(ds.Columns))
	}
}

func TestRead_Delimiter(t *testing.T) {
	ds, err := Read(strings.NewReader("price;quantity\n1,5;2\n"), ReadOptions{Delimiter: ';'})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if s, ok := ds.Rows[0]["price"].Text(); !ok || s != "1,5" {
		t.Errorf("Expected price text '1,5', got %v", ds.Rows[0]["price"])
	}
}

func TestLoad_SourceNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"), ReadOptions{})
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("Expected ErrSourceNotFound, got %v", err)
	}
}

func TestLoad_ParseErrorCarriesPath(t *testing.T) {
	path := createTempSource(t, "a,b\n1,2,3\n")

	_, err := Load(path, ReadOptions{})

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected *ParseError, got %v", err)
	}

	if pe.Path != path {
		t.Errorf("Expected path %q, got %q", path, pe.Path)
	}
}

func TestLoad_Valid(t *testing.T) {
	path := createTempSource(t, "price,quantity\n10.5,2\n")

	ds, err := Load(path, ReadOptions{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if ds.Len() != 1 {
		t.Errorf("Expected 1 row, got %d", ds.Len())
	}
}

func TestRead_GoLiteralsStayText(t *testing.T) {
	in := "code,price,quantity\n1_2,1,1\n0x1p4,2,2\n"

	ds, err := Read(strings.NewReader(in), ReadOptions{})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if c, _ := ds.Column("code"); c.Kind != models.ColumnText {
		t.Errorf("Expected code column to stay text, got %s", c.Kind)
	}

	var buf bytes.Buffer
	if err := Write(&buf, ds, WriteOptions{}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if buf.String() != in {
		t.Errorf("Expected round trip unchanged, got %q", buf.String())
	}
}

func TestRead_LargeIntegersRoundTrip(t *testing.T) {
	in := "price,quantity\n1,9007199254740993\n2,5\n"

	ds, err := Read(strings.NewReader(in), ReadOptions{})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if c, _ := ds.Column("quantity"); c.Kind != models.ColumnNumeric {
		t.Errorf("Expected quantity to be numeric, got %s", c.Kind)
	}

	var buf bytes.Buffer
	if err := Write(&buf, ds, WriteOptions{}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if buf.String() != in {
		t.Errorf("Expected %q, got %q", in, buf.String())
	}
}
