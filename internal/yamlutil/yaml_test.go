package yamlutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-printview/internal/yamlutil"
)

type lineItem struct {
	Description string  `yaml:"description"`
	Quantity    int     `yaml:"quantity"`
	UnitPrice   float64 `yaml:"unitPrice"`
}

type invoiceData struct {
	Number string     `yaml:"number"`
	Items  []lineItem `yaml:"items"`
}

// ---------------------------------------------------------------------------
// TestUnmarshal - Decodes YAML and JSON payloads
// ---------------------------------------------------------------------------

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		check   func(t *testing.T, v any)
	}{
		{
			name: "yaml payload",
			data: []byte("number: INV-7\nitems:\n  - description: Paper\n    quantity: 3\n    unitPrice: 4.5\n"),
			dest: &invoiceData{},
			check: func(t *testing.T, v any) {
				inv := v.(*invoiceData)
				if inv.Number != "INV-7" || len(inv.Items) != 1 {
					t.Fatalf("got %+v", inv)
				}
				if inv.Items[0].Quantity != 3 || inv.Items[0].UnitPrice != 4.5 {
					t.Errorf("item = %+v", inv.Items[0])
				}
			},
		},
		{
			name: "json payload",
			data: []byte(`{"number": "INV-8", "items": [{"description": "Ink", "quantity": 1}]}`),
			dest: &invoiceData{},
			check: func(t *testing.T, v any) {
				inv := v.(*invoiceData)
				if inv.Number != "INV-8" || inv.Items[0].Description != "Ink" {
					t.Errorf("got %+v", inv)
				}
			},
		},
		{
			name: "generic map",
			data: []byte("customer:\n  name: Acme\n"),
			dest: &map[string]any{},
			check: func(t *testing.T, v any) {
				m := *v.(*map[string]any)
				customer, ok := m["customer"].(map[string]any)
				if !ok || customer["name"] != "Acme" {
					t.Errorf("got %v", m)
				}
			},
		},
		{
			name:    "empty data",
			data:    nil,
			dest:    &invoiceData{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("number: x"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.Unmarshal(tt.data, tt.dest)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, tt.dest)
		})
	}
}

func TestUnmarshal_SyntaxErrorIsPrefixed(t *testing.T) {
	t.Parallel()

	err := yamlutil.Unmarshal([]byte("number: [unclosed"), &invoiceData{})
	if err == nil || !strings.HasPrefix(err.Error(), "yamlutil:") {
		t.Errorf("error = %v, want yamlutil-prefixed error", err)
	}
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict - Rejects unknown fields
// ---------------------------------------------------------------------------

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	t.Run("known fields", func(t *testing.T) {
		t.Parallel()

		var inv invoiceData
		if err := yamlutil.UnmarshalStrict([]byte("number: A1\n"), &inv); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if inv.Number != "A1" {
			t.Errorf("Number = %q, want A1", inv.Number)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()

		var inv invoiceData
		err := yamlutil.UnmarshalStrict([]byte("number: A1\ntotal: 3\n"), &inv)
		if err == nil {
			t.Fatal("expected error for unknown field")
		}
	})
}

// ---------------------------------------------------------------------------
// TestReadFile - Reads and decodes files
// ---------------------------------------------------------------------------

func TestReadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "data.yaml")
	if err := os.WriteFile(path, []byte("number: F-1\nextra: true\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	t.Run("lenient", func(t *testing.T) {
		t.Parallel()

		var inv invoiceData
		if err := yamlutil.ReadFile(path, &inv, false); err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if inv.Number != "F-1" {
			t.Errorf("Number = %q", inv.Number)
		}
	})

	t.Run("strict rejects extra field", func(t *testing.T) {
		t.Parallel()

		var inv invoiceData
		if err := yamlutil.ReadFile(path, &inv, true); err == nil {
			t.Error("expected strict decode error")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		var inv invoiceData
		err := yamlutil.ReadFile(filepath.Join(dir, "missing.yaml"), &inv, false)
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want os.ErrNotExist", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestMarshal - Encodes values
// ---------------------------------------------------------------------------

func TestMarshal(t *testing.T) {
	t.Parallel()

	out, err := yamlutil.Marshal(invoiceData{Number: "M-2"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(out), "number: M-2") {
		t.Errorf("Marshal() = %q", out)
	}
}

func TestInputSizeLimit(t *testing.T) {
	t.Parallel()

	big := []byte("number: " + strings.Repeat("x", yamlutil.MaxInputSize))
	err := yamlutil.Unmarshal(big, &invoiceData{})
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("error = %v, want ErrInputTooLarge", err)
	}
}
