package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		explicit  string
		outputDir string
		dataFile  string
		fallback  string
		ext       string
		want      string
	}{
		{"explicit wins", "custom.pdf", "/out", "data/a.yaml", "invoice", extPDF, "custom.pdf"},
		{"next to data file", "", "", filepath.Join("data", "a.yaml"), "invoice", extPDF, filepath.Join("data", "a.pdf")},
		{"data file in output dir", "", "/out", filepath.Join("data", "a.json"), "invoice", extHTML, filepath.Join("/out", "a.html")},
		{"no data file", "", "", "", "report", extPDF, "report.pdf"},
		{"no data file in output dir", "", "/out", "", "table-2", extHTML, filepath.Join("/out", "table-2.html")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := resolveOutputPath(tt.explicit, tt.outputDir, tt.dataFile, tt.fallback, tt.ext)
			if got != tt.want {
				t.Errorf("resolveOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutputExt(t *testing.T) {
	t.Parallel()

	if got := outputExt(false); got != ".pdf" {
		t.Errorf("outputExt(false) = %q, want .pdf", got)
	}
	if got := outputExt(true); got != ".html" {
		t.Errorf("outputExt(true) = %q, want .html", got)
	}
}

func TestLoadData(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()
		data, err := loadData(write("a.yaml", "number: INV-1\ncurrency: EUR\n"))
		if err != nil {
			t.Fatalf("loadData() error = %v", err)
		}
		if data["number"] != "INV-1" || data["currency"] != "EUR" {
			t.Errorf("data = %v", data)
		}
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		data, err := loadData(write("b.json", `{"title": "Q1", "rows": [1, 2]}`))
		if err != nil {
			t.Fatalf("loadData() error = %v", err)
		}
		if data["title"] != "Q1" {
			t.Errorf("data = %v", data)
		}
	})

	t.Run("no file", func(t *testing.T) {
		t.Parallel()
		data, err := loadData("")
		if err != nil {
			t.Fatalf("loadData() error = %v", err)
		}
		if data == nil || len(data) != 0 {
			t.Errorf("data = %v, want empty map", data)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := loadData(filepath.Join(dir, "missing.yaml"))
		if !errors.Is(err, ErrReadData) || !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want ErrReadData wrapping os.ErrNotExist", err)
		}
	})

	t.Run("not an object", func(t *testing.T) {
		t.Parallel()
		_, err := loadData(write("c.yaml", "- a\n- b\n"))
		if !errors.Is(err, ErrReadData) {
			t.Errorf("error = %v, want ErrReadData", err)
		}
	})
}

func TestOutputTarget(t *testing.T) {
	t.Parallel()

	t.Run("writes to current path", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		target := &outputTarget{}

		first := filepath.Join(dir, "a", "one.pdf")
		target.set(first)
		if err := target.write(context.Background(), "One", []byte("%PDF one")); err != nil {
			t.Fatalf("write() error = %v", err)
		}
		if !target.done() {
			t.Error("done() = false after write")
		}

		second := filepath.Join(dir, "two.pdf")
		target.set(second)
		if target.done() {
			t.Error("done() should reset when the path changes")
		}
		if err := target.write(context.Background(), "Two", []byte("%PDF two")); err != nil {
			t.Fatalf("write() error = %v", err)
		}

		for path, want := range map[string]string{first: "%PDF one", second: "%PDF two"} {
			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading %s: %v", path, err)
			}
			if string(got) != want {
				t.Errorf("%s = %q, want %q", path, got, want)
			}
		}
	})

	t.Run("no path", func(t *testing.T) {
		t.Parallel()
		target := &outputTarget{}
		if err := target.write(context.Background(), "", []byte("x")); !errors.Is(err, ErrWriteOutput) {
			t.Errorf("write() error = %v, want ErrWriteOutput", err)
		}
	})

	t.Run("path is a directory", func(t *testing.T) {
		t.Parallel()
		target := &outputTarget{}
		target.set(t.TempDir())
		err := target.write(context.Background(), "", []byte("x"))
		if !errors.Is(err, ErrWriteOutput) {
			t.Errorf("write() error = %v, want ErrWriteOutput", err)
		}
		if target.done() {
			t.Error("done() = true after failed write")
		}
	})
}
