package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/klarity-app/captis/internal/rdisplay"
	"gopkg.in/yaml.v3"
)

var testDisplays = []rdisplay.Display{
	{Left: 0, Top: 0, Width: 1920, Height: 1080},
	{Left: 1920, Top: -200, Width: 1080, Height: 1920},
}

func TestWriteDisplaysTable(t *testing.T) {
	var buf bytes.Buffer
	if err := writeDisplays(&buf, "table", testDisplays, 0); err != nil {
		t.Fatalf("writeDisplays: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "INDEX") || !strings.HasSuffix(lines[1], "*") || strings.HasSuffix(lines[2], "*") {
		t.Fatalf("unexpected table:\n%s", buf.String())
	}
	if !strings.Contains(lines[2], "-200") {
		t.Fatalf("negative origin missing:\n%s", buf.String())
	}
}

func TestWriteDisplaysStructured(t *testing.T) {
	tests := []struct {
		output    string
		unmarshal func([]byte, interface{}) error
	}{
		{"json", json.Unmarshal},
		{"yaml", yaml.Unmarshal},
	}
	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			var buf bytes.Buffer
			if err := writeDisplays(&buf, tt.output, testDisplays, 1); err != nil {
				t.Fatalf("writeDisplays: %v", err)
			}
			var got []displayEntry
			if err := tt.unmarshal(buf.Bytes(), &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			want := displayEntry{Index: 1, Left: 1920, Top: -200, Width: 1080, Height: 1920, Primary: true}
			if len(got) != 2 || got[1] != want || got[0].Primary {
				t.Fatalf("got %+v", got)
			}
		})
	}
}

func TestWriteDisplaysUnknownOutput(t *testing.T) {
	if err := writeDisplays(&bytes.Buffer{}, "xml", testDisplays, 0); err == nil {
		t.Fatal("expected error")
	}
}
