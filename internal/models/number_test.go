package models

import "testing"

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in       string
		expected float64
		ok       bool
	}{
		{"3", 3, true},
		{" 3 ", 3, true},
		{"-2", -2, true},
		{"+1.5", 1.5, true},
		{".5", 0.5, true},
		{"5.", 5, true},
		{"1e3", 1000, true},
		{"2.5E-1", 0.25, true},
		{"", 0, false},
		{"abc", 0, false},
		{"1_2", 0, false},
		{"1_000.5", 0, false},
		{"0x1p4", 0, false},
		{"0X10", 0, false},
		{"-0x1p3", 0, false},
		{"Inf", 0, false},
		{"-infinity", 0, false},
		{"nan", 0, false},
		{"1e", 0, false},
		{"--1", 0, false},
		{"1e400", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseNumber(tt.in)
			if ok != tt.ok || got != tt.expected {
				t.Errorf("ParseNumber(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestNumberFromText(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"3", "3"},
		{" 007 ", "7"},
		{"0.10", "0.1"},
		{"-0", "-0"},
		{"9007199254740992", "9007199254740992"},
		{"9007199254740993", "9007199254740993"},
		{"-9007199254740993", "-9007199254740993"},
		{"123456789012345678901234567890", "123456789012345678901234567890"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, ok := NumberFromText(tt.in)
			if !ok {
				t.Fatalf("NumberFromText(%q) rejected", tt.in)
			}

			if v.Kind() != KindNumber {
				t.Errorf("Expected number kind, got %s", v.Kind())
			}

			if got := v.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNumberFromText_KeepsSign(t *testing.T) {
	v, _ := NumberFromText("-9007199254740993")

	if f, ok := v.Float(); !ok || f >= 0 {
		t.Errorf("Expected a negative number, got %v", f)
	}

	if _, ok := v.Text(); ok {
		t.Error("Expected a number to not report as text")
	}
}

func TestNumberFromText_Rejects(t *testing.T) {
	if v, ok := NumberFromText("0x1p3"); ok || !v.IsNull() {
		t.Errorf("Expected hex literal to be rejected, got %v", v)
	}
}
