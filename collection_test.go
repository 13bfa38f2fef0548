package workshop

import (
	"errors"
	"testing"
)

func TestRegistryKeyFields(t *testing.T) {
	cases := map[string]string{
		CollEngineSupply:     KeySerial,
		CollEngineElectrical: KeySerial,
		CollGeneratorSupply:  KeyCode,
		CollGeneratorInspect: KeyCode,
		CollSpares:           KeyPart,
	}
	for name, want := range cases {
		if got := KeyField(name); got != want {
			t.Errorf("KeyField(%s) = %q, want %q", name, got, want)
		}
	}
	if KeyField("bogus") != "" {
		t.Error("unknown collection must have empty key field")
	}
}

func TestCategoryCollections(t *testing.T) {
	cols, err := CategoryEnginesAll.Collections()
	if err != nil {
		t.Fatalf("engines_all: %v", err)
	}
	if len(cols) != 8 || cols[0] != CollEngineSupply {
		t.Fatalf("unexpected engines_all set: %v", cols)
	}

	cols, err = CategoryGeneratorsIssue.Collections()
	if err != nil {
		t.Fatalf("generators_issue: %v", err)
	}
	if len(cols) != 1 || cols[0] != CollGeneratorIssue {
		t.Fatalf("unexpected generators_issue set: %v", cols)
	}

	if _, err := Category("spares_all").Collections(); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestExportHeaders(t *testing.T) {
	headers, err := ExportHeaders(CategoryEnginesAll)
	if err != nil {
		t.Fatalf("headers: %v", err)
	}
	if headers[0] != KeySerial {
		t.Fatalf("business key must lead the headers, got %q", headers[0])
	}
	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		if seen[h] {
			t.Fatalf("duplicate header %q", h)
		}
		seen[h] = true
	}
	// notes appears in seven engine collections but only once in the union.
	if !seen["notes"] || !seen["engineType"] || !seen["pumpSerial"] {
		t.Fatalf("union incomplete: %v", headers)
	}
}
