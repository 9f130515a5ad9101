package yamlutil

import (
	"errors"
	"strings"
	"testing"
)

type testDoc struct {
	Name  string   `yaml:"name"`
	Items []string `yaml:"items"`
}

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	var doc testDoc
	data := []byte("name: demo\nitems:\n  - a\n  - b\n")
	if err := Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if doc.Name != "demo" || len(doc.Items) != 2 {
		t.Errorf("doc = %+v", doc)
	}
}

func TestUnmarshal_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
	}{
		{name: "nil data", data: nil, dest: &testDoc{}, wantErr: ErrNilData},
		{name: "empty data", data: []byte{}, dest: &testDoc{}, wantErr: ErrNilData},
		{name: "nil destination", data: []byte("a: 1"), dest: nil, wantErr: ErrNilDestination},
		{
			name:    "oversized input",
			data:    []byte("x: " + strings.Repeat("y", MaxInputSize)),
			dest:    &testDoc{},
			wantErr: ErrInputTooLarge,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := Unmarshal(tt.data, tt.dest); !errors.Is(err, tt.wantErr) {
				t.Errorf("Unmarshal() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	var doc testDoc
	known := []byte("name: ok\n")
	if err := UnmarshalStrict(known, &doc); err != nil {
		t.Fatalf("UnmarshalStrict() error = %v", err)
	}

	unknown := []byte("name: ok\nbogus_field: 1\n")
	if err := UnmarshalStrict(unknown, &testDoc{}); err == nil {
		t.Errorf("UnmarshalStrict() accepted unknown field")
	}
}

func TestUnmarshal_MalformedInput(t *testing.T) {
	t.Parallel()

	var doc testDoc
	if err := Unmarshal([]byte("name: [unclosed"), &doc); err == nil {
		t.Errorf("Unmarshal() accepted malformed YAML")
	}
}
