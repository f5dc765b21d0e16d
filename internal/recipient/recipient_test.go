package recipient

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValid(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{id: "@abcde", want: true},
		{id: "@channel_name", want: true},
		{id: "@ab_cdef", want: false},
		{id: "@abc", want: false},
		{id: "@abcd", want: false},
		{id: "12345", want: true},
		{id: "-12345", want: true},
		{id: "-1001234567890", want: true},
		{id: "abc", want: false},
		{id: "", want: false},
		{id: "-", want: false},
		{id: "12ab", want: false},
		{id: "@", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Valid(tt.id)); diff != "" {
				t.Errorf("Valid(%q) mismatch (-want +got):\n%s", tt.id, diff)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty", raw: "", want: nil},
		{name: "whitespace only", raw: " \t\n ", want: nil},
		{name: "single id", raw: "-100000", want: []string{"-100000"}},
		{
			name: "mixed with invalid entries",
			raw:  "@channel  abc -123456\t1234567 @abc",
			want: []string{"@channel", "-123456", "1234567"},
		},
		{name: "duplicates kept", raw: "1 1", want: []string{"1", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Parse(tt.raw)); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.raw, diff)
			}
		})
	}
}
