package checksum

import "testing"

func TestSum(t *testing.T) {
	// sha256("abc")
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := Sum([]byte("abc")); got != want {
		t.Errorf("Sum = %s", got)
	}
}

func TestMatchETag(t *testing.T) {
	sum := Sum([]byte("body"))
	tests := []struct {
		header string
		want   bool
	}{
		{ETag(sum), true},
		{sum, true},
		{"*", true},
		{`W/"` + sum + `"`, true},
		{`"other", ` + ETag(sum), true},
		{`"other"`, false},
		{"", false},
	}
	for _, tt := range tests {
		if got := MatchETag(tt.header, sum); got != tt.want {
			t.Errorf("MatchETag(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}
