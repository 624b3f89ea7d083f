package workload

import "testing"

func TestShortIDFor(t *testing.T) {
	tests := []struct {
		id   int64
		want string
	}{
		{0, "aaaaaa"},
		{1, "baaaaa"},
		{25, "zaaaaa"},
		{26, "0aaaaa"},
		{35, "9aaaaa"},
		{36, "abaaaa"},
		{36*36 + 2, "cabaaa"},
	}

	for _, tt := range tests {
		if got := ShortIDFor(tt.id); got != tt.want {
			t.Errorf("ShortIDFor(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestShortIDRoundtrip(t *testing.T) {
	for _, id := range []int64{0, 1, 35, 36, 1000, 68000, 36*36*36 - 1} {
		if got := ParseShortID(ShortIDFor(id)); got != id {
			t.Errorf("ParseShortID(ShortIDFor(%d)) = %d", id, got)
		}
	}
}

func TestShortIDLength(t *testing.T) {
	for _, id := range []int64{0, 1, 25000, 68000} {
		if got := ShortIDFor(id); len(got) != shortIDLen {
			t.Errorf("ShortIDFor(%d) = %q, want %d characters", id, got, shortIDLen)
		}
	}
}

func TestShortIDDistinct(t *testing.T) {
	seen := make(map[string]int64)
	for id := int64(0); id < 5000; id++ {
		s := ShortIDFor(id)
		if prev, ok := seen[s]; ok {
			t.Fatalf("ShortIDFor(%d) = %q collides with id %d", id, s, prev)
		}
		seen[s] = id
	}
}
