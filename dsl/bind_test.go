package dsl

import "testing"

func TestInterpolate(t *testing.T) {
	data := map[string]interface{}{
		"user": map[string]interface{}{"name": "Ada"},
		"items": []interface{}{
			map[string]interface{}{"label": "first"},
			map[string]interface{}{"label": "second"},
		},
		"count": 3,
	}

	cases := []struct {
		in   string
		want string
	}{
		{"Hello, ${user.name}!", "Hello, Ada!"},
		{"${items[1].label}", "second"},
		{"${count} items", "3 items"},
		{"${missing.path}", "${missing.path}"},
		{"${}", "${}"},
		{"no placeholders", "no placeholders"},
	}
	for _, c := range cases {
		if got := Interpolate(c.in, data); got != c.want {
			t.Fatalf("Interpolate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestInterpolateNilData(t *testing.T) {
	if got := Interpolate("Hello, ${user.name}!", nil); got != "Hello, ${user.name}!" {
		t.Fatalf("nil data should pass through, got %q", got)
	}
}

func TestParseSegment(t *testing.T) {
	name, idx := parseSegment("items[0][2]")
	if name != "items" || len(idx) != 2 || idx[0] != "0" || idx[1] != "2" {
		t.Fatalf("parseSegment = %q %v", name, idx)
	}
	name, idx = parseSegment("plain")
	if name != "plain" || len(idx) != 0 {
		t.Fatalf("parseSegment = %q %v", name, idx)
	}
}
