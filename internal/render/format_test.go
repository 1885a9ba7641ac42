package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestIndentJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "single field",
			raw:  `{"nama":"A"}`,
			want: "{\n  \"nama\": \"A\"\n}",
		},
		{
			name: "key order kept",
			raw:  `{"z":1,"a":{"m":true,"b":null}}`,
			want: "{\n  \"z\": 1,\n  \"a\": {\n    \"m\": true,\n    \"b\": null\n  }\n}",
		},
		{
			name: "surrounding whitespace dropped",
			raw:  "\n  [1, 2]\n\n",
			want: "[\n  1,\n  2\n]",
		},
		{
			name: "scalar document",
			raw:  `"ok"`,
			want: `"ok"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IndentJSON([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIndentJSON_Invalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "<html>502</html>", `{"a":`, `{"a":1}{"b":2}`} {
		t.Run(raw, func(t *testing.T) {
			_, err := IndentJSON([]byte(raw))
			assert.Error(t, err)
		})
	}
}

// TestToYAML verifies block output, key order, and quoting of strings
// that would otherwise change type.
func TestToYAML(t *testing.T) {
	raw := `{"nama":"Budi","nik":"3201010101010001","umur":30,"aktif":true,` +
		`"alamat":{"kota":"Bandung","kode_pos":"40111"},"hobi":["catur","renang"]}`

	got, err := ToYAML([]byte(raw))
	require.NoError(t, err)

	assert.Contains(t, got, "nama: Budi\n")
	assert.Contains(t, got, "nik: \"3201010101010001\"\n")
	assert.Contains(t, got, "umur: 30\n")
	assert.Contains(t, got, "aktif: true\n")
	assert.Contains(t, got, "alamat:\n  kota: Bandung\n")
	assert.Contains(t, got, "- catur\n")
	assert.NotContains(t, got, "{", "flow style must be dropped")

	// Key order follows the JSON document.
	order := []string{"nama:", "nik:", "umur:", "aktif:", "alamat:", "hobi:"}
	last := -1
	for _, key := range order {
		idx := strings.Index(got, key)
		require.GreaterOrEqual(t, idx, 0, "missing key %s", key)
		assert.Greater(t, idx, last, "key %s out of order", key)
		last = idx
	}
}

// TestToYAML_Strings covers JSON escapes that have no YAML equivalent
// and text outside ASCII.
func TestToYAML_Strings(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"escaped solidus", `{"lahir":"01\/01\/1990"}`, "lahir: 01/01/1990\n"},
		{"latin escape", `{"nama":"Jos\u00e9"}`, "nama: José\n"},
		{"raw utf-8", `{"kota":"Bogotá"}`, "kota: Bogotá\n"},
		{"numeric string", `{"kode":"007"}`, "kode: \"007\"\n"},
		{"null and float", `{"x":null,"f":1.5}`, "x: null\nf: 1.5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToYAML([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestToYAML_NonBMPRoundTrips checks that characters outside the Basic
// Multilingual Plane decode back to the same text, whether the encoder
// writes them raw or as an escape.
func TestToYAML_NonBMPRoundTrips(t *testing.T) {
	for _, raw := range []string{`{"a":"😀"}`, `{"a":"\ud83d\ude00 ok"}`} {
		got, err := ToYAML([]byte(raw))
		require.NoError(t, err)

		var back map[string]string
		require.NoError(t, yaml.Unmarshal([]byte(got), &back))
		assert.True(t, strings.HasPrefix(back["a"], "😀"), "got %q", back["a"])
	}
}

func TestToYAML_Invalid(t *testing.T) {
	for _, raw := range []string{"not json", `{"a":1}{"b":2}`, `{"a":1,"a":2}`, `{"a":`, ``} {
		t.Run(raw, func(t *testing.T) {
			_, err := ToYAML([]byte(raw))
			assert.Error(t, err)
		})
	}
}
