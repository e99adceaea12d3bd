package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"crlf", "a\r\nb\rc", "a\nb\nc"},
		{"fullwidth digits", "１７６．５時間", "176.5時間"},
		{"fullwidth colon", "氏名：田中", "氏名:田中"},
		{"space runs", "a    b", "a b"},
		{"blank line runs", "a\n\n\n\nb", "a\n\nb"},
		{"keeps tabs", "a\tb", "a\tb"},
		{"trailing line spaces", "a  \nb", "a\nb"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}
