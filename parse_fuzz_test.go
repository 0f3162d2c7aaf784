//go:build go1.18
// +build go1.18

package notation_test

import (
	"testing"

	"github.com/fieldnote-app/notation"
)

func FuzzParse(f *testing.F) {
	f.Add("a = 3")
	f.Add(`\sum_{i=1}^{3}{i}`)
	f.Add("2 km + 1000 m")
	f.Add(`\frac{1}{2} \cdot \sqrt 9`)
	f.Fuzz(func(t *testing.T, s string) {
		notation.Parse(s)
	})
}
