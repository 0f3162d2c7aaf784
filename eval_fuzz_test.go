//go:build go1.18
// +build go1.18

package notation_test

import (
	"testing"

	"github.com/fieldnote-app/notation"
)

func FuzzEval(f *testing.F) {
	f.Add("a = 3")
	f.Add(`\sum_{i=1}^{3}{i^2}`)
	f.Add("2 km + 1000 m")
	f.Add("sin(pi / 2)")
	f.Fuzz(func(t *testing.T, s string) {
		notation.EvalString(s, notation.NewContext())
	})
}
