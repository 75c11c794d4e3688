package textutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ServiCampo-api/pkg/textutil"
)

func TestFold(t *testing.T) {
	casos := []struct {
		in   string
		want string
	}{
		{"José Gutiérrez", "jose gutierrez"},
		{"PEÑA", "pena"},
		{"Bogotá D.C.", "bogota d.c."},
		{"camión", "camion"},
		{"sin tildes", "sin tildes"},
		{"", ""},
		{"ÁÉÍÓÚ äëïöü", "aeiou aeiou"},
	}
	for _, tc := range casos {
		assert.Equal(t, tc.want, textutil.Fold(tc.in), "Fold(%q)", tc.in)
	}
}

func TestFoldPattern(t *testing.T) {
	assert.Equal(t, "%jose%", textutil.FoldPattern("  José "))
	assert.Equal(t, "%%", textutil.FoldPattern(""))
	assert.Equal(t, "%maria pena%", textutil.FoldPattern("María Peña"))
}
