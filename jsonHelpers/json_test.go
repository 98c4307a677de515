package jsonHelpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type amostra struct {
	Estado string `json:"state"`
	Casos  int    `json:"totalCases"`
}

func TestDesserializarJsonDe(t *testing.T) {
	a, err := DesserializarJsonDe[[]amostra](strings.NewReader(`[{"state":"RJ","totalCases":3}]`))
	require.NoError(t, err)
	assert.Len(t, a, 1)
	assert.Equal(t, "RJ", a[0].Estado)
}

func TestDesserializarJsonDeInvalido(t *testing.T) {
	_, err := DesserializarJsonDe[amostra](strings.NewReader(`{"state":`))
	assert.Error(t, err)
}
