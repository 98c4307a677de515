package tabela

import (
	"testing"
	"time"

	"covid-br/erros"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcatenarBlocos(t *testing.T) {
	a := Nova([]string{"\ufeffdate", "state"}, [][]string{{"2021-01-01", "SP"}})
	b := Nova([]string{"date", "state"}, [][]string{{"2021-01-02", "RJ"}, {"2021-01-03", "MG"}})

	tab, err := Concatenar(a, b)
	require.NoError(t, err)
	assert.Equal(t, 3, tab.Tamanho())
	assert.Equal(t, "MG", tab.Valor(2, "state"))
}

func TestConcatenarCabecalhoDiferente(t *testing.T) {
	a := Nova([]string{"date"}, nil)
	b := Nova([]string{"state"}, nil)

	_, err := Concatenar(a, b)
	assert.Error(t, err)
}

func TestValorLinhaCurta(t *testing.T) {
	tab := Nova([]string{"a", "b"}, [][]string{{"1"}})
	assert.Equal(t, "", tab.Valor(0, "b"))
	assert.Equal(t, "", tab.Valor(0, "c"))
}

func TestConverterDatas(t *testing.T) {
	tab := Nova([]string{"date"}, [][]string{{"2021-01-01"}, {"2021-01-02"}})
	require.NoError(t, tab.ConverterDatas([]string{"date"}))

	d, ok := tab.Data(1, "date")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC), d)
}

func TestConverterDatasFalhaNomeiaCampo(t *testing.T) {
	tab := Nova([]string{"date"}, [][]string{{"2021-01-01"}, {"ontem"}})
	err := tab.ConverterDatas([]string{"date"})

	var formato *erros.ErroFormatoDados
	require.True(t, errors.As(err, &formato))
	assert.Equal(t, "date", formato.Campo)
	assert.Equal(t, 2, formato.Linha)
	assert.Equal(t, "ontem", formato.Valor)

	err = tab.ConverterDatas([]string{"data_notificacao"})
	require.True(t, errors.As(err, &formato))
	assert.Equal(t, "data_notificacao", formato.Campo)
}
