package dados

import (
	"math"
	"testing"
	"time"

	"covid-br/erros"
	"covid-br/tabela"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodificarEstados(t *testing.T) {
	tab := tabela.Nova(
		[]string{"date", "state", "totalCases", "deaths", "recovered", "vaccinated"},
		[][]string{
			{"2021-05-20", "TOTAL", "100", "10", "", "5"},
			{"2021-05-20", "SP", "40", "4", "30", ""},
		})
	require.NoError(t, tab.ConverterDatas([]string{"date"}))

	registros, err := DecodificarEstados(tab)
	require.NoError(t, err)
	require.Len(t, registros, 2)

	total := registros[0]
	assert.Equal(t, EstadoTotal, total.Estado)
	assert.Equal(t, time.Date(2021, 5, 20, 0, 0, 0, 0, time.UTC), total.Data)
	assert.Equal(t, 100.0, total.TotalCasos)
	assert.True(t, math.IsNaN(total.Recuperados), "célula vazia deve ser ausente")
	assert.True(t, math.IsNaN(total.TotalCasosMS), "coluna ausente deve ser ausente")
	assert.True(t, math.IsNaN(registros[1].Vacinados))
}

func TestDecodificarEstadosValorInvalido(t *testing.T) {
	tab := tabela.Nova([]string{"date", "state", "deaths"}, [][]string{{"2021-05-20", "SP", "muitos"}})

	_, err := DecodificarEstados(tab)

	var formato *erros.ErroFormatoDados
	require.True(t, errors.As(err, &formato))
	assert.Equal(t, "deaths", formato.Campo)
	assert.Equal(t, 1, formato.Linha)
}

func TestDecodificarEstadosSemColunaObrigatoria(t *testing.T) {
	tab := tabela.Nova([]string{"date", "deaths"}, nil)

	_, err := DecodificarEstados(tab)

	var formato *erros.ErroFormatoDados
	require.True(t, errors.As(err, &formato))
	assert.Equal(t, "state", formato.Campo)
}

func TestDecodificarMunicipios(t *testing.T) {
	tab := tabela.Nova(
		[]string{"date", "state", "city", "ibgeID", "totalCases", "deaths"},
		[][]string{{"2021-05-20", "RO", "Alta Floresta D'Oeste/RO", "1100015", "2000", "40"}})

	registros, err := DecodificarMunicipios(tab)
	require.NoError(t, err)
	require.Len(t, registros, 1)
	assert.Equal(t, int64(1100015), registros[0].IbgeID)
	assert.Equal(t, 40.0, registros[0].Obitos)
	assert.True(t, math.IsNaN(registros[0].CasosPor100k))
}

func TestDecodificarPopulacao(t *testing.T) {
	tab := tabela.Nova(
		[]string{"UF", "COD. UF", "COD. MUNIC", "NOME DO MUNICÍPIO", "POPULAÇÃO ESTIMADA"},
		[][]string{{"RO", "11", "00015", "Alta Floresta D'Oeste", "22.728 (1)"}})

	registros, err := DecodificarPopulacao(tab)
	require.NoError(t, err)
	assert.Equal(t, PopulacaoMunicipio{
		UF: "RO", CodigoUF: "11", CodigoMunicipio: "00015", Nome: "Alta Floresta D'Oeste", PopulacaoEstimada: "22.728 (1)",
	}, registros[0])
}

func TestDecodificarCoordenadas(t *testing.T) {
	tab := tabela.Nova(
		[]string{"ibgeID", "id", "lat", "lon"},
		[][]string{{"1100015.0", "1", "-11.93", "-61.99"}, {"", "2", "-10.0", "-50.0"}})

	registros, err := DecodificarCoordenadas(tab)
	require.NoError(t, err)
	assert.Equal(t, 1100015.0, registros[0].IbgeID)
	assert.True(t, math.IsNaN(registros[1].IbgeID))
}

func TestMedida(t *testing.T) {
	r := RegistroEstado{}
	*r.Medida(ColunaVacinados) = 7
	assert.Equal(t, 7.0, r.Vacinados)
	assert.Nil(t, r.Medida(ColunaEstado))
}

func TestDecodificarPopulacaoIgnoraLinhasEmBranco(t *testing.T) {
	tab := tabela.Nova(
		[]string{"UF", "POPULAÇÃO ESTIMADA"},
		[][]string{{"AC", "10"}, nil, {"", " "}, {"AL", "20"}})

	registros, err := DecodificarPopulacao(tab)
	require.NoError(t, err)
	assert.Len(t, registros, 2)
}
