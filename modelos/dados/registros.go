package dados

import (
	"strings"
	"time"

	"covid-br/erros"
	"covid-br/helpers"
	"covid-br/tabela"

	"github.com/pkg/errors"
)

// EstadoTotal é o valor da coluna state na linha que agrega o Brasil inteiro.
const EstadoTotal = "TOTAL"

// Colunas dos datasets de casos (https://github.com/wcota/covid19br).
const (
	ColunaData             = "date"
	ColunaEstado           = "state"
	ColunaCidade           = "city"
	ColunaIbgeID           = "ibgeID"
	ColunaNovosObitos      = "newDeaths"
	ColunaObitos           = "deaths"
	ColunaObitosMS         = "deathsMS"
	ColunaNovosCasos       = "newCases"
	ColunaTotalCasos       = "totalCases"
	ColunaTotalCasosMS     = "totalCasesMS"
	ColunaRecuperados      = "recovered"
	ColunaTestes           = "tests"
	ColunaVacinados        = "vaccinated"
	ColunaVacinadosSegunda = "vaccinated_second"
	ColunaObitosPor100k    = "deaths_per_100k_inhabitants"
	ColunaCasosPor100k     = "totalCases_per_100k_inhabitants"
	ColunaLatitude         = "lat"
	ColunaLongitude        = "lon"
)

// Colunas da planilha de estimativa populacional do IBGE.
const (
	ColunaUF                = "UF"
	ColunaCodigoUF          = "COD. UF"
	ColunaCodigoMunicipio   = "COD. MUNIC"
	ColunaNomeMunicipio     = "NOME DO MUNICÍPIO"
	ColunaPopulacaoEstimada = "POPULAÇÃO ESTIMADA"
)

// ColunasEstado são as colunas conhecidas de RegistroEstado, na ordem do arquivo original.
var ColunasEstado = []string{
	ColunaData, ColunaEstado, ColunaNovosObitos, ColunaObitos, ColunaObitosMS, ColunaNovosCasos,
	ColunaTotalCasos, ColunaTotalCasosMS, ColunaRecuperados, ColunaTestes, ColunaVacinados, ColunaVacinadosSegunda,
}

// RegistroEstado é uma linha de cases-brazil-states: uma UF (ou o TOTAL) em uma data.
type RegistroEstado struct {
	Data             time.Time
	Estado           string
	NovosObitos      float64
	Obitos           float64
	ObitosMS         float64
	NovosCasos       float64
	TotalCasos       float64
	TotalCasosMS     float64
	Recuperados      float64
	Testes           float64
	Vacinados        float64
	VacinadosSegunda float64
}

// Medida retorna o campo numérico correspondente à coluna, ou nil se a coluna não for uma medida.
func (r *RegistroEstado) Medida(coluna string) *float64 {
	switch coluna {
	case ColunaNovosObitos:
		return &r.NovosObitos
	case ColunaObitos:
		return &r.Obitos
	case ColunaObitosMS:
		return &r.ObitosMS
	case ColunaNovosCasos:
		return &r.NovosCasos
	case ColunaTotalCasos:
		return &r.TotalCasos
	case ColunaTotalCasosMS:
		return &r.TotalCasosMS
	case ColunaRecuperados:
		return &r.Recuperados
	case ColunaTestes:
		return &r.Testes
	case ColunaVacinados:
		return &r.Vacinados
	case ColunaVacinadosSegunda:
		return &r.VacinadosSegunda
	default:
		return nil
	}
}

// RegistroMunicipio é uma linha de cases-brazil-cities-time.
type RegistroMunicipio struct {
	Data          time.Time
	Estado        string
	Cidade        string
	IbgeID        int64
	NovosObitos   float64
	Obitos        float64
	NovosCasos    float64
	TotalCasos    float64
	ObitosPor100k float64
	CasosPor100k  float64
}

// PopulacaoMunicipio mantém a estimativa como texto; a conversão acontece na agregação por UF.
type PopulacaoMunicipio struct {
	UF                string
	CodigoUF          string
	CodigoMunicipio   string
	Nome              string
	PopulacaoEstimada string
}

// CoordenadaMunicipio é uma linha de gps_cities. IbgeID é Nulo quando ausente no arquivo.
type CoordenadaMunicipio struct {
	IbgeID float64
	Lat    float64
	Lon    float64
}

func DecodificarEstados(t *tabela.Tabela) ([]RegistroEstado, error) {
	if err := exigirColunas(t, ColunaData, ColunaEstado); err != nil {
		return nil, err
	}

	registros := make([]RegistroEstado, t.Tamanho())
	for i := range t.Linhas {
		r := &registros[i]

		d, err := data(t, i, ColunaData)
		if err != nil {
			return nil, err
		}
		r.Data = d
		r.Estado = t.Valor(i, ColunaEstado)

		for _, coluna := range ColunasEstado {
			campo := r.Medida(coluna)
			if campo == nil {
				continue
			}
			if *campo, err = numero(t, i, coluna); err != nil {
				return nil, err
			}
		}
	}

	return registros, nil
}

func DecodificarMunicipios(t *tabela.Tabela) ([]RegistroMunicipio, error) {
	if err := exigirColunas(t, ColunaData, ColunaIbgeID); err != nil {
		return nil, err
	}

	registros := make([]RegistroMunicipio, t.Tamanho())
	for i := range t.Linhas {
		r := &registros[i]

		d, err := data(t, i, ColunaData)
		if err != nil {
			return nil, err
		}
		r.Data = d
		r.Estado = t.Valor(i, ColunaEstado)
		r.Cidade = t.Valor(i, ColunaCidade)

		texto := t.Valor(i, ColunaIbgeID)
		id, _, err := helpers.ConverterIdentificador(texto)
		if err != nil {
			return nil, erros.NovoErroFormatoDados(ColunaIbgeID, i+1, texto, err)
		}
		r.IbgeID = id

		campos := []struct {
			coluna string
			valor  *float64
		}{
			{ColunaNovosObitos, &r.NovosObitos},
			{ColunaObitos, &r.Obitos},
			{ColunaNovosCasos, &r.NovosCasos},
			{ColunaTotalCasos, &r.TotalCasos},
			{ColunaObitosPor100k, &r.ObitosPor100k},
			{ColunaCasosPor100k, &r.CasosPor100k},
		}
		for _, c := range campos {
			if *c.valor, err = numero(t, i, c.coluna); err != nil {
				return nil, err
			}
		}
	}

	return registros, nil
}

func DecodificarPopulacao(t *tabela.Tabela) ([]PopulacaoMunicipio, error) {
	if err := exigirColunas(t, ColunaUF, ColunaPopulacaoEstimada); err != nil {
		return nil, err
	}

	registros := make([]PopulacaoMunicipio, 0, t.Tamanho())
	for i, linha := range t.Linhas {
		if linhaEmBranco(linha) {
			continue
		}
		registros = append(registros, PopulacaoMunicipio{
			UF:                t.Valor(i, ColunaUF),
			CodigoUF:          t.Valor(i, ColunaCodigoUF),
			CodigoMunicipio:   t.Valor(i, ColunaCodigoMunicipio),
			Nome:              t.Valor(i, ColunaNomeMunicipio),
			PopulacaoEstimada: t.Valor(i, ColunaPopulacaoEstimada),
		})
	}

	return registros, nil
}

func DecodificarCoordenadas(t *tabela.Tabela) ([]CoordenadaMunicipio, error) {
	if err := exigirColunas(t, ColunaIbgeID, ColunaLatitude, ColunaLongitude); err != nil {
		return nil, err
	}

	var err error
	registros := make([]CoordenadaMunicipio, t.Tamanho())
	for i := range t.Linhas {
		r := &registros[i]
		if r.IbgeID, err = numero(t, i, ColunaIbgeID); err != nil {
			return nil, err
		}
		if r.Lat, err = numero(t, i, ColunaLatitude); err != nil {
			return nil, err
		}
		if r.Lon, err = numero(t, i, ColunaLongitude); err != nil {
			return nil, err
		}
	}

	return registros, nil
}

func exigirColunas(t *tabela.Tabela, colunas ...string) error {
	for _, c := range colunas {
		if !t.PossuiColuna(c) {
			return erros.NovoErroFormatoDados(c, 0, "", errors.New("coluna obrigatória ausente"))
		}
	}
	return nil
}

// linhaEmBranco identifica linhas vazias que as planilhas do IBGE trazem entre blocos.
func linhaEmBranco(linha []string) bool {
	for _, celula := range linha {
		if strings.TrimSpace(celula) != "" {
			return false
		}
	}
	return true
}

// numero converte a célula; colunas ausentes no cabeçalho resultam em Nulo.
func numero(t *tabela.Tabela, linha int, coluna string) (float64, error) {
	if !t.PossuiColuna(coluna) {
		return helpers.Nulo(), nil
	}

	texto := t.Valor(linha, coluna)
	v, err := helpers.ConverterNumero(texto)
	if err != nil {
		return 0, erros.NovoErroFormatoDados(coluna, linha+1, texto, err)
	}
	return v, nil
}

func data(t *tabela.Tabela, linha int, coluna string) (time.Time, error) {
	if d, ok := t.Data(linha, coluna); ok {
		return d, nil
	}

	texto := t.Valor(linha, coluna)
	d, err := helpers.ConverterData(texto)
	if err != nil {
		return time.Time{}, erros.NovoErroFormatoDados(coluna, linha+1, texto, err)
	}
	return d, nil
}
