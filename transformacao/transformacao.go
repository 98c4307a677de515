// Package transformacao deriva, a partir dos datasets carregados, as tabelas consumidas pelos
// gráficos. Todas as funções são puras: não alteram as entradas e devolvem tabelas novas.
package transformacao

import (
	"time"

	"covid-br/erros"
	"covid-br/helpers"
	"covid-br/modelos/dados"

	linq "github.com/ahmetb/go-linq/v3"
	"github.com/pkg/errors"
)

// Nomes das transformações, usados em logs, métricas e erros.
const (
	NomeSerieNacional  = "serie_nacional"
	NomeCidades        = "cidades_recentes"
	NomePopulacaoUF    = "populacao_uf"
	NomeEstadosRecente = "estados_recentes"
)

// SerieNacional filtra a linha TOTAL, projeta as colunas pedidas (todas, se nenhuma for informada)
// e acrescenta as colunas calculadas. Data e estado identificam a linha e são sempre mantidos.
func SerieNacional(estados []dados.RegistroEstado, colunas []string) (*dados.SerieNacional, error) {
	projecao, err := projetar(colunas)
	if err != nil {
		return nil, err
	}

	var total []dados.RegistroEstado
	linq.From(estados).
		WhereT(func(r dados.RegistroEstado) bool { return r.Estado == dados.EstadoTotal }).
		OrderByT(func(r dados.RegistroEstado) int64 { return r.Data.UnixNano() }).
		ToSlice(&total)

	pontos := make([]dados.PontoNacional, len(total))
	for i, r := range total {
		p := dados.PontoNacional{RegistroEstado: r}
		for _, coluna := range dados.ColunasEstado {
			if campo := p.Medida(coluna); campo != nil && !projecao[coluna] {
				*campo = helpers.Nulo()
			}
		}

		p.AtivosCasos = p.TotalCasos - p.Obitos - p.Recuperados
		p.AtivosCasosMS = p.TotalCasosMS - p.ObitosMS - p.Recuperados
		p.AtivosDiferenca = p.AtivosCasos - p.AtivosCasosMS
		p.ObitosDiferenca = p.Obitos - p.ObitosMS

		p.NovosVacinados = helpers.Nulo()
		p.NovosVacinadosSegunda = helpers.Nulo()
		if i > 0 {
			anterior := pontos[i-1]
			p.NovosVacinados = p.Vacinados - anterior.Vacinados
			p.NovosVacinadosSegunda = p.VacinadosSegunda - anterior.VacinadosSegunda
		}

		pontos[i] = p
	}

	return &dados.SerieNacional{Colunas: colunasProjetadas(colunas), Pontos: pontos}, nil
}

// PopulacaoPorUF soma a população estimada dos municípios por UF. Um valor que não possa ser
// convertido invalida a agregação inteira.
func PopulacaoPorUF(municipios []dados.PopulacaoMunicipio) ([]dados.PopulacaoUF, error) {
	type parcela struct {
		uf        string
		populacao int64
	}

	parcelas := make([]parcela, len(municipios))
	for i, m := range municipios {
		populacao, err := helpers.ConverterPopulacao(m.PopulacaoEstimada)
		if err != nil {
			return nil, erros.NovoErroFormatoDados(dados.ColunaPopulacaoEstimada, i+1, m.PopulacaoEstimada, err)
		}
		parcelas[i] = parcela{uf: m.UF, populacao: populacao}
	}

	var porUF []dados.PopulacaoUF
	linq.From(parcelas).
		GroupByT(
			func(p parcela) string { return p.uf },
			func(p parcela) int64 { return p.populacao },
		).
		SelectT(func(g linq.Group) dados.PopulacaoUF {
			return dados.PopulacaoUF{UF: g.Key.(string), Populacao: linq.From(g.Group).SumInts()}
		}).
		OrderByT(func(p dados.PopulacaoUF) string { return p.UF }).
		ToSlice(&porUF)

	return porUF, nil
}

// CidadesRecentes mantém os municípios da data mais recente e acrescenta latitude e longitude pelo
// ibgeID. Municípios sem coordenada continuam na saída, com lat/lon ausentes.
func CidadesRecentes(cidades []dados.RegistroMunicipio, coordenadas []dados.CoordenadaMunicipio) []dados.CidadeRecente {
	if len(cidades) == 0 {
		return []dados.CidadeRecente{}
	}

	maisRecente := cidades[0].Data
	for _, c := range cidades[1:] {
		if c.Data.After(maisRecente) {
			maisRecente = c.Data
		}
	}

	porID := make(map[int64]dados.CoordenadaMunicipio, len(coordenadas))
	for _, c := range coordenadas {
		if helpers.EhNulo(c.IbgeID) {
			continue
		}
		id := int64(c.IbgeID)
		if _, existe := porID[id]; !existe {
			porID[id] = c
		}
	}

	var recentes []dados.CidadeRecente
	linq.From(cidades).
		WhereT(func(c dados.RegistroMunicipio) bool { return c.Data.Equal(maisRecente) }).
		SelectT(func(c dados.RegistroMunicipio) dados.CidadeRecente {
			recente := dados.CidadeRecente{RegistroMunicipio: c, Lat: helpers.Nulo(), Lon: helpers.Nulo()}
			if coord, ok := porID[c.IbgeID]; ok {
				recente.Lat, recente.Lon = coord.Lat, coord.Lon
			}
			return recente
		}).
		ToSlice(&recentes)

	return recentes
}

// EstadosRecentes mantém, para cada UF, as linhas da sua data mais recente e calcula o percentual
// da população vacinado com a primeira dose.
func EstadosRecentes(estados []dados.RegistroEstado, populacao []dados.PopulacaoUF) []dados.EstadoRecente {
	var ufs []dados.RegistroEstado
	linq.From(estados).
		WhereT(func(r dados.RegistroEstado) bool { return r.Estado != dados.EstadoTotal }).
		ToSlice(&ufs)

	maisRecente := make(map[string]time.Time)
	for _, r := range ufs {
		if d, ok := maisRecente[r.Estado]; !ok || r.Data.After(d) {
			maisRecente[r.Estado] = r.Data
		}
	}

	populacaoUF := make(map[string]int64, len(populacao))
	for _, p := range populacao {
		populacaoUF[p.UF] = p.Populacao
	}

	recentes := make([]dados.EstadoRecente, 0, len(maisRecente))
	linq.From(ufs).
		WhereT(func(r dados.RegistroEstado) bool { return r.Data.Equal(maisRecente[r.Estado]) }).
		SelectT(func(r dados.RegistroEstado) dados.EstadoRecente {
			return dados.EstadoRecente{RegistroEstado: r, PercVacinados: percentual(r.Vacinados, populacaoUF, r.Estado)}
		}).
		ToSlice(&recentes)

	return recentes
}

// percentual é ausente quando a população da UF é desconhecida ou zero.
func percentual(vacinados float64, populacao map[string]int64, uf string) float64 {
	p, ok := populacao[uf]
	if !ok || p == 0 {
		return helpers.Nulo()
	}
	return vacinados / float64(p) * 100
}

func projetar(colunas []string) (map[string]bool, error) {
	projecao := make(map[string]bool, len(dados.ColunasEstado))
	if len(colunas) == 0 {
		for _, c := range dados.ColunasEstado {
			projecao[c] = true
		}
		return projecao, nil
	}

	for _, c := range colunas {
		if !linq.From(dados.ColunasEstado).Contains(c) {
			return nil, erros.NovoErroFormatoDados(c, 0, "", errors.New("coluna desconhecida na projeção da série nacional"))
		}
		projecao[c] = true
	}
	return projecao, nil
}

func colunasProjetadas(colunas []string) []string {
	if len(colunas) == 0 {
		colunas = dados.ColunasEstado
	}
	return append([]string(nil), colunas...)
}
