// Package indicadores calcula os números exibidos nos cartões do painel e as agregações usadas
// pelos gráficos mensais e de vacinação diária.
package indicadores

import (
	"math"
	"time"

	"covid-br/helpers"
	"covid-br/modelos/dados"

	linq "github.com/ahmetb/go-linq/v3"
)

// JanelaMediaMovel é a janela, em dias, das médias móveis de vacinação.
const JanelaMediaMovel = 7

// LimiteMarcoVacinacao é a marca de primeiras doses destacada no gráfico acumulado.
const LimiteMarcoVacinacao = 50_000_000

// KPI é o valor mais recente e a variação em relação ao dia anterior.
type KPI struct {
	Valor float64
	Delta float64
}

type Indicadores struct {
	DosesAplicadas float64
	PrimeiraDose   KPI
	SegundaDose    KPI
	Atualizacao    time.Time
}

// Marco é a data em que a série de primeiras doses alcançou um limite.
type Marco struct {
	Data      time.Time
	Vacinados float64
	Dias      int
}

// Calcular usa os dois últimos pontos da série. Sem pontos suficientes os valores ficam ausentes.
func Calcular(serie *dados.SerieNacional) Indicadores {
	ind := Indicadores{
		DosesAplicadas: helpers.Nulo(),
		PrimeiraDose:   KPI{Valor: helpers.Nulo(), Delta: helpers.Nulo()},
		SegundaDose:    KPI{Valor: helpers.Nulo(), Delta: helpers.Nulo()},
	}
	if serie == nil {
		return ind
	}

	ultimo, ok := serie.Ultimo()
	if !ok {
		return ind
	}

	ind.Atualizacao = ultimo.Data
	ind.DosesAplicadas = ultimo.Vacinados + ultimo.VacinadosSegunda
	ind.PrimeiraDose.Valor = ultimo.Vacinados
	ind.SegundaDose.Valor = ultimo.VacinadosSegunda

	if n := serie.Tamanho(); n > 1 {
		anterior := serie.Pontos[n-2]
		ind.PrimeiraDose.Delta = ultimo.Vacinados - anterior.Vacinados
		ind.SegundaDose.Delta = ultimo.VacinadosSegunda - anterior.VacinadosSegunda
	}

	return ind
}

// PorMes soma novos casos e óbitos por mês, em ordem cronológica. Valores ausentes são ignorados.
func PorMes(serie *dados.SerieNacional) []dados.TotalMensal {
	if serie == nil {
		return []dados.TotalMensal{}
	}

	meses := []dados.TotalMensal{}
	linq.From(serie.Pontos).
		GroupByT(
			func(p dados.PontoNacional) time.Time {
				return time.Date(p.Data.Year(), p.Data.Month(), 1, 0, 0, 0, 0, time.UTC)
			},
			func(p dados.PontoNacional) dados.PontoNacional { return p },
		).
		SelectT(func(g linq.Group) dados.TotalMensal {
			total := dados.TotalMensal{Mes: g.Key.(time.Time)}
			for _, item := range g.Group {
				p := item.(dados.PontoNacional)
				total.NovosCasos += semAusente(p.NovosCasos)
				total.NovosObitos += semAusente(p.NovosObitos)
			}
			return total
		}).
		OrderByT(func(t dados.TotalMensal) int64 { return t.Mes.Unix() }).
		ToSlice(&meses)

	return meses
}

// MediaMovel calcula a média dos últimos janela valores. As primeiras janela-1 posições, e qualquer
// janela que contenha um valor ausente, ficam ausentes.
func MediaMovel(valores []float64, janela int) []float64 {
	if janela < 1 {
		janela = 1
	}

	medias := make([]float64, len(valores))
	for i := range valores {
		if i < janela-1 {
			medias[i] = helpers.Nulo()
			continue
		}

		soma := 0.0
		for _, v := range valores[i-janela+1 : i+1] {
			soma += v
		}
		medias[i] = soma / float64(janela)
	}
	return medias
}

// MarcoVacinacao procura o primeiro ponto em que as primeiras doses chegaram a limite. Dias conta a
// partir do primeiro dia com vacinados.
func MarcoVacinacao(serie *dados.SerieNacional, limite float64) (Marco, bool) {
	if serie == nil {
		return Marco{}, false
	}

	var inicio time.Time
	for _, p := range serie.Pontos {
		if inicio.IsZero() && p.Vacinados > 0 {
			inicio = p.Data
		}
		if p.Vacinados >= limite {
			if inicio.IsZero() {
				inicio = p.Data
			}
			return Marco{
				Data:      p.Data,
				Vacinados: p.Vacinados,
				Dias:      int(math.Round(p.Data.Sub(inicio).Hours() / 24)),
			}, true
		}
	}
	return Marco{}, false
}

// Vacinacao separa as novas doses diárias da série, para o cálculo das médias móveis.
func Vacinacao(serie *dados.SerieNacional) (primeira, segunda []float64) {
	if serie == nil {
		return nil, nil
	}

	linq.From(serie.Pontos).
		SelectT(func(p dados.PontoNacional) float64 { return p.NovosVacinados }).
		ToSlice(&primeira)
	linq.From(serie.Pontos).
		SelectT(func(p dados.PontoNacional) float64 { return p.NovosVacinadosSegunda }).
		ToSlice(&segunda)
	return primeira, segunda
}

func semAusente(v float64) float64 {
	if helpers.EhNulo(v) {
		return 0
	}
	return v
}
