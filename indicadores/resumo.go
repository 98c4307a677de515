package indicadores

import (
	"encoding/json"
	"io"
	"time"

	"covid-br/helpers"
	"covid-br/modelos/dados"

	"github.com/pkg/errors"
)

// Resumo é o arquivo JSON lido pela página dos indicadores. Valores ausentes são gravados como null.
type Resumo struct {
	Atualizacao        string       `json:"atualizacao,omitempty"`
	DosesAplicadas     *float64     `json:"doses_aplicadas"`
	PrimeiraDose       ResumoKPI    `json:"primeira_dose"`
	SegundaDose        ResumoKPI    `json:"segunda_dose"`
	MediaMovelPrimeira *float64     `json:"media_movel_primeira_dose"`
	MediaMovelSegunda  *float64     `json:"media_movel_segunda_dose"`
	Marco              *ResumoMarco `json:"marco_vacinacao,omitempty"`
	Meses              []ResumoMes  `json:"meses"`
}

type ResumoKPI struct {
	Valor *float64 `json:"valor"`
	Delta *float64 `json:"delta"`
}

type ResumoMarco struct {
	Data      string  `json:"data"`
	Vacinados float64 `json:"vacinados"`
	Dias      int     `json:"dias"`
}

type ResumoMes struct {
	Mes         string  `json:"mes"`
	NovosCasos  float64 `json:"novos_casos"`
	NovosObitos float64 `json:"novos_obitos"`
}

// NovoResumo reúne os indicadores da série nacional.
func NovoResumo(serie *dados.SerieNacional) Resumo {
	ind := Calcular(serie)
	resumo := Resumo{
		DosesAplicadas: valor(ind.DosesAplicadas),
		PrimeiraDose:   ResumoKPI{Valor: valor(ind.PrimeiraDose.Valor), Delta: valor(ind.PrimeiraDose.Delta)},
		SegundaDose:    ResumoKPI{Valor: valor(ind.SegundaDose.Valor), Delta: valor(ind.SegundaDose.Delta)},
		Meses:          []ResumoMes{},
	}
	if !ind.Atualizacao.IsZero() {
		resumo.Atualizacao = ind.Atualizacao.Format(time.DateOnly)
	}

	primeira, segunda := Vacinacao(serie)
	resumo.MediaMovelPrimeira = ultimo(MediaMovel(primeira, JanelaMediaMovel))
	resumo.MediaMovelSegunda = ultimo(MediaMovel(segunda, JanelaMediaMovel))

	if marco, ok := MarcoVacinacao(serie, LimiteMarcoVacinacao); ok {
		resumo.Marco = &ResumoMarco{Data: marco.Data.Format(time.DateOnly), Vacinados: marco.Vacinados, Dias: marco.Dias}
	}

	for _, m := range PorMes(serie) {
		resumo.Meses = append(resumo.Meses, ResumoMes{Mes: m.Mes.Format("2006-01"), NovosCasos: m.NovosCasos, NovosObitos: m.NovosObitos})
	}

	return resumo
}

func (r Resumo) Gravar(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(r), "falha ao gravar o resumo dos indicadores")
}

// valor troca ausente por nil, já que JSON não representa NaN.
func valor(v float64) *float64 {
	if helpers.EhNulo(v) {
		return nil
	}
	return &v
}

func ultimo(valores []float64) *float64 {
	if len(valores) == 0 {
		return nil
	}
	return valor(valores[len(valores)-1])
}
