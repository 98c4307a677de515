package dados

import "time"

// PontoNacional é uma data da série do Brasil com as colunas calculadas.
type PontoNacional struct {
	RegistroEstado

	AtivosCasos           float64 // activeCases
	AtivosCasosMS         float64 // activeCasesMS
	AtivosDiferenca       float64 // activeCasesDiff
	ObitosDiferenca       float64 // deathsDiff
	NovosVacinados        float64 // newVaccinated
	NovosVacinadosSegunda float64 // newVaccinated_second
}

// SerieNacional é a série temporal do TOTAL, ordenada por data. Colunas lista a projeção aplicada;
// medidas fora dela ficam ausentes.
type SerieNacional struct {
	Colunas []string
	Pontos  []PontoNacional
}

func (s *SerieNacional) Tamanho() int {
	return len(s.Pontos)
}

// Ultimo retorna o ponto mais recente da série.
func (s *SerieNacional) Ultimo() (PontoNacional, bool) {
	if len(s.Pontos) == 0 {
		return PontoNacional{}, false
	}
	return s.Pontos[len(s.Pontos)-1], true
}

type PopulacaoUF struct {
	UF        string
	Populacao int64
}

// CidadeRecente é um município na data mais recente, com coordenadas quando conhecidas.
type CidadeRecente struct {
	RegistroMunicipio

	Lat float64
	Lon float64
}

// EstadoRecente é uma UF na sua data mais recente. PercVacinados é ausente quando a população é
// desconhecida.
type EstadoRecente struct {
	RegistroEstado

	PercVacinados float64
}

// TotalMensal soma os novos casos e óbitos de um mês. Mes é o primeiro dia do mês.
type TotalMensal struct {
	Mes         time.Time
	NovosCasos  float64
	NovosObitos float64
}
