package coleta

import (
	"sort"
	"time"

	"covid-br/carga"
	"covid-br/erros"
)

// Registro associa o nome de cada dataset ao conjunto carregado ou ao erro da carga. É preenchido
// uma única vez por ColetarCom e somente lido depois disso.
type Registro struct {
	Duracao  time.Duration
	Duracoes map[string]time.Duration

	conjuntos map[string]*carga.Conjunto
	falhas    map[string]error
}

func novoRegistro() *Registro {
	return &Registro{
		Duracoes:  map[string]time.Duration{},
		conjuntos: map[string]*carga.Conjunto{},
		falhas:    map[string]error{},
	}
}

// Obter retorna o dataset para a transformação informada, ou *erros.ErroDatasetAusente com a
// causa da falha de carga, quando houver.
func (r *Registro) Obter(nome, transformacao string) (*carga.Conjunto, error) {
	if c, ok := r.conjuntos[nome]; ok {
		return c, nil
	}
	return nil, erros.NovoErroDatasetAusente(nome, transformacao, r.falhas[nome])
}

func (r *Registro) Possui(nome string) bool {
	_, ok := r.conjuntos[nome]
	return ok
}

func (r *Registro) Sucessos() int {
	return len(r.conjuntos)
}

// Falhas retorna uma cópia dos erros de carga por dataset.
func (r *Registro) Falhas() map[string]error {
	falhas := make(map[string]error, len(r.falhas))
	for nome, err := range r.falhas {
		falhas[nome] = err
	}
	return falhas
}

func (r *Registro) Nomes() []string {
	nomes := make([]string, 0, len(r.conjuntos))
	for nome := range r.conjuntos {
		nomes = append(nomes, nome)
	}
	sort.Strings(nomes)
	return nomes
}
