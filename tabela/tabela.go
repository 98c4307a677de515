// Package tabela modela um conjunto de dados tabular carregado verbatim: cabeçalho, linhas em texto
// e as colunas de data já convertidas.
package tabela

import (
	"strings"
	"time"

	"covid-br/erros"
	"covid-br/helpers"

	"github.com/pkg/errors"
)

type Tabela struct {
	Colunas []string
	Linhas  [][]string
	Datas   map[string][]time.Time

	indices map[string]int
}

func Nova(colunas []string, linhas [][]string) *Tabela {
	t := &Tabela{
		Colunas: normalizarCabecalho(colunas),
		Linhas:  linhas,
		Datas:   map[string][]time.Time{},
	}
	t.indexar()
	return t
}

// Concatenar junta blocos lidos incrementalmente. Todos os blocos devem ter o mesmo cabeçalho.
func Concatenar(blocos ...*Tabela) (*Tabela, error) {
	if len(blocos) == 0 {
		return Nova(nil, nil), nil
	}

	total := 0
	for _, b := range blocos {
		total += len(b.Linhas)
	}

	linhas := make([][]string, 0, total)
	for i, b := range blocos {
		if !mesmoCabecalho(blocos[0].Colunas, b.Colunas) {
			return nil, errors.Errorf("o bloco %d tem cabeçalho diferente do primeiro bloco", i)
		}
		linhas = append(linhas, b.Linhas...)
	}

	return Nova(blocos[0].Colunas, linhas), nil
}

func (t *Tabela) Tamanho() int {
	return len(t.Linhas)
}

func (t *Tabela) Indice(coluna string) (int, bool) {
	i, ok := t.indices[coluna]
	return i, ok
}

func (t *Tabela) PossuiColuna(coluna string) bool {
	_, ok := t.indices[coluna]
	return ok
}

// Valor retorna a célula da linha, ou vazio quando a linha é mais curta que o cabeçalho.
func (t *Tabela) Valor(linha int, coluna string) string {
	i, ok := t.indices[coluna]
	if !ok || i >= len(t.Linhas[linha]) {
		return ""
	}
	return t.Linhas[linha][i]
}

// ConverterDatas converte cada coluna informada para time.Time. Falha ao converter qualquer célula
// invalida a tabela inteira.
func (t *Tabela) ConverterDatas(colunas []string) error {
	for _, coluna := range colunas {
		if !t.PossuiColuna(coluna) {
			return erros.NovoErroFormatoDados(coluna, 0, "", errors.New("coluna de data ausente"))
		}

		datas := make([]time.Time, len(t.Linhas))
		for i := range t.Linhas {
			texto := t.Valor(i, coluna)
			d, err := helpers.ConverterData(texto)
			if err != nil {
				return erros.NovoErroFormatoDados(coluna, i+1, texto, err)
			}
			datas[i] = d
		}
		t.Datas[coluna] = datas
	}
	return nil
}

// Data retorna a data convertida da linha. O segundo retorno é falso se a coluna não foi convertida.
func (t *Tabela) Data(linha int, coluna string) (time.Time, bool) {
	datas, ok := t.Datas[coluna]
	if !ok || linha >= len(datas) {
		return time.Time{}, false
	}
	return datas[linha], true
}

func (t *Tabela) indexar() {
	t.indices = make(map[string]int, len(t.Colunas))
	for i, c := range t.Colunas {
		if _, existe := t.indices[c]; !existe {
			t.indices[c] = i
		}
	}
}

func normalizarCabecalho(colunas []string) []string {
	normalizado := make([]string, len(colunas))
	for i, c := range colunas {
		normalizado[i] = strings.TrimSpace(strings.TrimPrefix(c, "\ufeff"))
	}
	return normalizado
}

func mesmoCabecalho(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
