package carga

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"unicode/utf8"

	"covid-br/erros"
	"covid-br/jsonHelpers"
	"covid-br/modelos/configuracao"
	"covid-br/modelos/geo"
	"covid-br/tabela"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"
)

// Conjunto é um dataset carregado. Formatos tabulares preenchem Tabela; o formato json preenche Geo.
type Conjunto struct {
	Nome   string
	Tabela *tabela.Tabela
	Geo    *geo.Colecao
}

func (c *Conjunto) Tamanho() int {
	switch {
	case c.Tabela != nil:
		return c.Tabela.Tamanho()
	case c.Geo != nil:
		return c.Geo.Tamanho()
	default:
		return 0
	}
}

// Cliente é usado para fontes http(s). Não há timeout próprio: o prazo vem do contexto.
var Cliente = &http.Client{}

// Carregar lê o dataset descrito pela fonte. Qualquer falha é devolvida como *erros.ErroCarga.
func Carregar(ctx context.Context, nome string, fonte configuracao.Fonte) (*Conjunto, error) {
	conjunto, err := carregar(ctx, nome, fonte)
	if err != nil {
		return nil, erros.NovoErroCarga(nome, err)
	}

	logger.WithFields(logger.Fields{"component": "carga", "category": nome}).
		Debugf("%s lido - %d linhas", nome, conjunto.Tamanho())
	return conjunto, nil
}

func carregar(ctx context.Context, nome string, fonte configuracao.Fonte) (*Conjunto, error) {
	tipo := strings.ToLower(strings.TrimSpace(fonte.Tipo))
	if tipo == "" {
		tipo = configuracao.TipoCSV
	}

	corpo, err := abrir(ctx, fonte.Local)
	if err != nil {
		return nil, err
	}
	defer corpo.Close()

	leitor, err := descomprimir(corpo, fonte)
	if err != nil {
		return nil, err
	}
	defer leitor.Close()

	logger.WithFields(logger.Fields{"component": "carga", "category": nome}).
		Debugf("Lendo %s como %s", fonte.Local, tipo)

	var t *tabela.Tabela
	switch tipo {
	case configuracao.TipoXLS, configuracao.TipoXLSX:
		t, err = lerPlanilha(leitor, tipo, fonte.Opcoes)
	case configuracao.TipoJSON:
		colecao, err := jsonHelpers.DesserializarJsonDe[geo.Colecao](leitor)
		if err != nil {
			return nil, errors.Wrap(err, "falha ao decodificar o json")
		}
		return &Conjunto{Nome: nome, Geo: &colecao}, nil
	default:
		padrao := '\t'
		if tipo == configuracao.TipoCSV {
			padrao = ','
		}
		var sep rune
		if sep, err = separador(fonte.Opcoes, padrao); err == nil {
			t, err = lerDelimitado(ctx, leitor, sep, fonte.Opcoes.TamanhoBloco)
		}
	}
	if err != nil {
		return nil, err
	}

	if err := t.ConverterDatas(fonte.Datas); err != nil {
		return nil, err
	}

	return &Conjunto{Nome: nome, Tabela: t}, nil
}

func abrir(ctx context.Context, local string) (io.ReadCloser, error) {
	if !ehURL(local) {
		arquivo, err := os.Open(local)
		if err != nil {
			return nil, err
		}
		return arquivo, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, local, nil)
	if err != nil {
		return nil, err
	}

	res, err := Cliente.Do(req)
	if err != nil {
		return nil, err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		res.Body.Close()
		return nil, errors.Errorf("%s respondeu com status %s", local, res.Status)
	}

	return res.Body, nil
}

// descomprimir devolve o leitor do conteúdo descomprimido. Fechá-lo não fecha r.
func descomprimir(r io.Reader, fonte configuracao.Fonte) (io.ReadCloser, error) {
	compressao := strings.ToLower(fonte.Opcoes.Compressao)
	if compressao == configuracao.CompressaoInferida && strings.HasSuffix(caminho(fonte.Local), ".gz") {
		compressao = configuracao.CompressaoGzip
	}

	switch compressao {
	case "", configuracao.CompressaoInferida:
		return io.NopCloser(r), nil
	case configuracao.CompressaoGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, "falha ao abrir o conteúdo gzip")
		}
		return leitorGzip{gz}, nil
	default:
		return nil, errors.Errorf("compressão %q não suportada", fonte.Opcoes.Compressao)
	}
}

// leitorGzip identifica as falhas de descompressão, que de outra forma chegariam ao leitor csv como
// erros de leitura sem contexto.
type leitorGzip struct {
	*gzip.Reader
}

func (l leitorGzip) Read(p []byte) (int, error) {
	n, err := l.Reader.Read(p)
	if err != nil && err != io.EOF {
		err = errors.Wrap(err, "falha ao descomprimir o conteúdo gzip")
	}
	return n, err
}

// lerDelimitado lê todo o conteúdo de uma vez ou, com tamanhoBloco > 0, em blocos de linhas que
// são concatenados ao final.
func lerDelimitado(ctx context.Context, r io.Reader, sep rune, tamanhoBloco int) (*tabela.Tabela, error) {
	leitor := csv.NewReader(r)
	leitor.Comma = sep
	leitor.FieldsPerRecord = -1
	leitor.LazyQuotes = true

	cabecalho, err := leitor.Read()
	if err == io.EOF {
		return nil, errors.New("o arquivo está vazio")
	}
	if err != nil {
		return nil, errors.Wrap(err, "falha ao ler o cabeçalho")
	}

	if tamanhoBloco <= 0 {
		linhas, err := leitor.ReadAll()
		if err != nil {
			return nil, errors.Wrap(err, "falha ao ler as linhas")
		}
		return tabela.Nova(cabecalho, linhas), nil
	}

	var blocos []*tabela.Tabela
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		linhas, err := lerBloco(leitor, tamanhoBloco)
		if len(linhas) > 0 {
			blocos = append(blocos, tabela.Nova(cabecalho, linhas))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "falha ao ler o bloco %d", len(blocos)+1)
		}
	}

	if len(blocos) == 0 {
		return tabela.Nova(cabecalho, nil), nil
	}

	logger.WithField("component", "carga").Debugf("%d blocos de até %d linhas lidos", len(blocos), tamanhoBloco)
	return tabela.Concatenar(blocos...)
}

func lerBloco(leitor *csv.Reader, tamanho int) ([][]string, error) {
	linhas := make([][]string, 0, tamanho)
	for len(linhas) < tamanho {
		linha, err := leitor.Read()
		if err != nil {
			return linhas, err
		}
		linhas = append(linhas, linha)
	}
	return linhas, nil
}

// separador aceita um único caractere, ou `\t` escrito literalmente.
func separador(opcoes configuracao.Opcoes, padrao rune) (rune, error) {
	if opcoes.Separador == "" {
		return padrao, nil
	}
	if opcoes.Separador == `\t` {
		return '\t', nil
	}
	if utf8.RuneCountInString(opcoes.Separador) != 1 {
		return 0, errors.Errorf("separador %q inválido: use um único caractere", opcoes.Separador)
	}
	r, _ := utf8.DecodeRuneInString(opcoes.Separador)
	if r == utf8.RuneError {
		return 0, errors.Errorf("separador %q inválido: use um único caractere", opcoes.Separador)
	}
	return r, nil
}

func ehURL(local string) bool {
	l := strings.ToLower(local)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// caminho remove a query de uma URL, como em "cases.csv.gz?raw=true".
func caminho(local string) string {
	if !ehURL(local) {
		return local
	}
	u, err := url.Parse(local)
	if err != nil {
		return local
	}
	return path.Clean(u.Path)
}

func (c *Conjunto) String() string {
	return fmt.Sprintf("%s (%d linhas)", c.Nome, c.Tamanho())
}
