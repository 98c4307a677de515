package carga

import (
	"bytes"
	"io"

	"covid-br/modelos/configuracao"
	"covid-br/tabela"

	"github.com/extrame/xls"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// lerPlanilha carrega a planilha inteira em memória: os dois formatos exigem acesso aleatório.
func lerPlanilha(r io.Reader, tipo string, opcoes configuracao.Opcoes) (*tabela.Tabela, error) {
	conteudo, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "falha ao ler a planilha")
	}

	var linhas [][]string
	if tipo == configuracao.TipoXLS {
		linhas, err = linhasXLS(conteudo, opcoes.Planilha)
	} else {
		linhas, err = linhasXLSX(conteudo, opcoes.Planilha)
	}
	if err != nil {
		return nil, err
	}

	return recortar(linhas, opcoes.PularLinhas, opcoes.PularRodape)
}

// colunasXLS é o limite de colunas de uma planilha BIFF8.
const colunasXLS = 256

func linhasXLS(conteudo []byte, planilha string) ([][]string, error) {
	pasta, err := xls.OpenReader(bytes.NewReader(conteudo), "utf-8")
	if err != nil {
		return nil, errors.Wrap(err, "arquivo xls inválido")
	}
	if pasta == nil {
		return nil, errors.New("arquivo xls inválido: o fluxo Workbook não foi encontrado")
	}

	for i := 0; i < pasta.NumSheets(); i++ {
		aba := pasta.GetSheet(i)
		if aba == nil || (planilha != "" && aba.Name != planilha) {
			continue
		}

		linhas := make([][]string, 0, int(aba.MaxRow)+1)
		for r := 0; r <= int(aba.MaxRow); r++ {
			linhas = append(linhas, celulasXLS(aba, r))
		}
		return linhas, nil
	}

	return nil, errors.Errorf("planilha %q não encontrada", planilha)
}

// celulasXLS lê uma linha da aba. Linhas sem células voltam nil e linhas sem o registro ROW,
// que não informam a última coluna, são lidas até a última célula preenchida.
func celulasXLS(aba *xls.WorkSheet, r int) (celulas []string) {
	linha := linhaXLS(aba, r)
	if linha == nil {
		return nil
	}

	largura := linha.LastCol()
	if largura <= 0 {
		largura = colunasXLS
	}
	celulas = make([]string, largura)
	ultima := 0
	for c := range celulas {
		celulas[c] = linha.Col(c)
		if celulas[c] != "" {
			ultima = c + 1
		}
	}
	if linha.LastCol() <= 0 {
		celulas = celulas[:ultima]
	}
	return celulas
}

// linhaXLS devolve nil para os índices sem linha: WorkSheet.Row não verifica se a linha existe.
func linhaXLS(aba *xls.WorkSheet, r int) (linha *xls.Row) {
	defer func() {
		if recover() != nil {
			linha = nil
		}
	}()
	return aba.Row(r)
}

func linhasXLSX(conteudo []byte, planilha string) ([][]string, error) {
	pasta, err := excelize.OpenReader(bytes.NewReader(conteudo))
	if err != nil {
		return nil, errors.Wrap(err, "arquivo xlsx inválido")
	}
	defer pasta.Close()

	if planilha == "" {
		abas := pasta.GetSheetList()
		if len(abas) == 0 {
			return nil, errors.New("o arquivo xlsx não tem planilhas")
		}
		planilha = abas[0]
	}

	linhas, err := pasta.GetRows(planilha)
	if err != nil {
		return nil, errors.Wrapf(err, "falha ao ler a planilha %q", planilha)
	}
	return linhas, nil
}

// recortar descarta as linhas antes do cabeçalho e as notas do rodapé.
func recortar(linhas [][]string, pularLinhas, pularRodape int) (*tabela.Tabela, error) {
	if pularLinhas < 0 || pularRodape < 0 {
		return nil, errors.New("quantidade de linhas a pular não pode ser negativa")
	}
	if pularLinhas >= len(linhas) {
		return nil, errors.Errorf("a planilha tem %d linhas, não é possível pular %d", len(linhas), pularLinhas)
	}

	cabecalho := linhas[pularLinhas]
	corpo := linhas[pularLinhas+1:]
	if pularRodape >= len(corpo) {
		corpo = nil
	} else {
		corpo = corpo[:len(corpo)-pularRodape]
	}

	return tabela.Nova(cabecalho, corpo), nil
}
