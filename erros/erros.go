package erros

import (
	"fmt"
	"sort"
	"strings"
)

// ErroCarga indica que um conjunto de dados não pôde ser carregado.
type ErroCarga struct {
	Dataset string
	Err     error
}

func (e *ErroCarga) Error() string {
	return fmt.Sprintf("falha ao carregar o dataset [%s]: %v", e.Dataset, e.Err)
}

func (e *ErroCarga) Unwrap() error {
	return e.Err
}

func NovoErroCarga(dataset string, err error) *ErroCarga {
	return &ErroCarga{Dataset: dataset, Err: err}
}

// ErroDatasetAusente indica que uma transformação precisava de um dataset que não está no registro.
type ErroDatasetAusente struct {
	Dataset       string
	Transformacao string
	Causa         error
}

func (e *ErroDatasetAusente) Error() string {
	if e.Causa != nil {
		return fmt.Sprintf("transformação [%s]: dataset [%s] ausente: %v", e.Transformacao, e.Dataset, e.Causa)
	}
	return fmt.Sprintf("transformação [%s]: dataset [%s] ausente", e.Transformacao, e.Dataset)
}

func (e *ErroDatasetAusente) Unwrap() error {
	return e.Causa
}

func NovoErroDatasetAusente(dataset, transformacao string, causa error) *ErroDatasetAusente {
	return &ErroDatasetAusente{Dataset: dataset, Transformacao: transformacao, Causa: causa}
}

// ErroFormatoDados indica que um campo não pôde ser convertido para o tipo esperado.
// Linha é 1-based e zero quando o erro não se refere a uma linha específica.
type ErroFormatoDados struct {
	Campo string
	Linha int
	Valor string
	Err   error
}

func (e *ErroFormatoDados) Error() string {
	msg := fmt.Sprintf("campo [%s]", e.Campo)
	if e.Linha > 0 {
		msg += fmt.Sprintf(" na linha %d", e.Linha)
	}
	if e.Valor != "" {
		msg += fmt.Sprintf(" com valor %q", e.Valor)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg + ": formato inválido"
}

func (e *ErroFormatoDados) Unwrap() error {
	return e.Err
}

func NovoErroFormatoDados(campo string, linha int, valor string, err error) *ErroFormatoDados {
	return &ErroFormatoDados{Campo: campo, Linha: linha, Valor: valor, Err: err}
}

// ErroExecucao reúne as transformações que falharam em uma execução do pipeline, pelo nome.
type ErroExecucao struct {
	Falhas map[string]error
}

func (e *ErroExecucao) Error() string {
	nomes := make([]string, 0, len(e.Falhas))
	for nome := range e.Falhas {
		nomes = append(nomes, nome)
	}
	sort.Strings(nomes)

	mensagens := make([]string, len(nomes))
	for i, nome := range nomes {
		mensagens[i] = fmt.Sprintf("[%s] %v", nome, e.Falhas[nome])
	}
	return fmt.Sprintf("%d transformações falharam: %s", len(nomes), strings.Join(mensagens, "; "))
}

func (e *ErroExecucao) Unwrap() []error {
	errs := make([]error, 0, len(e.Falhas))
	for _, err := range e.Falhas {
		errs = append(errs, err)
	}
	return errs
}
