package erros

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErroCargaNomeiaDataset(t *testing.T) {
	causa := errors.New("conexão recusada")
	err := errors.Wrap(NovoErroCarga("df_br", causa), "coleta")

	var alvo *ErroCarga
	assert.True(t, errors.As(err, &alvo))
	assert.Equal(t, "df_br", alvo.Dataset)
	assert.True(t, errors.Is(err, causa))
	assert.Contains(t, err.Error(), "[df_br]")
}

func TestErroDatasetAusente(t *testing.T) {
	err := NovoErroDatasetAusente("df_popmunic", "populacao_uf", nil)
	assert.Equal(t, "transformação [populacao_uf]: dataset [df_popmunic] ausente", err.Error())

	causa := NovoErroCarga("df_popmunic", errors.New("arquivo não encontrado"))
	err = NovoErroDatasetAusente("df_popmunic", "populacao_uf", causa)

	var carga *ErroCarga
	assert.True(t, errors.As(err, &carga))
}

func TestErroFormatoDados(t *testing.T) {
	err := NovoErroFormatoDados("date", 3, "31/31/2021", nil)
	assert.Equal(t, `campo [date] na linha 3 com valor "31/31/2021": formato inválido`, err.Error())

	err = NovoErroFormatoDados("ibgeID", 0, "", errors.New("coluna ausente"))
	assert.Equal(t, "campo [ibgeID]: coluna ausente", err.Error())
}

func TestErroExecucao(t *testing.T) {
	ausente := NovoErroDatasetAusente("df_popmunic", "populacao_uf", nil)
	err := &ErroExecucao{Falhas: map[string]error{
		"populacao_uf":     ausente,
		"estados_recentes": errors.Wrap(ausente, "população indisponível"),
	}}

	assert.Equal(t,
		"2 transformações falharam: [estados_recentes] população indisponível: transformação [populacao_uf]: dataset [df_popmunic] ausente; "+
			"[populacao_uf] transformação [populacao_uf]: dataset [df_popmunic] ausente",
		err.Error())

	var alvo *ErroDatasetAusente
	assert.True(t, errors.As(err, &alvo))
	assert.Equal(t, "df_popmunic", alvo.Dataset)
}
