package metricas

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrarCarga(t *testing.T) {
	m := NovoRegistro()

	m.RegistrarCarga("df_br", 2*time.Second, 120, nil)
	m.RegistrarCarga("df_popmunic", time.Second, 0, errors.New("planilha corrompida"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Cargas.WithLabelValues("df_br", StatusSucesso)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Cargas.WithLabelValues("df_popmunic", StatusFalha)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DuracaoCarga.WithLabelValues("df_br")))
	assert.Equal(t, 120.0, testutil.ToFloat64(m.Linhas.WithLabelValues("df_br")))
}

func TestRegistrarTransformacao(t *testing.T) {
	m := NovoRegistro()

	m.RegistrarTransformacao("populacao_uf", 27, nil)
	m.RegistrarTransformacao("estados_recentes", 0, errors.New("dataset ausente"))

	assert.Equal(t, 27.0, testutil.ToFloat64(m.Linhas.WithLabelValues("populacao_uf")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transformacoes.WithLabelValues("estados_recentes", StatusFalha)))
}

func TestGravar(t *testing.T) {
	m := NovoRegistro()
	m.RegistrarEtapa("carga", 1500*time.Millisecond)
	m.RegistrarCarga("df_br", time.Second, 10, nil)

	arquivo := filepath.Join(t.TempDir(), "covidbr.prom")
	require.NoError(t, m.Gravar(arquivo))

	conteudo, err := os.ReadFile(arquivo)
	require.NoError(t, err)
	assert.Contains(t, string(conteudo), `covidbr_etapa_duracao_segundos{etapa="carga"} 1.5`)
	assert.Contains(t, string(conteudo), `covidbr_cargas_total{dataset="df_br",status="sucesso"} 1`)
	assert.Contains(t, string(conteudo), "covidbr_ultima_execucao_timestamp_segundos")
}

func TestGravarDiretorioInexistente(t *testing.T) {
	err := NovoRegistro().Gravar(filepath.Join(t.TempDir(), "nao", "existe", "covidbr.prom"))
	assert.Error(t, err)
}
