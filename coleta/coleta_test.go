package coleta

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"covid-br/carga"
	"covid-br/erros"
	"covid-br/modelos/configuracao"
	"covid-br/tabela"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fontes(nomes ...string) map[string]configuracao.Fonte {
	f := make(map[string]configuracao.Fonte, len(nomes))
	for _, nome := range nomes {
		f[nome] = configuracao.Fonte{Local: nome + ".csv"}
	}
	return f
}

func conjunto(nome string, linhas int) *carga.Conjunto {
	return &carga.Conjunto{Nome: nome, Tabela: tabela.Nova([]string{"a"}, make([][]string, linhas))}
}

func TestColetarIsolaFalhas(t *testing.T) {
	carregar := func(ctx context.Context, nome string, fonte configuracao.Fonte) (*carga.Conjunto, error) {
		switch nome {
		case "df_popmunic":
			return nil, errors.New("planilha corrompida")
		case "gj_br":
			panic("leitor quebrado")
		}
		return conjunto(nome, 3), nil
	}

	registro := ColetarCom(context.Background(), fontes("df_br", "df_cities", "df_popmunic", "df_gpscities", "gj_br"), 2, carregar)

	assert.Equal(t, 3, registro.Sucessos())
	assert.Equal(t, []string{"df_br", "df_cities", "df_gpscities"}, registro.Nomes())

	falhas := registro.Falhas()
	require.Len(t, falhas, 2)
	for _, nome := range []string{"df_popmunic", "gj_br"} {
		var erroCarga *erros.ErroCarga
		require.True(t, errors.As(falhas[nome], &erroCarga), nome)
		assert.Equal(t, nome, erroCarga.Dataset)
	}
	assert.Contains(t, falhas["gj_br"].Error(), "leitor quebrado")
	assert.Len(t, registro.Duracoes, 5)
}

func TestColetarAguardaTodasAsCargas(t *testing.T) {
	carregar := func(ctx context.Context, nome string, fonte configuracao.Fonte) (*carga.Conjunto, error) {
		if nome == "lento" {
			time.Sleep(50 * time.Millisecond)
		}
		if nome == "falha" {
			return nil, errors.New("falhou rápido")
		}
		return conjunto(nome, 1), nil
	}

	registro := ColetarCom(context.Background(), fontes("lento", "rapido", "falha"), 3, carregar)

	assert.True(t, registro.Possui("lento"))
	assert.True(t, registro.Possui("rapido"))
	assert.False(t, registro.Possui("falha"))
	assert.GreaterOrEqual(t, registro.Duracao, 50*time.Millisecond)
}

func TestColetarRespeitaTamanhoDoPool(t *testing.T) {
	var ativos, maximo int32
	carregar := func(ctx context.Context, nome string, fonte configuracao.Fonte) (*carga.Conjunto, error) {
		n := atomic.AddInt32(&ativos, 1)
		for {
			m := atomic.LoadInt32(&maximo)
			if n <= m || atomic.CompareAndSwapInt32(&maximo, m, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&ativos, -1)
		return conjunto(nome, 1), nil
	}

	nomes := make([]string, 10)
	for i := range nomes {
		nomes[i] = fmt.Sprintf("ds%02d", i)
	}

	registro := ColetarCom(context.Background(), fontes(nomes...), 2, carregar)

	assert.Equal(t, 10, registro.Sucessos())
	assert.LessOrEqual(t, atomic.LoadInt32(&maximo), int32(2))
}

func TestColetarEmbrulhaErroSemNomeDoDataset(t *testing.T) {
	carregar := func(ctx context.Context, nome string, fonte configuracao.Fonte) (*carga.Conjunto, error) {
		return nil, nil
	}

	registro := ColetarCom(context.Background(), fontes("vazio"), 1, carregar)

	var erroCarga *erros.ErroCarga
	require.True(t, errors.As(registro.Falhas()["vazio"], &erroCarga))
	assert.Equal(t, "vazio", erroCarga.Dataset)
}

func TestObterDatasetAusente(t *testing.T) {
	carregar := func(ctx context.Context, nome string, fonte configuracao.Fonte) (*carga.Conjunto, error) {
		return nil, errors.New("timeout")
	}
	registro := ColetarCom(context.Background(), fontes("df_br"), 1, carregar)

	_, err := registro.Obter("df_br", "serie_nacional")

	var ausente *erros.ErroDatasetAusente
	require.True(t, errors.As(err, &ausente))
	assert.Equal(t, "df_br", ausente.Dataset)
	assert.Equal(t, "serie_nacional", ausente.Transformacao)
	assert.Contains(t, err.Error(), "timeout")

	_, err = registro.Obter("gj_br", "geo")
	require.True(t, errors.As(err, &ausente))
	assert.Nil(t, ausente.Causa)
}

func TestDimensionarPool(t *testing.T) {
	assert.Equal(t, 5, dimensionarPool(10, 5))
	assert.Equal(t, 2, dimensionarPool(2, 5))
	assert.Equal(t, 1, dimensionarPool(3, 0))
	assert.LessOrEqual(t, dimensionarPool(0, 5), 5)
	assert.GreaterOrEqual(t, dimensionarPool(0, 5), 1)
}
