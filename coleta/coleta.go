package coleta

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"covid-br/carga"
	"covid-br/erros"
	"covid-br/modelos/configuracao"

	"github.com/MisterKaiou/go-functional/result"
	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"
)

// Carregador carrega um único dataset. carga.Carregar é a implementação usada pelo pipeline.
type Carregador func(ctx context.Context, nome string, fonte configuracao.Fonte) (*carga.Conjunto, error)

type tarefa struct {
	nome  string
	fonte configuracao.Fonte
}

type resultadoTarefa struct {
	nome      string
	duracao   time.Duration
	resultado result.Of[*carga.Conjunto]
}

func Coletar(ctx context.Context, fontes map[string]configuracao.Fonte, workers int) *Registro {
	return ColetarCom(ctx, fontes, workers, carga.Carregar)
}

// ColetarCom dispara uma carga por fonte em um pool de workers e só retorna depois que todas
// terminarem. A falha de uma carga fica registrada apenas no nome dela.
func ColetarCom(ctx context.Context, fontes map[string]configuracao.Fonte, workers int, carregar Carregador) *Registro {
	inicio := time.Now()
	workers = dimensionarPool(workers, len(fontes))

	log := logger.WithField("component", "coleta")
	log.Infof("Iniciando a carga de %d datasets com %d workers", len(fontes), workers)

	wg := sync.WaitGroup{}
	wg.Add(workers)

	tarefasCh := make(chan tarefa)
	resultadosCh := make(chan resultadoTarefa, len(fontes))

	for i := 0; i < workers; i++ {
		go func(tCh <-chan tarefa, rCh chan<- resultadoTarefa) {
			for t := range tCh {
				inicioTarefa := time.Now()
				res := executar(ctx, t, carregar)
				rCh <- resultadoTarefa{nome: t.nome, duracao: time.Since(inicioTarefa), resultado: res}
			}
			wg.Done()
		}(tarefasCh, resultadosCh)
	}

	for _, nome := range nomesOrdenados(fontes) {
		tarefasCh <- tarefa{nome: nome, fonte: fontes[nome]}
	}
	close(tarefasCh)
	wg.Wait()
	close(resultadosCh)

	registro := novoRegistro()
	for r := range resultadosCh {
		registro.Duracoes[r.nome] = r.duracao

		if r.resultado.IsError() {
			registro.falhas[r.nome] = r.resultado.UnwrapError()
			log.WithField("category", r.nome).Errorf("%s gerou um erro: %v", r.nome, registro.falhas[r.nome])
			continue
		}

		conjunto := r.resultado.Unwrap()
		registro.conjuntos[r.nome] = conjunto
		log.WithField("category", r.nome).Infof("Dataset carregado: %s", conjunto)
	}
	registro.Duracao = time.Since(inicio)

	log.Infof("Carga de dados finalizada. Sucessos [%d] Falhas [%d] Tempo de execução: %s",
		registro.Sucessos(), len(registro.falhas), registro.Duracao)

	return registro
}

// executar converte o retorno da carga, inclusive um pânico, em um resultado da própria tarefa.
func executar(ctx context.Context, t tarefa, carregar Carregador) (res result.Of[*carga.Conjunto]) {
	defer func() {
		if p := recover(); p != nil {
			res = result.FromTupleOf[*carga.Conjunto](nil, erros.NovoErroCarga(t.nome, errors.Errorf("pânico durante a carga: %v", p)))
		}
	}()

	conjunto, err := carregar(ctx, t.nome, t.fonte)
	if err != nil {
		var erroCarga *erros.ErroCarga
		if !errors.As(err, &erroCarga) {
			err = erros.NovoErroCarga(t.nome, err)
		}
		return result.FromTupleOf[*carga.Conjunto](nil, err)
	}
	if conjunto == nil {
		return result.FromTupleOf[*carga.Conjunto](nil, erros.NovoErroCarga(t.nome, errors.New("a carga não retornou dados")))
	}

	return result.FromTupleOf(conjunto, nil)
}

func dimensionarPool(workers, tarefas int) int {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > tarefas {
		workers = tarefas
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

func nomesOrdenados(fontes map[string]configuracao.Fonte) []string {
	nomes := make([]string, 0, len(fontes))
	for nome := range fontes {
		nomes = append(nomes, nome)
	}
	sort.Strings(nomes)
	return nomes
}
