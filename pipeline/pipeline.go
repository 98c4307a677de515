// Package pipeline coordena uma execução completa: carrega todos os datasets em paralelo e depois
// deriva as tabelas dos gráficos, respeitando a dependência entre população e cobertura vacinal.
package pipeline

import (
	"context"
	"sync"
	"time"

	"covid-br/carga"
	"covid-br/coleta"
	"covid-br/erros"
	"covid-br/metricas"
	"covid-br/modelos/configuracao"
	"covid-br/modelos/dados"
	"covid-br/modelos/geo"
	"covid-br/tabela"
	"covid-br/transformacao"

	"github.com/MisterKaiou/go-functional/result"
	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"
)

// Etapas da execução, usadas em Resultado.Etapas e nas métricas.
const (
	EtapaCarga         = "carga"
	EtapaTransformacao = "transformacao"
	EtapaTotal         = "total"
)

// NomeGeo identifica o repasse da malha geográfica em Resultado.Falhas.
const NomeGeo = "geo"

type Resultado struct {
	Nacional  *dados.SerieNacional
	Cidades   []dados.CidadeRecente
	Populacao []dados.PopulacaoUF
	Estados   []dados.EstadoRecente
	Geo       *geo.Colecao

	Registro *coleta.Registro
	Falhas   map[string]error
	Etapas   map[string]time.Duration
}

// Erro retorna nil quando todas as tabelas foram geradas.
func (r *Resultado) Erro() error {
	if len(r.Falhas) == 0 {
		return nil
	}
	return &erros.ErroExecucao{Falhas: r.Falhas}
}

type opcoes struct {
	carregador coleta.Carregador
	metricas   *metricas.Registro
}

type Opcao func(*opcoes)

// ComCarregador substitui carga.Carregar, por exemplo para ler datasets já em memória.
func ComCarregador(c coleta.Carregador) Opcao {
	return func(o *opcoes) {
		o.carregador = c
	}
}

func ComMetricas(m *metricas.Registro) Opcao {
	return func(o *opcoes) {
		o.metricas = m
	}
}

// Executar roda as duas etapas e retorna todas as tabelas que puderam ser geradas. O erro é não
// nulo quando alguma transformação falhou ou a malha geográfica não foi carregada; nesse caso o
// Resultado ainda traz as tabelas que não dependiam da falha.
func Executar(ctx context.Context, cfg configuracao.Configuracao, opts ...Opcao) (*Resultado, error) {
	o := opcoes{carregador: carga.Carregar}
	for _, opt := range opts {
		opt(&o)
	}
	if o.metricas == nil {
		o.metricas = metricas.NovoRegistro()
	}

	log := logger.WithField("component", "pipeline")
	inicio := time.Now()
	res := &Resultado{Falhas: map[string]error{}, Etapas: map[string]time.Duration{}}

	ctxCarga := ctx
	if cfg.Timeout > 0 {
		var cancelar context.CancelFunc
		ctxCarga, cancelar = context.WithTimeout(ctx, cfg.Timeout)
		defer cancelar()
	}

	res.Registro = coleta.ColetarCom(ctxCarga, cfg.Fontes, cfg.Workers, o.carregador)
	registrarCargas(o.metricas, res.Registro)
	finalizarEtapa(res, o.metricas, EtapaCarga, res.Registro.Duracao)

	inicioTransformacao := time.Now()
	transformar(res, cfg.ColunasNacional, o.metricas)
	res.Geo = repassarGeo(res)
	finalizarEtapa(res, o.metricas, EtapaTransformacao, time.Since(inicioTransformacao))

	finalizarEtapa(res, o.metricas, EtapaTotal, time.Since(inicio))

	for nome, err := range res.Falhas {
		log.WithField("category", nome).Errorf("%s não foi gerada: %v", nome, err)
	}

	return res, res.Erro()
}

// transformar executa as quatro transformações. Nacional, cidades e população rodam em paralelo;
// a cobertura vacinal espera o resultado da população pelo canal. O df_br é decodificado uma vez e
// compartilhado pela série nacional e pela cobertura vacinal, que só o leem.
func transformar(res *Resultado, colunas []string, m *metricas.Registro) {
	brasil := result.Bind(obterTabela(res.Registro, configuracao.DatasetBrasil, ""), decodificar(dados.DecodificarEstados))

	var (
		nacional  result.Of[*dados.SerieNacional]
		cidades   result.Of[[]dados.CidadeRecente]
		populacao result.Of[[]dados.PopulacaoUF]
		estados   result.Of[[]dados.EstadoRecente]
	)

	populacaoCh := make(chan result.Of[[]dados.PopulacaoUF], 1)

	wg := sync.WaitGroup{}
	wg.Add(4)
	go func() {
		defer wg.Done()
		nacional = serieNacional(rotular(brasil, transformacao.NomeSerieNacional), colunas)
	}()
	go func() {
		defer wg.Done()
		cidades = cidadesRecentes(res.Registro)
	}()
	go func() {
		defer wg.Done()
		populacao = populacaoPorUF(res.Registro)
		populacaoCh <- populacao
	}()
	go func() {
		defer wg.Done()
		estados = estadosRecentes(rotular(brasil, transformacao.NomeEstadosRecente), populacaoCh)
	}()
	wg.Wait()

	if registrar(res, m, transformacao.NomeSerieNacional, nacional, func(s *dados.SerieNacional) int { return s.Tamanho() }) {
		res.Nacional = nacional.Unwrap()
	}
	if registrar(res, m, transformacao.NomeCidades, cidades, tamanho[dados.CidadeRecente]) {
		res.Cidades = cidades.Unwrap()
	}
	if registrar(res, m, transformacao.NomePopulacaoUF, populacao, tamanho[dados.PopulacaoUF]) {
		res.Populacao = populacao.Unwrap()
	}
	if registrar(res, m, transformacao.NomeEstadosRecente, estados, tamanho[dados.EstadoRecente]) {
		res.Estados = estados.Unwrap()
	}
}

func serieNacional(estados result.Of[[]dados.RegistroEstado], colunas []string) result.Of[*dados.SerieNacional] {
	return result.Bind(estados, func(e []dados.RegistroEstado) result.Of[*dados.SerieNacional] {
		return result.FromTupleOf(transformacao.SerieNacional(e, colunas))
	})
}

func cidadesRecentes(registro *coleta.Registro) result.Of[[]dados.CidadeRecente] {
	cidades := result.Bind(
		obterTabela(registro, configuracao.DatasetCidades, transformacao.NomeCidades),
		decodificar(dados.DecodificarMunicipios))
	coordenadas := result.Bind(
		obterTabela(registro, configuracao.DatasetCoordenadas, transformacao.NomeCidades),
		decodificar(dados.DecodificarCoordenadas))

	return result.Bind(cidades, func(c []dados.RegistroMunicipio) result.Of[[]dados.CidadeRecente] {
		return result.Map(coordenadas, func(coords []dados.CoordenadaMunicipio) []dados.CidadeRecente {
			return transformacao.CidadesRecentes(c, coords)
		})
	})
}

func populacaoPorUF(registro *coleta.Registro) result.Of[[]dados.PopulacaoUF] {
	municipios := result.Bind(
		obterTabela(registro, configuracao.DatasetPopulacao, transformacao.NomePopulacaoUF),
		decodificar(dados.DecodificarPopulacao))

	return result.Bind(municipios, func(m []dados.PopulacaoMunicipio) result.Of[[]dados.PopulacaoUF] {
		return result.FromTupleOf(transformacao.PopulacaoPorUF(m))
	})
}

func estadosRecentes(estados result.Of[[]dados.RegistroEstado], populacaoCh <-chan result.Of[[]dados.PopulacaoUF]) result.Of[[]dados.EstadoRecente] {
	populacao := <-populacaoCh
	if populacao.IsError() {
		populacao = result.FromTupleOf[[]dados.PopulacaoUF](nil,
			errors.Wrap(populacao.UnwrapError(), "a população por UF não está disponível"))
	}

	return result.Bind(estados, func(e []dados.RegistroEstado) result.Of[[]dados.EstadoRecente] {
		return result.Map(populacao, func(p []dados.PopulacaoUF) []dados.EstadoRecente {
			return transformacao.EstadosRecentes(e, p)
		})
	})
}

func repassarGeo(res *Resultado) *geo.Colecao {
	conjunto, err := res.Registro.Obter(configuracao.DatasetGeoBrasil, NomeGeo)
	if err == nil && conjunto.Geo == nil {
		err = errors.Errorf("o dataset [%s] não contém uma malha geográfica", configuracao.DatasetGeoBrasil)
	}
	if err != nil {
		res.Falhas[NomeGeo] = err
		return nil
	}
	return conjunto.Geo
}

func obterTabela(registro *coleta.Registro, dataset, nomeTransformacao string) result.Of[*tabela.Tabela] {
	conjunto, err := registro.Obter(dataset, nomeTransformacao)
	if err != nil {
		return result.FromTupleOf[*tabela.Tabela](nil, err)
	}
	if conjunto.Tabela == nil {
		return result.FromTupleOf[*tabela.Tabela](nil, errors.Errorf("o dataset [%s] não é tabular", dataset))
	}
	return result.FromTupleOf(conjunto.Tabela, nil)
}

// rotular atribui à transformação a ausência de um dataset obtido antes dela.
func rotular[T any](r result.Of[T], nomeTransformacao string) result.Of[T] {
	return result.MapError(r, func(err error) error {
		var ausente *erros.ErroDatasetAusente
		if !errors.As(err, &ausente) {
			return err
		}
		return erros.NovoErroDatasetAusente(ausente.Dataset, nomeTransformacao, ausente.Causa)
	})
}

func decodificar[T any](f func(*tabela.Tabela) ([]T, error)) func(*tabela.Tabela) result.Of[[]T] {
	return func(t *tabela.Tabela) result.Of[[]T] {
		return result.FromTupleOf(f(t))
	}
}

func tamanho[T any](s []T) int {
	return len(s)
}

// registrar anota o resultado da transformação e indica se ele pode ser usado.
func registrar[T any](res *Resultado, m *metricas.Registro, nome string, r result.Of[T], linhas func(T) int) bool {
	if r.IsError() {
		res.Falhas[nome] = r.UnwrapError()
		m.RegistrarTransformacao(nome, 0, res.Falhas[nome])
		return false
	}
	m.RegistrarTransformacao(nome, linhas(r.Unwrap()), nil)
	return true
}

func registrarCargas(m *metricas.Registro, registro *coleta.Registro) {
	falhas := registro.Falhas()
	for nome, duracao := range registro.Duracoes {
		if err, falhou := falhas[nome]; falhou {
			m.RegistrarCarga(nome, duracao, 0, err)
			continue
		}
		conjunto, _ := registro.Obter(nome, EtapaCarga)
		m.RegistrarCarga(nome, duracao, conjunto.Tamanho(), nil)
	}
}

func finalizarEtapa(res *Resultado, m *metricas.Registro, etapa string, duracao time.Duration) {
	res.Etapas[etapa] = duracao
	m.RegistrarEtapa(etapa, duracao)
	logger.WithFields(logger.Fields{"component": "pipeline", "category": etapa}).
		Infof("Etapa %s finalizada em %s", etapa, duracao)
}
