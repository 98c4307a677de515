package main

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"covid-br/helpers"
	"covid-br/indicadores"
	"covid-br/metricas"
	"covid-br/modelos"
	"covid-br/modelos/configuracao"
	"covid-br/modelos/dados"
	"covid-br/pipeline"

	l "github.com/ahmetb/go-linq/v3"
	"github.com/alexflint/go-arg"
	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"
)

func main() {
	args := modelos.Parametros{Verbosidade: logger.InfoLevel}
	arg.MustParse(&args)
	logger.SetLevel(args.Verbosidade)
	logger.SetFormatter(&nested.Formatter{
		HideKeys:    true,
		FieldsOrder: []string{"component", "category"},
	})

	cfg, err := configuracao.Carregar(args.Config)
	sairSeErro(err)
	aplicarParametros(&cfg, args)

	ctx, cancelar := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancelar()

	m := metricas.NovoRegistro()
	res, errExecucao := pipeline.Executar(ctx, cfg, pipeline.ComMetricas(m))
	if errExecucao != nil {
		logger.Error(errExecucao)
	}

	exibirCobertura(res.Estados)

	if args.Resumo != "" && res.Nacional != nil {
		sairSeErro(gravarResumo(args.Resumo, res.Nacional))
		logger.Infof("Resumo dos indicadores gravado em %s", args.Resumo)
	}
	if args.Metricas != "" {
		sairSeErro(m.Gravar(args.Metricas))
	}

	if errExecucao != nil {
		cancelar()
		os.Exit(1)
	}
	logger.Infof("Execução finalizada em %s", res.Etapas[pipeline.EtapaTotal])
}

func sairSeErro(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}

// aplicarParametros dá precedência aos parâmetros da linha de comando sobre o arquivo e o ambiente.
func aplicarParametros(cfg *configuracao.Configuracao, args modelos.Parametros) {
	if args.Workers > 0 {
		cfg.Workers = args.Workers
	}
	if args.Timeout > 0 {
		cfg.Timeout = args.Timeout
	}
}

func exibirCobertura(estados []dados.EstadoRecente) {
	if len(estados) == 0 {
		return
	}

	var maiores []string
	l.From(estados).
		WhereT(func(e dados.EstadoRecente) bool { return !helpers.EhNulo(e.PercVacinados) }).
		OrderByDescendingT(func(e dados.EstadoRecente) float64 { return e.PercVacinados }).
		Take(3).
		SelectT(func(e dados.EstadoRecente) string { return e.Estado }).
		ToSlice(&maiores)

	logger.Infof("UFs com maior cobertura vacinal: %s", strings.Join(maiores, ", "))
}

func gravarResumo(caminho string, serie *dados.SerieNacional) error {
	arquivo, err := os.Create(caminho)
	if err != nil {
		return errors.Wrapf(err, "falha ao criar o arquivo de resumo %s", caminho)
	}
	defer arquivo.Close()

	return indicadores.NovoResumo(serie).Gravar(arquivo)
}
