// Package metricas mantém os contadores de uma execução do pipeline e os grava no formato texto
// do Prometheus, para coleta pelo textfile collector do node_exporter.
package metricas

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	StatusSucesso = "sucesso"
	StatusFalha   = "falha"
)

type Registro struct {
	reg *prometheus.Registry

	Cargas         *prometheus.CounterVec
	DuracaoCarga   *prometheus.GaugeVec
	Linhas         *prometheus.GaugeVec
	DuracaoEtapa   *prometheus.GaugeVec
	Transformacoes *prometheus.CounterVec
	UltimaExecucao prometheus.Gauge
}

func NovoRegistro() *Registro {
	r := prometheus.NewRegistry()

	cargas := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "covidbr_cargas_total",
		Help: "Cargas de dataset por resultado.",
	}, []string{"dataset", "status"})
	duracaoCarga := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "covidbr_carga_duracao_segundos",
		Help: "Tempo gasto na carga de cada dataset.",
	}, []string{"dataset"})
	linhas := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "covidbr_linhas",
		Help: "Linhas carregadas ou derivadas por tabela.",
	}, []string{"tabela"})
	duracaoEtapa := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "covidbr_etapa_duracao_segundos",
		Help: "Tempo gasto em cada etapa do pipeline.",
	}, []string{"etapa"})
	transformacoes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "covidbr_transformacoes_total",
		Help: "Transformações executadas por resultado.",
	}, []string{"transformacao", "status"})
	ultima := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "covidbr_ultima_execucao_timestamp_segundos",
		Help: "Momento em que a execução terminou.",
	})

	r.MustRegister(cargas, duracaoCarga, linhas, duracaoEtapa, transformacoes, ultima)
	return &Registro{
		reg:            r,
		Cargas:         cargas,
		DuracaoCarga:   duracaoCarga,
		Linhas:         linhas,
		DuracaoEtapa:   duracaoEtapa,
		Transformacoes: transformacoes,
		UltimaExecucao: ultima,
	}
}

// RegistrarCarga contabiliza a carga de um dataset. linhas só é registrado em caso de sucesso.
func (r *Registro) RegistrarCarga(dataset string, duracao time.Duration, linhas int, err error) {
	r.DuracaoCarga.WithLabelValues(dataset).Set(duracao.Seconds())
	if err != nil {
		r.Cargas.WithLabelValues(dataset, StatusFalha).Inc()
		return
	}
	r.Cargas.WithLabelValues(dataset, StatusSucesso).Inc()
	r.Linhas.WithLabelValues(dataset).Set(float64(linhas))
}

func (r *Registro) RegistrarTransformacao(nome string, linhas int, err error) {
	if err != nil {
		r.Transformacoes.WithLabelValues(nome, StatusFalha).Inc()
		return
	}
	r.Transformacoes.WithLabelValues(nome, StatusSucesso).Inc()
	r.Linhas.WithLabelValues(nome).Set(float64(linhas))
}

func (r *Registro) RegistrarEtapa(etapa string, duracao time.Duration) {
	r.DuracaoEtapa.WithLabelValues(etapa).Set(duracao.Seconds())
}

// Gravar escreve todas as métricas no arquivo, substituindo-o de forma atômica.
func (r *Registro) Gravar(arquivo string) error {
	r.UltimaExecucao.SetToCurrentTime()
	if err := prometheus.WriteToTextfile(arquivo, r.reg); err != nil {
		return errors.Wrapf(err, "falha ao gravar as métricas em %s", arquivo)
	}
	return nil
}
