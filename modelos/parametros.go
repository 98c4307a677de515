package modelos

import (
	"time"

	"github.com/sirupsen/logrus"
)

type Parametros struct {
	Config      string        `arg:"-c, --config" placeholder:"ARQUIVO" help:"Arquivo YAML com as fontes de dados. Sem ele são usadas as fontes padrão, que ainda podem ser sobrepostas por variáveis COVIDBR_*"`
	Workers     int           `arg:"-w, --workers" placeholder:"N" help:"Quantidade de datasets carregados simultaneamente. Padrão: número de CPUs"`
	Timeout     time.Duration `arg:"-t, --timeout" placeholder:"DURAÇÃO" help:"Tempo máximo para a carga de todos os datasets, ex: 5m. Zero para aguardar indefinidamente"`
	Verbosidade logrus.Level  `arg:"-v, --verbosidade" placeholder:"NÍVEL" help:"Quantos logs devem ser exibidos. Em ordem de criticidade (0 à 6): panic > fatal > error > warn > info > debug > trace"`
	Metricas    string        `arg:"-m, --metricas" placeholder:"ARQUIVO" help:"Se informado, grava as métricas da execução nesse arquivo no formato texto do Prometheus"`
	Resumo      string        `arg:"-r, --resumo" placeholder:"ARQUIVO" help:"Se informado, grava os indicadores e a data da última atualização nesse arquivo JSON"`
}
