package configuracao

import (
	"strings"

	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const prefixoEnv = "covidbr"

// Padrao retorna as fontes usadas na geração dos gráficos publicados.
func Padrao() Configuracao {
	return Configuracao{
		Fontes: map[string]Fonte{
			DatasetBrasil: {
				Local: "https://raw.githubusercontent.com/wcota/covid19br/master/cases-brazil-states.csv",
				Tipo:  TipoCSV,
				Datas: []string{"date"},
			},
			DatasetCidades: {
				Local:  "https://github.com/wcota/covid19br/blob/master/cases-brazil-cities-time.csv.gz?raw=true",
				Tipo:   TipoCSV,
				Datas:  []string{"date"},
				Opcoes: Opcoes{Compressao: CompressaoGzip, TamanhoBloco: 50000},
			},
			DatasetPopulacao: {
				Local:  "datasets/originais/populacao_2020.xls",
				Tipo:   TipoXLS,
				Opcoes: Opcoes{Planilha: "Municípios", PularLinhas: 1, PularRodape: 16},
			},
			DatasetCoordenadas: {
				Local: "https://raw.githubusercontent.com/wcota/covid19br/master/gps_cities.csv",
				Tipo:  TipoCSV,
			},
			DatasetGeoBrasil: {
				Local: "geojson/brasil-uf-compressed.json",
				Tipo:  TipoJSON,
			},
		},
		ColunasNacional: []string{
			"date", "state", "newDeaths", "deaths", "deathsMS", "newCases", "totalCases",
			"totalCasesMS", "recovered", "tests", "vaccinated", "vaccinated_second",
		},
	}
}

// Carregar lê a configuração do arquivo YAML (opcional), sobrepõe variáveis de ambiente com prefixo
// COVIDBR_ e completa o restante com Padrao().
func Carregar(arquivo string) (Configuracao, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	definirPadroes(v, Padrao())

	if arquivo != "" {
		v.SetConfigFile(arquivo)
		if err := v.ReadInConfig(); err != nil {
			return Configuracao{}, errors.Wrapf(err, "falha ao ler o arquivo de configuração %s", arquivo)
		}
		logger.WithField("component", "configuracao").Infof("Configuração lida de %s", v.ConfigFileUsed())
	}

	v.SetEnvPrefix(prefixoEnv)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Configuracao
	if err := v.Unmarshal(&cfg); err != nil {
		return Configuracao{}, errors.Wrap(err, "configuração inválida")
	}

	return cfg, cfg.Validar()
}

func (c Configuracao) Validar() error {
	if len(c.Fontes) == 0 {
		return errors.New("nenhuma fonte de dados configurada")
	}
	for nome, fonte := range c.Fontes {
		if strings.TrimSpace(fonte.Local) == "" {
			return errors.Errorf("a fonte [%s] não tem local definido", nome)
		}
	}
	if c.Workers < 0 {
		return errors.Errorf("quantidade de workers inválida: %d", c.Workers)
	}
	return nil
}

func definirPadroes(v *viper.Viper, cfg Configuracao) {
	for nome, f := range cfg.Fontes {
		chave := "fontes." + nome + "."
		v.SetDefault(chave+"local", f.Local)
		v.SetDefault(chave+"tipo", f.Tipo)
		v.SetDefault(chave+"datas", f.Datas)
		v.SetDefault(chave+"opcoes.planilha", f.Opcoes.Planilha)
		v.SetDefault(chave+"opcoes.pular_linhas", f.Opcoes.PularLinhas)
		v.SetDefault(chave+"opcoes.pular_rodape", f.Opcoes.PularRodape)
		v.SetDefault(chave+"opcoes.tamanho_bloco", f.Opcoes.TamanhoBloco)
		v.SetDefault(chave+"opcoes.compressao", f.Opcoes.Compressao)
		v.SetDefault(chave+"opcoes.separador", f.Opcoes.Separador)
	}
	v.SetDefault("colunas_nacional", cfg.ColunasNacional)
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("timeout", cfg.Timeout)
}
