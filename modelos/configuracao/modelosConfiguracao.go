package configuracao

import "time"

// Nomes dos datasets no registro.
const (
	DatasetBrasil      = "df_br"
	DatasetCidades     = "df_cities"
	DatasetPopulacao   = "df_popmunic"
	DatasetCoordenadas = "df_gpscities"
	DatasetGeoBrasil   = "gj_br"
)

// Tipos de arquivo aceitos pela carga. Qualquer outro valor é lido como texto delimitado genérico.
const (
	TipoCSV  = "csv"
	TipoXLS  = "xls"
	TipoXLSX = "xlsx"
	TipoJSON = "json"
)

const (
	CompressaoGzip     = "gzip"
	CompressaoInferida = "infer"
)

type Opcoes struct {
	Planilha     string `mapstructure:"planilha"`
	PularLinhas  int    `mapstructure:"pular_linhas"`
	PularRodape  int    `mapstructure:"pular_rodape"`
	TamanhoBloco int    `mapstructure:"tamanho_bloco"`
	Compressao   string `mapstructure:"compressao"`
	Separador    string `mapstructure:"separador"`
}

// Fonte descreve como carregar um dataset: de onde (URL ou caminho), em que formato e quais
// colunas devem ser convertidas para data.
type Fonte struct {
	Local  string   `mapstructure:"local"`
	Tipo   string   `mapstructure:"tipo"`
	Datas  []string `mapstructure:"datas"`
	Opcoes Opcoes   `mapstructure:"opcoes"`
}

type Configuracao struct {
	Fontes          map[string]Fonte `mapstructure:"fontes"`
	ColunasNacional []string         `mapstructure:"colunas_nacional"`
	Workers         int              `mapstructure:"workers"`
	Timeout         time.Duration    `mapstructure:"timeout"`
}
