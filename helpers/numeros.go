package helpers

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	milharComSeparador = regexp.MustCompile(`^\d{1,3}([.,]\d{3})+$`)
	milharComEspaco    = regexp.MustCompile(`^\d{1,3}( \d{3})+$`)
	inteiroDecimal     = regexp.MustCompile(`^(\d+)\.0+$`)
)

// Nulo representa um valor numérico ausente. Operações aritméticas com ele resultam em ausente.
func Nulo() float64 {
	return math.NaN()
}

func EhNulo(v float64) bool {
	return math.IsNaN(v)
}

// ConverterNumero converte o texto de uma célula. Células vazias viram Nulo.
func ConverterNumero(texto string) (float64, error) {
	texto = strings.TrimSpace(texto)
	if texto == "" || strings.EqualFold(texto, "nan") {
		return Nulo(), nil
	}

	v, err := strconv.ParseFloat(texto, 64)
	if err != nil {
		return Nulo(), errors.Wrapf(err, "o valor %q não é numérico", texto)
	}
	return v, nil
}

// ConverterIdentificador aceita identificadores gravados como inteiro ("1100015") ou como
// float ("1100015.0"). O segundo retorno é falso quando a célula está vazia.
func ConverterIdentificador(texto string) (int64, bool, error) {
	v, err := ConverterNumero(texto)
	if err != nil {
		return 0, false, err
	}
	if EhNulo(v) {
		return 0, false, nil
	}
	if v != math.Trunc(v) {
		return 0, false, errors.Errorf("o identificador %q não é inteiro", texto)
	}
	return int64(v), true, nil
}

// LimparNotaDeRodape remove anotações entre parênteses, como em "1.234.567 (1)".
func LimparNotaDeRodape(texto string) string {
	return strings.TrimSpace(strings.SplitN(texto, "(", 2)[0])
}

// ConverterPopulacao converte a estimativa populacional do IBGE para inteiro, removendo notas de
// rodapé e separadores de milhar.
func ConverterPopulacao(texto string) (int64, error) {
	limpo := strings.ReplaceAll(LimparNotaDeRodape(texto), "\u00a0", " ")
	limpo = strings.TrimSpace(limpo)

	switch {
	case milharComSeparador.MatchString(limpo):
		limpo = strings.NewReplacer(".", "", ",", "").Replace(limpo)
	case milharComEspaco.MatchString(limpo):
		limpo = strings.ReplaceAll(limpo, " ", "")
	case inteiroDecimal.MatchString(limpo):
		limpo = inteiroDecimal.FindStringSubmatch(limpo)[1]
	}

	v, err := strconv.ParseInt(limpo, 10, 64)
	if err != nil {
		return 0, errors.Errorf("a população %q não é um inteiro", texto)
	}
	return v, nil
}
