package jsonHelpers

import (
	"encoding/json"
	"io"
)

// DesserializarJsonDe decodifica diretamente do leitor, sem carregar o conteúdo inteiro em memória.
func DesserializarJsonDe[Para any](leitor io.Reader) (Para, error) {
	para := new(Para)
	err := json.NewDecoder(leitor).Decode(para)
	return *para, err
}
