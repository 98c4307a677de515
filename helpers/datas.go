package helpers

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

var formatosData = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
}

func ConverterData(texto string) (time.Time, error) {
	texto = strings.TrimSpace(texto)
	for _, formato := range formatosData {
		if t, err := time.Parse(formato, texto); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("o valor %q não é uma data reconhecida", texto)
}
