package geo

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// TipoColecao é o único tipo de documento GeoJSON aceito como malha das UFs.
const TipoColecao = "FeatureCollection"

// Colecao é o GeoJSON das fronteiras das UFs. O documento lido é guardado inteiro e repassado sem
// alterações ao gerador de mapas; os campos tipados são só uma visão de leitura dele.
type Colecao struct {
	Type     string   `json:"type"`
	Name     string   `json:"name,omitempty"`
	Features []Feicao `json:"features"`

	documento json.RawMessage
}

type Feicao struct {
	Type       string                 `json:"type"`
	ID         interface{}            `json:"id,omitempty"`
	Properties map[string]interface{} `json:"properties"`
	Geometry   json.RawMessage        `json:"geometry"`
}

// UnmarshalJSON rejeita documentos que não sejam FeatureCollection, como TopoJSON.
func (c *Colecao) UnmarshalJSON(dados []byte) error {
	type visao Colecao
	var v visao
	if err := json.Unmarshal(dados, &v); err != nil {
		return err
	}
	if v.Type != TipoColecao {
		return errors.Errorf("documento GeoJSON do tipo %q, esperado %q", v.Type, TipoColecao)
	}

	*c = Colecao(v)
	c.documento = append(json.RawMessage(nil), dados...)
	return nil
}

// MarshalJSON devolve o documento original quando a coleção foi lida de um JSON, preservando crs,
// bbox e os demais membros que a visão tipada não conhece.
func (c Colecao) MarshalJSON() ([]byte, error) {
	if len(c.documento) > 0 {
		return c.documento, nil
	}
	type visao Colecao
	return json.Marshal(visao(c))
}

// Documento é o JSON lido, ou nil para coleções montadas em memória.
func (c *Colecao) Documento() json.RawMessage {
	return c.documento
}

func (c *Colecao) Tamanho() int {
	return len(c.Features)
}

// Propriedade retorna a propriedade textual da feição, como a sigla da UF.
func (f Feicao) Propriedade(chave string) (string, bool) {
	v, ok := f.Properties[chave].(string)
	return v, ok
}
