package entries

import (
	"strings"

	"github.com/dmitrijs2005/entrystore/internal/server/models"
	"github.com/goccy/go-json"
)

// Encode renders one entry as a JSON object.
func Encode(e *models.Entry) (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// EncodeAll renders entries back to back with no separator.
func EncodeAll(list []*models.Entry) (string, error) {
	var sb strings.Builder
	for _, e := range list {
		b, err := json.Marshal(e)
		if err != nil {
			return "", err
		}
		sb.Write(b)
	}
	return sb.String(), nil
}
