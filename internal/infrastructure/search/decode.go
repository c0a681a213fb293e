package search

import (
	"encoding/json"
	"io"

	"github.com/oksasatya/watchparty-api/internal/domain/entity"
)

func decodeHits(r io.Reader) ([]entity.PublicProfile, error) {
	var parsed struct {
		Hits struct {
			Hits []struct {
				Source userDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(r).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]entity.PublicProfile, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, entity.PublicProfile{
			Name:     h.Source.Name,
			Username: h.Source.Username,
			Email:    h.Source.Email,
			Avatar:   h.Source.Avatar,
		})
	}
	return out, nil
}
