package discovery

import (
	"encoding/base64"
	"encoding/json"
	"errors"

	"event-discovery/internal/domain"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type pageCursor struct {
	Offset int `json:"o"`
}

func encodePageToken(offset int) string {
	b, _ := json.Marshal(pageCursor{Offset: offset})
	return base64.RawURLEncoding.EncodeToString(b)
}

func decodePageToken(token string) (int, error) {
	if token == "" {
		return 0, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, errors.New("invalid page token")
	}
	var c pageCursor
	if err := json.Unmarshal(b, &c); err != nil || c.Offset < 0 {
		return 0, errors.New("invalid page token")
	}
	return c.Offset, nil
}

// Paginate slices an already ordered result. The returned token is empty on
// the last page.
func Paginate(events []domain.Event, pageSize int, pageToken string) ([]domain.Event, string, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	offset, err := decodePageToken(pageToken)
	if err != nil {
		return nil, "", domain.ErrValidation(err.Error())
	}
	if offset >= len(events) {
		return []domain.Event{}, "", nil
	}
	end := offset + pageSize
	if end >= len(events) {
		return events[offset:], "", nil
	}
	return events[offset:end], encodePageToken(end), nil
}
