package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNoData はイベントにデータが含まれていないことを表す。
var ErrNoData = errors.New("イベントにデータがありません")

// New はイベントを生成する。dataはJSONに変換してDataに格納する。
// aggregateIDとeventTypeは必須。
func New(aggregateID string, aggregateType AggregateType, eventType Type, actor string, data any) (*Event, error) {
	if aggregateID == "" || eventType == "" {
		return nil, fmt.Errorf("集約IDとイベント種別は必須です: aggregate_id=%q event_type=%q", aggregateID, eventType)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s のデータを変換できません: %w", eventType, err)
	}

	e := &Event{
		ID:            uuid.NewString(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Actor:         actor,
		Data:          raw,
		CreatedAt:     time.Now().UTC(),
	}
	return e, nil
}

// DecodeData はイベントのDataをT型に復元する。
func DecodeData[T any](e *Event) (*T, error) {
	if e == nil || len(e.Data) == 0 {
		return nil, ErrNoData
	}
	data := new(T)
	if err := json.Unmarshal(e.Data, data); err != nil {
		return nil, fmt.Errorf("%s のデータを復元できません: %w", e.EventType, err)
	}
	return data, nil
}
