package event

import (
	"encoding/json"
	"time"
)

// AggregateType はイベントの対象となるエンティティの種類を表す。
type AggregateType string

const (
	// AggregateTypeUser はユーザー（認証情報）エンティティを表す。
	AggregateTypeUser AggregateType = "User"
	// AggregateTypeTopic はトピックエンティティを表す。
	AggregateTypeTopic AggregateType = "Topic"
)

// Type はイベントの種類を表す。
type Type string

const (
	// TypeUserRegistered はユーザーが登録されたことを表す。
	TypeUserRegistered Type = "UserRegistered"

	// TypeTopicCreated はトピックが作成されたことを表す。
	TypeTopicCreated Type = "TopicCreated"
	// TypeTopicUpdated はトピックが更新されたことを表す。
	TypeTopicUpdated Type = "TopicUpdated"
	// TypeTopicDeleted はトピックが削除されたことを表す。
	TypeTopicDeleted Type = "TopicDeleted"
)

// Event は監査用に外部へ送信される不変のイベントレコードを表す。
type Event struct {
	// ID はイベントの一意識別子（UUID）。
	ID string `json:"id"`
	// AggregateID は対象エンティティの識別子。
	AggregateID string `json:"aggregate_id"`
	// AggregateType は対象エンティティの種類。
	AggregateType AggregateType `json:"aggregate_type"`
	// EventType はイベントの種類。
	EventType Type `json:"event_type"`
	// Actor は操作を行ったユーザー名。登録イベントでは登録したユーザー自身。
	Actor string `json:"actor"`
	// Data はイベント固有のデータ（JSON形式）。
	Data json.RawMessage `json:"data"`
	// CreatedAt はイベントが作成された日時。
	CreatedAt time.Time `json:"created_at"`
}

// UserRegisteredData はUserRegisteredイベントのデータ。
type UserRegisteredData struct {
	// Username は登録されたユーザー名。
	Username string `json:"username"`
}

// TopicData はTopicCreated・TopicUpdatedイベントのデータ。
type TopicData struct {
	// Title はトピックのタイトル。
	Title string `json:"titulo"`
	// Author はトピックの著者。
	Author string `json:"autor"`
	// Course はトピックのコース。
	Course string `json:"curso"`
	// Status はトピックの状態。
	Status string `json:"estado"`
}

// TopicDeletedData はTopicDeletedイベントのデータ。
type TopicDeletedData struct {
	// Title は削除されたトピックのタイトル。
	Title string `json:"titulo"`
}
