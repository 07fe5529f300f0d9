package forum

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	forumdb "github.com/nao1215/foro/internal/forum/db"
	"github.com/nao1215/foro/pkg/event"
	"github.com/nao1215/foro/pkg/middleware"
)

// emitEvent はドメインイベントを送信する。送信の失敗はリクエストの結果に影響しない。
func (s *Server) emitEvent(c *gin.Context, aggregateID string, aggregateType event.AggregateType, eventType event.Type, actor string, data any) {
	e, err := event.New(aggregateID, aggregateType, eventType, actor, data)
	if err != nil {
		s.logger.Warn("イベントの生成に失敗",
			zap.String("event_type", string(eventType)),
			zap.String("request_id", middleware.RequestIDFrom(c)),
			zap.Error(err),
		)
		return
	}
	s.publisher.Publish(c.Request.Context(), e)
}

// emitTopicEvent はトピックの作成・更新イベントを送信する。
func (s *Server) emitTopicEvent(c *gin.Context, eventType event.Type, t *forumdb.Topic) {
	s.emitEvent(c, topicAggregateID(t.ID), event.AggregateTypeTopic, eventType, middleware.CurrentUser(c), event.TopicData{
		Title:  t.Title,
		Author: t.Author,
		Course: t.Course,
		Status: t.Status,
	})
}

func topicAggregateID(id int64) string {
	return "topic-" + strconv.FormatInt(id, 10)
}

func userAggregateID(username string) string {
	return "user-" + username
}
