package forum

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	forumdb "github.com/nao1215/foro/internal/forum/db"
	"github.com/nao1215/foro/pkg/apperror"
	"github.com/nao1215/foro/pkg/event"
	"github.com/nao1215/foro/pkg/middleware"
	"github.com/nao1215/foro/pkg/validation"
)

func errDuplicateTopic() *apperror.Error {
	return apperror.Conflict("Tópico duplicado", "Ya existe un tópico con el mismo título y mensaje")
}

func errTopicNotFound() *apperror.Error {
	return apperror.NotFound("Tópico no encontrado")
}

// topicLookupError はDB層のエラーをAPIのエラーに変換する。
func topicLookupError(err error) error {
	switch {
	case errors.Is(err, forumdb.ErrNotFound):
		return errTopicNotFound()
	case errors.Is(err, forumdb.ErrDuplicate):
		return errDuplicateTopic()
	default:
		return err
	}
}

// bindTopic はトピックのリクエスト本文を読み取り検証する。
func bindTopic(c *gin.Context) (*topicRequest, error) {
	var req topicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, apperror.InvalidInput("El cuerpo de la solicitud no es un JSON válido")
	}
	if violations := validation.Struct(req); violations != nil {
		return nil, apperror.Validation(violations)
	}
	return &req, nil
}

// handleCreateTopic はトピック作成を処理するハンドラーを返す。
// タイトルとメッセージが同じトピックが既にある場合は作成しない。
func (s *Server) handleCreateTopic() gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := bindTopic(c)
		if err != nil {
			_ = c.Error(err)
			return
		}
		ctx := c.Request.Context()

		dup, err := s.queries.DuplicateExists(ctx, req.Titulo, req.Mensaje, 0)
		if err != nil {
			_ = c.Error(err)
			return
		}
		if dup {
			_ = c.Error(errDuplicateTopic())
			return
		}

		t, err := s.queries.CreateTopic(ctx, req.params(), s.now())
		if err != nil {
			_ = c.Error(topicLookupError(err))
			return
		}
		s.invalidateCache()

		s.logger.Info("トピックを作成しました",
			zap.Int64("topic_id", t.ID),
			zap.String("username", middleware.CurrentUser(c)),
		)
		s.emitTopicEvent(c, event.TypeTopicCreated, t)

		c.JSON(http.StatusOK, toTopicResponse(*t))
	}
}

// handleGetTopic はトピック詳細を返すハンドラーを返す。
func (s *Server) handleGetTopic() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			_ = c.Error(err)
			return
		}
		s.serveCached(c, func(ctx context.Context) (any, error) {
			t, err := s.queries.GetTopic(ctx, id)
			if err != nil {
				return nil, topicLookupError(err)
			}
			return toTopicResponse(*t), nil
		})
	}
}

// handleUpdateTopic はトピックの全項目を置き換えるハンドラーを返す。
// 作成日時と状態は変更しない。
func (s *Server) handleUpdateTopic() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			_ = c.Error(err)
			return
		}
		req, err := bindTopic(c)
		if err != nil {
			_ = c.Error(err)
			return
		}
		ctx := c.Request.Context()

		exists, err := s.queries.TopicExists(ctx, id)
		if err != nil {
			_ = c.Error(err)
			return
		}
		if !exists {
			_ = c.Error(errTopicNotFound())
			return
		}

		dup, err := s.queries.DuplicateExists(ctx, req.Titulo, req.Mensaje, id)
		if err != nil {
			_ = c.Error(err)
			return
		}
		if dup {
			_ = c.Error(errDuplicateTopic())
			return
		}

		t, err := s.queries.UpdateTopic(ctx, id, req.params())
		if err != nil {
			_ = c.Error(topicLookupError(err))
			return
		}
		s.invalidateCache()
		s.emitTopicEvent(c, event.TypeTopicUpdated, t)

		c.JSON(http.StatusOK, toTopicResponse(*t))
	}
}

// handleDeleteTopic はトピック削除を処理するハンドラーを返す。
func (s *Server) handleDeleteTopic() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			_ = c.Error(err)
			return
		}
		ctx := c.Request.Context()

		t, err := s.queries.GetTopic(ctx, id)
		if err != nil {
			_ = c.Error(topicLookupError(err))
			return
		}
		if err := s.queries.DeleteTopic(ctx, id); err != nil {
			_ = c.Error(topicLookupError(err))
			return
		}
		s.invalidateCache()

		s.logger.Info("トピックを削除しました",
			zap.Int64("topic_id", id),
			zap.String("username", middleware.CurrentUser(c)),
		)
		s.emitEvent(c, topicAggregateID(id), event.AggregateTypeTopic, event.TypeTopicDeleted,
			middleware.CurrentUser(c), event.TopicDeletedData{Title: t.Title})

		c.JSON(http.StatusOK, messageResponse{Mensaje: "Tópico eliminado correctamente"})
	}
}

// handleListTopics はトピック一覧を返すハンドラーを返す。
// cursoとanioが指定された場合はそれぞれ独立に絞り込む。
func (s *Server) handleListTopics() gin.HandlerFunc {
	return func(c *gin.Context) {
		var f forumdb.TopicFilter
		f.Course = c.Query("curso")
		if anio := c.Query("anio"); anio != "" {
			from, before, err := yearRange(anio)
			if err != nil {
				_ = c.Error(err)
				return
			}
			f.CreatedFrom, f.CreatedBefore = &from, &before
		}
		s.listTopics(c, f)
	}
}

// handleSearchTopics はタイトルまたはメッセージの部分一致で検索するハンドラーを返す。
func (s *Server) handleSearchTopics() gin.HandlerFunc {
	return func(c *gin.Context) {
		q := strings.TrimSpace(c.Query("q"))
		if q == "" {
			_ = c.Error(apperror.InvalidInput("El parámetro 'q' es obligatorio"))
			return
		}
		s.listTopics(c, forumdb.TopicFilter{Text: q, Course: c.Query("curso")})
	}
}

// handleAdvancedSearch は複数項目の部分一致と作成日の範囲で検索するハンドラーを返す。
func (s *Server) handleAdvancedSearch() gin.HandlerFunc {
	return func(c *gin.Context) {
		f := forumdb.TopicFilter{
			TitleContains:   c.Query("titulo"),
			MessageContains: c.Query("mensaje"),
			AuthorContains:  c.Query("autor"),
			CourseContains:  c.Query("curso"),
			StatusContains:  c.Query("estado"),
		}
		if err := applyDateRange(&f, c.Query("desde"), c.Query("hasta")); err != nil {
			_ = c.Error(err)
			return
		}
		s.listTopics(c, f)
	}
}

// handleListByCourse はコースが完全一致するトピックを返すハンドラーを返す。
func (s *Server) handleListByCourse() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.listTopics(c, forumdb.TopicFilter{Course: c.Param("curso")})
	}
}

// handleListByAuthor は著者が完全一致するトピックを返すハンドラーを返す。
func (s *Server) handleListByAuthor() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.listTopics(c, forumdb.TopicFilter{Author: c.Param("autor")})
	}
}

// listTopics はページング指定を解釈し、絞り込み結果の1ページを返す。
func (s *Server) listTopics(c *gin.Context, f forumdb.TopicFilter) {
	p, err := parsePageRequest(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	s.serveCached(c, func(ctx context.Context) (any, error) {
		topics, total, err := s.queries.ListTopics(ctx, f, p)
		if err != nil {
			return nil, err
		}
		return newPageResponse(topics, total, p), nil
	})
}
