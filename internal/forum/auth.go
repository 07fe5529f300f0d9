package forum

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	forumdb "github.com/nao1215/foro/internal/forum/db"
	"github.com/nao1215/foro/pkg/apperror"
	"github.com/nao1215/foro/pkg/event"
	"github.com/nao1215/foro/pkg/validation"
)

// maxPasswordBytes はbcryptが扱えるパスワードの最大バイト長。
const maxPasswordBytes = 72

// invalidCredentials はユーザーが存在しない場合とパスワードが違う場合で共通の応答。
const invalidCredentials = "Credenciales inválidas"

// bindCredentials は認証情報のリクエスト本文を読み取り検証する。
func bindCredentials(c *gin.Context) (*credentialsRequest, error) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, apperror.InvalidInput("El cuerpo de la solicitud no es un JSON válido")
	}
	if violations := validation.Struct(req); violations != nil {
		return nil, apperror.Validation(violations)
	}
	if len(req.Password) > maxPasswordBytes {
		return nil, apperror.Validation([]string{"password: La contraseña no puede superar los 72 bytes"})
	}
	return &req, nil
}

// handleRegister はユーザー登録を処理するハンドラーを返す。
// 登録に成功したらそのユーザーのトークンを発行する。
func (s *Server) handleRegister() gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := bindCredentials(c)
		if err != nil {
			_ = c.Error(err)
			return
		}
		ctx := c.Request.Context()

		exists, err := s.queries.UsernameExists(ctx, req.Username)
		if err != nil {
			_ = c.Error(err)
			return
		}
		if exists {
			_ = c.Error(errUserExists())
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
		if err != nil {
			_ = c.Error(fmt.Errorf("パスワードのハッシュ化に失敗: %w", err))
			return
		}

		user, err := s.queries.CreateUser(ctx, req.Username, string(hash), s.now())
		if err != nil {
			// 存在確認と登録の間に同じユーザー名が登録された場合
			if errors.Is(err, forumdb.ErrDuplicate) {
				_ = c.Error(errUserExists())
				return
			}
			_ = c.Error(err)
			return
		}

		tok, err := s.tokens.Issue(user.Username)
		if err != nil {
			_ = c.Error(fmt.Errorf("トークンの発行に失敗: %w", err))
			return
		}

		s.logger.Info("ユーザーを登録しました", zap.String("username", user.Username))
		s.emitEvent(c, userAggregateID(user.Username), event.AggregateTypeUser, event.TypeUserRegistered,
			user.Username, event.UserRegisteredData{Username: user.Username})

		c.JSON(http.StatusOK, authResponse{Token: tok, Username: user.Username})
	}
}

func errUserExists() *apperror.Error {
	return apperror.Conflict("Usuario duplicado", "El usuario ya existe")
}

// handleLogin はログインを処理するハンドラーを返す。
// ユーザーが存在しない場合もパスワードの比較を行い、応答時間で存在を推測されないようにする。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := bindCredentials(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		user, err := s.queries.GetUserByUsername(c.Request.Context(), req.Username)
		switch {
		case errors.Is(err, forumdb.ErrNotFound):
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
			s.logger.Info("ログインに失敗しました", zap.String("username", req.Username))
			_ = c.Error(apperror.Unauthorized(invalidCredentials))
			return
		case err != nil:
			_ = c.Error(err)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			s.logger.Info("ログインに失敗しました", zap.String("username", req.Username))
			_ = c.Error(apperror.Unauthorized(invalidCredentials))
			return
		}

		tok, err := s.tokens.Issue(user.Username)
		if err != nil {
			_ = c.Error(fmt.Errorf("トークンの発行に失敗: %w", err))
			return
		}
		c.JSON(http.StatusOK, authResponse{Token: tok, Username: user.Username})
	}
}

// handleFindByTitleAndAuthor はタイトルと著者が完全一致するトピックを返すハンドラーを返す。
func (s *Server) handleFindByTitleAndAuthor() gin.HandlerFunc {
	return func(c *gin.Context) {
		titulo, autor := c.Query("titulo"), c.Query("autor")
		if titulo == "" || autor == "" {
			_ = c.Error(apperror.InvalidInput("Los parámetros 'titulo' y 'autor' son obligatorios"))
			return
		}
		s.serveCached(c, func(ctx context.Context) (any, error) {
			t, err := s.queries.FindTopicByTitleAndAuthor(ctx, titulo, autor)
			if err != nil {
				return nil, topicLookupError(err)
			}
			return toTopicResponse(*t), nil
		})
	}
}
