package forum

import (
	"net/http"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/nao1215/foro/internal/forum/docs"
)

// apiDocsPath はOpenAPIドキュメントのJSONを返すパス。
const apiDocsPath = "/v3/api-docs"

// setupDocsRoutes はAPIドキュメントとSwagger UIのルーティングを設定する。
func (s *Server) setupDocsRoutes() {
	s.router.GET(apiDocsPath, func(c *gin.Context) {
		doc := docs.SwaggerInfo.ReadDoc()
		c.Data(http.StatusOK, gin.MIMEJSON+"; charset=utf-8", []byte(doc))
	})

	ui := gin.WrapH(httpSwagger.Handler(httpSwagger.URL(apiDocsPath)))
	s.router.GET("/swagger-ui/*any", ui)
	s.router.GET("/swagger-ui.html", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger-ui/index.html")
	})
}
