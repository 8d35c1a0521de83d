package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JoeShih716/go-pix-ledger/pkg/logger"
	"github.com/JoeShih716/go-pix-ledger/pkg/metrics"
)

// RouterDeps 路由需要的依賴
type RouterDeps struct {
	Service Service
	Logger  *logger.Logger
}

// NewRouter 註冊所有路由
func NewRouter(deps RouterDeps) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	router := gin.New()
	router.Use(gin.Recovery(), instrument(), requestLogger(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	h := NewHandler(deps.Service)

	// 帳戶
	router.POST("/account", h.CreateAccount)
	router.GET("/account", h.ListAccounts)
	router.GET("/account/:taxId", h.GetAccount)
	router.PUT("/account/:taxId", h.UpdateAccount)
	router.DELETE("/account/:taxId", h.DeleteAccount)

	// 對帳單 / 餘額
	router.GET("/statement/:taxId", h.GetStatement)
	router.GET("/statement/:taxId/date", h.GetStatementByDay)
	router.GET("/balance/:taxId", h.GetBalance)

	// 交易
	router.POST("/deposit/:taxId", h.Deposit)
	router.POST("/withdraw/:taxId", h.Withdraw)
	router.POST("/pix/:taxId", h.Pix)

	return router
}

// instrument 記錄 HTTP metrics，路徑使用路由樣板 (例如 /deposit/:taxId)
func instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		done := metrics.HTTPRequestStarted()
		defer done()

		start := time.Now()
		c.Next()
		metrics.RecordHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error().Str("errors", c.Errors.String())
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}
