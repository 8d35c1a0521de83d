package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JoeShih716/go-pix-ledger/internal/app/core/domain"
)

// CodeInvalidBody 請求內容無法解析
const CodeInvalidBody = "INVALID_BODY"

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type dataResponse struct {
	Data any `json:"data"`
}

type messageResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// writeError 業務規則錯誤一律 400，其餘 500
func writeError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	if !domain.IsBusinessError(err) {
		status = http.StatusInternalServerError
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, errorResponse{Code: domain.Code(err), Message: err.Error()})
}

func writeBadBody(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Code: CodeInvalidBody, Message: err.Error()})
}
