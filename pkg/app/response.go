// Package app 提供 HTTP 响应的统一封装
package app

import (
	"net/http"
	"strings"

	"github.com/haierkeys/fast-note-offline-client/pkg/code"
	xerrors "github.com/haierkeys/fast-note-offline-client/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Res 是统一的响应结构：Code/Status/Message/Data
// 可选字段 Details 使用 omitempty（空则不会被序列化）
type Res struct {
	Code    int         `json:"code"`
	Status  bool        `json:"status"`
	Message interface{} `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// ListRes 列表响应结构
type ListRes struct {
	List  interface{} `json:"list"`  // 数据清单
	Count int         `json:"count"` // 条数
}

// Response 响应输出器
type Response struct {
	Ctx *gin.Context
}

// NewResponse 创建响应输出器
func NewResponse(ctx *gin.Context) *Response {
	return &Response{
		Ctx: ctx,
	}
}

// statusCode 业务状态码到 HTTP 状态码的映射
func statusCode(c int) int {
	switch c {
	case code.Success.Code():
		return http.StatusOK
	case code.ErrorValidation.Code(), code.ErrorSnapshotVersion.Code(), code.ErrorSnapshotMalformed.Code():
		return http.StatusBadRequest
	case code.ErrorNotFound.Code():
		return http.StatusNotFound
	case code.ErrorAuthToken.Code():
		return http.StatusUnauthorized
	case code.ErrorSyncRunning.Code():
		return http.StatusConflict
	case code.ErrorRemoteUnavailable.Code():
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// ToResponse 输出无数据的成功或错误响应
func (r *Response) ToResponse(codeObj *code.Code) {
	r.send(codeObj, nil)
}

// ToResponseData 输出携带数据的响应
func (r *Response) ToResponseData(codeObj *code.Code, data interface{}) {
	r.send(codeObj, data)
}

// ToResponseList 输出列表响应，使用 ListRes 作为 Data
func (r *Response) ToResponseList(codeObj *code.Code, list interface{}, count int) {
	r.send(codeObj, ListRes{
		List:  list,
		Count: count,
	})
}

// ToError 从错误输出响应
// AppError 携带的状态码与详情原样透出，其余错误统一为内部错误
func (r *Response) ToError(err error) {
	if appErr := xerrors.GetAppError(err); appErr != nil {
		content := Res{
			Code:    appErr.Code,
			Status:  false,
			Message: appErr.Message,
		}
		if len(appErr.Details) > 0 {
			content.Details = strings.Join(appErr.Details, ",")
		}
		r.Ctx.JSON(statusCode(appErr.Code), content)
		return
	}
	r.Ctx.JSON(http.StatusInternalServerError, Res{
		Code:    code.ServerError.Code(),
		Status:  false,
		Message: code.ServerError.Msg(),
		Details: err.Error(),
	})
}

func (r *Response) send(codeObj *code.Code, data interface{}) {
	content := Res{
		Code:    codeObj.Code(),
		Status:  codeObj.Code() == code.Success.Code(),
		Message: codeObj.Msg(),
		Data:    data,
	}
	if details := codeObj.Details(); len(details) > 0 {
		content.Details = strings.Join(details, ",")
	}
	r.Ctx.JSON(statusCode(codeObj.Code()), content)
}
