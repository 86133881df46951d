package handler

import (
	"Cipherchat/internal/pkg/consts"
	"Cipherchat/internal/pkg/response"
	"Cipherchat/internal/pkg/util"
	"Cipherchat/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// currentUserID 由 AuthMiddleware 注入
func currentUserID(c *gin.Context) uint64 {
	return c.GetUint64(consts.UserIDKey)
}

// bindAndValidate 解析 JSON 并校验 validate 标签，失败时已写出响应
func bindAndValidate(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return false
	}
	if err := util.ValidateDTO(obj); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return false
	}
	return true
}

func paramUint64(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, service.ErrParamInvalid)
		return 0, false
	}
	return id, true
}
