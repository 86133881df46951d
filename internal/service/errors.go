package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid        = errors.New("参数错误")
	ErrUserNotFound        = errors.New("用户不存在")
	ErrEmailExist          = errors.New("邮箱已注册")
	ErrInvalidCredentials  = errors.New("邮箱或密码错误")
	ErrInvalidPublicKey    = errors.New("公钥格式错误")
	ErrInvalidImage        = errors.New("图片格式错误")
	ErrContactNotFound     = errors.New("联系人不存在")
	ErrAddSelf             = errors.New("不能添加自己为联系人")
	ErrNotContact          = errors.New("请先添加对方为联系人")
	ErrEmptyMessage        = errors.New("消息内容不能为空")
	ErrNonceRequired       = errors.New("加密内容缺少 nonce")
	ErrInvalidNonce        = errors.New("nonce 格式错误")
	ErrMessageNotFound     = errors.New("消息不存在")
	ErrDeleteOthersMessage = errors.New("只能删除自己发送的消息")
	UnauthorizedError      = errors.New("未登录或登录已失效")
	UnExpectedError        = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:        BadRequest,
	ErrUserNotFound:        NotFound,
	ErrEmailExist:          BadRequest,
	ErrInvalidCredentials:  BadRequest,
	ErrInvalidPublicKey:    BadRequest,
	ErrInvalidImage:        BadRequest,
	ErrContactNotFound:     NotFound,
	ErrAddSelf:             BadRequest,
	ErrNotContact:          Forbidden,
	ErrEmptyMessage:        BadRequest,
	ErrNonceRequired:       BadRequest,
	ErrInvalidNonce:        BadRequest,
	ErrMessageNotFound:     NotFound,
	ErrDeleteOthersMessage: Forbidden,
	UnauthorizedError:      Unauthorized,
	UnExpectedError:        InternalServerError,
}
