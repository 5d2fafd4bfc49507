package service

import "errors"

// 服务层业务错误。处理层通过 errors.Is 将它们映射为 HTTP 状态码，
// 错误文本会原样作为响应 message 返回给客户端。
var (
	ErrValidation           = errors.New("please fill all required fields")
	ErrEmailTaken           = errors.New("a user with this email already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrPostNotFound         = errors.New("post not found")
	ErrNoPosts              = errors.New("no posts were found")
	ErrInvalidID            = errors.New("the given id is not a valid id")
	ErrAuthenticationFailed = errors.New("invalid email or password")
	ErrForbidden            = errors.New("you are not authorized to modify this post")
	ErrInternalServer       = errors.New("internal server error")
)
