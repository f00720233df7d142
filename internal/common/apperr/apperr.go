package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 错误大类，决定 HTTP 状态码映射。
type Kind int

const (
	KindInvalid  Kind = iota // 入参/业务校验失败 -> 400
	KindNotFound             // 引用的实体不存在 -> 404
	KindConflict             // 状态前置条件不满足/唯一键冲突 -> 409
	KindInternal             // 存储或未知异常 -> 500
)

// Error 结构化业务错误：code 给前端做机器判断，message 给人看。
type Error struct {
	Kind    Kind
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// HTTPStatus 按错误大类映射状态码。
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindInvalid:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func Invalid(code, format string, args ...any) *Error {
	return &Error{Kind: KindInvalid, Code: code, Message: fmt.Sprintf(format, args...)}
}

func NotFound(code, format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Conflict(code, format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Internal 包装存储/未知异常；message 对外统一，避免泄露内部细节。
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Code: "SYSTEM_ERROR", Message: "系统异常，请稍后重试", cause: cause}
}

// From 尝试把任意 error 还原为 *Error；非业务错误一律按 Internal 处理。
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

// IsKind 判断 err 是否属于指定大类。
func IsKind(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}
