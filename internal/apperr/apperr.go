// Package apperr 定义业务错误分类，贯穿仓储、服务与接口层
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind 错误类别
type Kind int

const (
	KindUnknown        Kind = iota
	KindNotFound            // 引用的用户/案例/报价不存在
	KindValidation          // 参数非法或自引用的报价
	KindConflict            // 报价已处理等状态冲突
	KindDependency          // 底层存储不可用或返回异常
	KindPartialFailure      // 主状态已变更但附带副作用未全部完成
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindDependency:
		return "dependency"
	case KindPartialFailure:
		return "partial_failure"
	default:
		return "unknown"
	}
}

// Error 带类别的业务错误
type Error struct {
	Kind    Kind
	Op      string // 出错的操作，例如 offer.respond
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Message != "" {
		b.WriteString(e.Message)
	} else {
		b.WriteString(e.Kind.String())
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// New 创建错误
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap 包装底层错误；若 err 已经是 *Error 则保留原类别
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

func NotFound(op, format string, args ...any) error {
	return New(KindNotFound, op, fmt.Sprintf(format, args...))
}

func Validation(op, format string, args ...any) error {
	return New(KindValidation, op, fmt.Sprintf(format, args...))
}

func Conflict(op, format string, args ...any) error {
	return New(KindConflict, op, fmt.Sprintf(format, args...))
}

func Dependency(op string, err error) error {
	return Wrap(KindDependency, op, err)
}

func PartialFailure(op, format string, args ...any) error {
	return New(KindPartialFailure, op, fmt.Sprintf(format, args...))
}

// KindOf 取出错误类别，非本包错误返回 KindUnknown
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is 判断错误是否属于指定类别
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
