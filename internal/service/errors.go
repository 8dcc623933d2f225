package service

import (
	"errors"
)

const (
	BadRequest          = 400
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
	ServiceUnavailable  = 503
)

var (
	ErrParamInvalid         = errors.New("参数错误")
	ErrFileNotSupported     = errors.New("不支持的文件类型")
	ErrFileNotExist         = errors.New("文件不存在")
	ErrTooManyMedia         = errors.New("媒体数量超过限制")
	ErrVideoTooLong         = errors.New("视频时长超过限制")
	ErrCaptionTooLong       = errors.New("文案长度超过限制")
	ErrNoMediaSelected      = errors.New("未选择任何媒体")
	ErrSessionNotFound      = errors.New("草稿不存在")
	ErrSessionBusy          = errors.New("正在上传，请稍候")
	ErrSequenceFrozen       = errors.New("上传期间不能调整媒体顺序")
	ErrRetryPending         = errors.New("存在上传失败的媒体，请重试或放弃")
	ErrNoPendingRetry       = errors.New("没有需要重试的媒体")
	ErrSessionClosed        = errors.New("草稿已结束")
	ErrTransportUnavailable = errors.New("上传服务不可用")
	ErrPostSaveFailed       = errors.New("帖子保存失败")
	ErrPostNotFound         = errors.New("帖子不存在")
	ErrMediaNotFound        = errors.New("媒体不存在")
	UnExpectedError         = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:         BadRequest,
	ErrFileNotSupported:     BadRequest,
	ErrFileNotExist:         NotFound,
	ErrTooManyMedia:         BadRequest,
	ErrVideoTooLong:         BadRequest,
	ErrCaptionTooLong:       BadRequest,
	ErrNoMediaSelected:      BadRequest,
	ErrSessionNotFound:      NotFound,
	ErrSessionBusy:          Conflict,
	ErrSequenceFrozen:       Conflict,
	ErrRetryPending:         Conflict,
	ErrNoPendingRetry:       Conflict,
	ErrSessionClosed:        Conflict,
	ErrTransportUnavailable: ServiceUnavailable,
	ErrPostSaveFailed:       InternalServerError,
	ErrPostNotFound:         NotFound,
	ErrMediaNotFound:        NotFound,
	UnExpectedError:         InternalServerError,
}
