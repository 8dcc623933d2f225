package transport

import (
	"Shutter/internal/model"
	"context"
	"io"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// HTTP 以 multipart 表单把媒体推给上传接口
// 表单字段：media(文件)、index、type
type HTTP struct {
	client   *resty.Client
	endpoint string
}

func NewHTTP(endpoint string, timeout time.Duration) *HTTP {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)
	return &HTTP{client: client, endpoint: endpoint}
}

func (s *HTTP) Upload(ctx context.Context, blob io.Reader, meta model.UploadMeta) (map[string]any, error) {
	var result map[string]any
	resp, err := s.client.R().
		SetContext(ctx).
		SetMultipartField("media", meta.FileName, meta.ContentType, blob).
		SetFormData(map[string]string{
			"index": strconv.Itoa(meta.Index),
			"type":  string(meta.Kind),
		}).
		SetResult(&result).
		Post(s.endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "upload item %d", meta.Index)
	}
	if resp.IsError() {
		return nil, errors.Errorf("upload failed: %s", resp.Status())
	}
	if result == nil {
		result = map[string]any{}
	}
	return result, nil
}

// Check 只关心网络是否可达，任何 HTTP 状态都视为可达
func (s *HTTP) Check(ctx context.Context) error {
	_, err := s.client.R().SetContext(ctx).Head(s.endpoint)
	if err != nil {
		return errors.Wrap(err, "upload endpoint unreachable")
	}
	return nil
}
