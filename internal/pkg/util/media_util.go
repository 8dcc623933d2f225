package util

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// FFprobe 通过 ffprobe 读取本地媒体信息
type FFprobe struct {
	Path string
}

func NewFFprobe(path string) *FFprobe {
	if path == "" {
		path = "ffprobe"
	}
	return &FFprobe{Path: path}
}

// Duration 获取视频时长（秒）
func (s *FFprobe) Duration(ctx context.Context, mediaPath string) (float64, error) {
	cmd := exec.CommandContext(ctx, s.Path,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		"-i", mediaPath,
	)

	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe 解析失败: %w", err)
	}

	return strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
}

// Dimensions 获取视频首个视频流的宽高
func (s *FFprobe) Dimensions(ctx context.Context, mediaPath string) (int, int, error) {
	cmd := exec.CommandContext(ctx, s.Path,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=s=x:p=0",
		"-i", mediaPath,
	)

	out, err := cmd.Output()
	if err != nil {
		return 0, 0, fmt.Errorf("ffprobe 解析失败: %w", err)
	}
	return ParseDimensions(string(out))
}

// ParseDimensions 解析 "1920x1080" 形式的输出
func ParseDimensions(raw string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(raw), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("unexpected ffprobe output: %q", raw)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width: %w", err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height: %w", err)
	}
	return w, h, nil
}
