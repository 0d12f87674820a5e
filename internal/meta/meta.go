package meta

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ucalgary-aurora/nascam-imager-readfile/internal/domain"
)

// 文件名契约（外部约定，逐位保真，不可放宽）：
//
//	YYYYMMDD_HHMMSS_<site>_<device>_<mode>_<exposure>ms.<ext>
//
// 下划线分段；曝光段先去掉扩展名，再去掉 "ms" 单位后按十进制毫秒解析。
// 这是帧元数据的唯一来源（文件内容不含元数据）。

const timestampLayout = "20060102T150405"

// minTokens 是契约要求的最小分段数。多余的分段按位置规则忽略
// （解析只按固定下标取前六段）。
const minTokens = 6

// ParseError 表示文件名不符合元数据契约。
type ParseError struct {
	Filename string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("文件名 %q 不符合元数据契约：%v", e.Filename, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse 从 path 的 basename 中提取单帧元数据。
// 纯函数：不做任何 I/O，不产生副作用；失败返回 *ParseError。
func Parse(path string) (domain.FrameMetadata, error) {
	base := filepath.Base(path)

	tokens := strings.Split(base, "_")
	if len(tokens) < minTokens {
		return domain.FrameMetadata{}, &ParseError{
			Filename: base,
			Err:      fmt.Errorf("期望至少 %d 个下划线分段，实际 %d", minTokens, len(tokens)),
		}
	}

	ts, err := time.Parse(timestampLayout, tokens[0]+"T"+tokens[1])
	if err != nil {
		return domain.FrameMetadata{}, &ParseError{
			Filename: base,
			Err:      fmt.Errorf("日期/时间无法解析：%v", err),
		}
	}

	exposure, err := parseExposure(tokens[5])
	if err != nil {
		return domain.FrameMetadata{}, &ParseError{Filename: base, Err: err}
	}

	return domain.FrameMetadata{
		ProjectUID:   domain.ProjectUID,
		SiteUID:      tokens[2],
		DeviceUID:    tokens[3],
		ModeUID:      tokens[4],
		Timestamp:    ts,
		ExposureText: exposure,
	}, nil
}

// parseExposure 把形如 "001000ms.png" 的曝光段解析为 "1000.000 ms"。
func parseExposure(token string) (string, error) {
	s := strings.TrimSuffix(token, filepath.Ext(token))
	digits, ok := strings.CutSuffix(s, "ms")
	if !ok {
		return "", fmt.Errorf("曝光段 %q 缺少 ms 单位后缀", token)
	}
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return "", fmt.Errorf("曝光段 %q 不是数字：%v", token, err)
	}
	return fmt.Sprintf("%.3f ms", v), nil
}
