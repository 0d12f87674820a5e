package domain

import (
	"encoding/binary"
	"time"
)

// ProjectUID 是帧元数据中的项目标识。所有 NASCAM 数据共享同一项目标识，
// 与具体文件无关（文件名中不含该信息）。
const ProjectUID = "nascam"

// FrameMetadata 描述单帧图像的拍摄元数据。
//
// 不变量（实现必须遵守）：
// - 完全由文件名推导，不读文件内容
// - Timestamp 为秒级精度（文件名只编码到秒），按 UTC 解释
// - ExposureText 固定格式 "%.3f ms"（例如 "1000.000 ms"）
type FrameMetadata struct {
	ProjectUID string
	SiteUID    string
	DeviceUID  string
	ModeUID    string

	// Timestamp 是该帧的请求拍摄时刻（来自文件名前两段）。
	Timestamp time.Time
	// ExposureText 是请求曝光时长的展示文本。
	ExposureText string
}

// Frame 是一帧解码后的 16 位灰度图像。
//
// 不变量：
// - Pix 为大端字节序的 uint16 样本流，行优先，布局与 image.Gray16.Pix 完全一致
// - len(Pix) == Width*Height*2
//
// 保持 []byte 而非 []uint16 是刻意的：样本的字节序属于对外契约
// （科学数据必须逐位保真），契约在字节层面表达最直接。
type Frame struct {
	Width  int
	Height int
	Pix    []byte
}

// At 返回 (x, y) 处的样本值（x 为列，y 为行）。
func (f Frame) At(x, y int) uint16 {
	i := (y*f.Width + x) * 2
	return binary.BigEndian.Uint16(f.Pix[i : i+2])
}

// Volume 是所有幸存帧沿第三轴串接后的 3-D 体数据。
//
// 不变量：
// - 所有帧同宽高（取自本次调用第一帧成功解码的结果）
// - Pix 为 Depth 帧按串接顺序排列，每帧内部布局与 Frame.Pix 相同
// - 没有任何成功帧时 Width/Height/Depth 均为 0，Pix 为空
type Volume struct {
	Width  int
	Height int
	Depth  int
	Pix    []byte
}

// FrameSize 返回单帧占用的字节数。
func (v Volume) FrameSize() int { return v.Width * v.Height * 2 }

// FrameAt 返回第 z 帧（共享底层存储，调用方不应修改）。
func (v Volume) FrameAt(z int) Frame {
	fs := v.FrameSize()
	return Frame{
		Width:  v.Width,
		Height: v.Height,
		Pix:    v.Pix[z*fs : (z+1)*fs],
	}
}

// At 返回 (x, y, z) 处的样本值。
func (v Volume) At(x, y, z int) uint16 {
	i := z*v.FrameSize() + (y*v.Width+x)*2
	return binary.BigEndian.Uint16(v.Pix[i : i+2])
}
