package domain

// FileResult 是单个输入文件处理完毕后的结果包。
//
// 不变量：
// - len(Frames) == len(Metadata) 永远成立：解码失败同步移除对应元数据条目，元数据失败在追加前中断循环
// - 任何失败都不会越过 worker 边界：全部降级为 Problematic=true + ErrorMsg
// - Width/Height 来自最后一次成功解码（无成功帧时为 0）
type FileResult struct {
	Frames   []Frame
	Metadata []FrameMetadata

	Problematic bool
	Filename    string
	ErrorMsg    string

	Width  int
	Height int
}

// ProblemFile 记录一个未能完整处理的输入文件。只累积，不重试。
type ProblemFile struct {
	Filename string `json:"filename"`
	ErrorMsg string `json:"error_msg"`
}

// ReadResult 是一次完整读取调用的最终结果。
//
// 不变量：
// - len(Metadata) == Volume.Depth
// - Volume 第三轴顺序 == 输入文件顺序，文件内部按成员名字典序
// - Problems 与 Quiet 无关：即使抑制了人类可读输出，问题列表也完整返回
type ReadResult struct {
	Volume   Volume
	Metadata []FrameMetadata
	Problems []ProblemFile
}
