package pngx

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/ucalgary-aurora/nascam-imager-readfile/internal/domain"
)

// DecodeError 表示单帧 PNG 无法读取：文件损坏、I/O 失败、
// 像素格式不符或尺寸与文件自声明的形状不一致。
type DecodeError struct {
	Filename string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("解码 %q 失败：%v", e.Filename, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode 把一个 PNG 文件解码为 16 位灰度帧。
//
// 逐位保真（硬约束）：样本必须保持 16 位深度与大端字节序。
// 标准库把 16 位灰度 PNG 解码为 *image.Gray16，其 Pix 正是未经改动的
// 大端样本流；任何其它颜色模型都意味着源文件不符合数据契约，
// 静默转换（截断位深/重排字节）会产出无错误信号的坏数据，因此一律报错。
func Decode(path string) (domain.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Frame{}, &DecodeError{Filename: path, Err: err}
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return domain.Frame{}, &DecodeError{Filename: path, Err: err}
	}

	g, ok := img.(*image.Gray16)
	if !ok {
		return domain.Frame{}, &DecodeError{
			Filename: path,
			Err:      fmt.Errorf("期望 16 位灰度，实际像素格式为 %T", img),
		}
	}

	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return domain.Frame{}, &DecodeError{
			Filename: path,
			Err:      fmt.Errorf("图像尺寸无效：%dx%d", w, h),
		}
	}
	if g.Stride < w*2 || len(g.Pix) < (h-1)*g.Stride+w*2 {
		return domain.Frame{}, &DecodeError{
			Filename: path,
			Err: fmt.Errorf("像素数据与声明的形状不一致：%dx%d, stride=%d, len=%d",
				w, h, g.Stride, len(g.Pix)),
		}
	}

	// 紧凑布局时直接引用解码缓冲；带 padding 的 stride 则逐行压实。
	pix := g.Pix
	if g.Stride != w*2 {
		pix = make([]byte, w*h*2)
		for y := 0; y < h; y++ {
			copy(pix[y*w*2:(y+1)*w*2], g.Pix[y*g.Stride:y*g.Stride+w*2])
		}
	} else {
		pix = pix[:w*h*2]
	}

	return domain.Frame{Width: w, Height: h, Pix: pix}, nil
}
