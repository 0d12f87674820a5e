package reader

import (
	"github.com/ucalgary-aurora/nascam-imager-readfile/internal/domain"
)

// DefaultExpectedFrames 是预分配估算用的每文件默认帧数。
// 真实帧数（丢帧、拍摄起止）可能少于它，也可能多于它。
const DefaultExpectedFrames = 20

// merge 把按输入顺序排列的 FileResult 归并为最终的 ReadResult。
//
// 总帧数在所有 worker 结束前是未知的。策略：按
// len(results) * expected 预分配体数据与元数据缓冲，从第一个含成功帧的
// FileResult 取宽高，单游标顺序写入，最后裁剪到游标长度——避免二次遍历，
// 也避免对多维数据做反复的动态扩容。
//
// 估算不足时缓冲按倍增增长（至少增长到所需容量），不会溢出。
func merge(results []domain.FileResult, expected int) *domain.ReadResult {
	if expected <= 0 {
		expected = DefaultExpectedFrames
	}

	// 宽高取自第一个成功解码出帧的文件（同一次调用内各帧同尺寸是显式简化不变量）。
	var width, height int
	for i := range results {
		if len(results[i].Frames) > 0 {
			width = results[i].Width
			height = results[i].Height
			break
		}
	}
	frameSize := width * height * 2

	capFrames := len(results) * expected
	pix := make([]byte, capFrames*frameSize)
	metas := make([]domain.FrameMetadata, capFrames)
	problems := make([]domain.ProblemFile, 0)

	cursor := 0
	for i := range results {
		r := &results[i]

		// 问题文件记录与是否读出帧无关：部分成功的文件既贡献帧也贡献问题条目。
		if r.Problematic {
			problems = append(problems, domain.ProblemFile{
				Filename: r.Filename,
				ErrorMsg: r.ErrorMsg,
			})
		}

		n := len(r.Frames)
		if n == 0 {
			continue
		}

		if cursor+n > capFrames {
			capFrames = grownCapacity(capFrames, cursor+n)

			npix := make([]byte, capFrames*frameSize)
			copy(npix, pix)
			pix = npix

			nmetas := make([]domain.FrameMetadata, capFrames)
			copy(nmetas, metas)
			metas = nmetas
		}

		copy(metas[cursor:cursor+n], r.Metadata)
		for k := 0; k < n; k++ {
			copy(pix[(cursor+k)*frameSize:(cursor+k+1)*frameSize], r.Frames[k].Pix)
		}
		cursor += n
	}

	return &domain.ReadResult{
		Volume: domain.Volume{
			Width:  width,
			Height: height,
			Depth:  cursor,
			Pix:    pix[:cursor*frameSize],
		},
		Metadata: metas[:cursor],
		Problems: problems,
	}
}

func grownCapacity(cur, need int) int {
	if cur < 1 {
		cur = 1
	}
	for cur < need {
		cur *= 2
	}
	return cur
}
