package layout

import (
	"fmt"
	"io"
)

// BuildOptions 配置一次转换。
type BuildOptions struct {
	LineWidth     int  // 目标行宽（列）
	MaxExpansions int  // 每段允许的宏展开次数
	ByParagraph   bool // 按空行分段逐段处理，段间输出空行
	Ragged        bool // 不做两端对齐
	NoIndent      bool // 段首不缩进

	// Output 非空时，每输出一行就立即写入，便于流式处理。
	Output io.Writer
	Debug  DebugOptions
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	Boxes bool // 在结果中保留每次输出前的盒子尺寸
}

// DefaultOptions 返回默认配置。
func DefaultOptions() BuildOptions {
	return BuildOptions{
		LineWidth:     150,
		MaxExpansions: 400,
	}
}

// Validate 检查配置是否可用。
func (o BuildOptions) Validate() error {
	if o.LineWidth < 1 {
		return fmt.Errorf("行宽必须为正数，当前为 %d", o.LineWidth)
	}
	if o.MaxExpansions < 0 {
		return fmt.Errorf("宏展开上限不能为负数，当前为 %d", o.MaxExpansions)
	}
	return nil
}
