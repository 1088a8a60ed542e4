package layout

import (
	"fmt"
	"strings"

	"github.com/ByLCY/tex2utf/box"
)

// 该文件定义转换结果与诊断信息，供调用方、调试 JSON 与渲染器共用。

// Result 保存转换后的文本行与诊断。
type Result struct {
	Lines       []string     `json:"lines"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	Stats       Stats        `json:"stats"`
	Boxes       []BoxInfo    `json:"boxes,omitempty"`
}

// String 以换行连接所有行，末尾带换行。
func (r *Result) String() string {
	if r == nil || len(r.Lines) == 0 {
		return ""
	}
	return strings.Join(r.Lines, "\n") + "\n"
}

// Width 返回最宽一行的显示宽度。
func (r *Result) Width() int {
	w := 0
	for _, l := range r.Lines {
		w = max(w, box.Width(l))
	}
	return w
}

// Stats 记录转换过程的计数。
type Stats struct {
	Paragraphs int `json:"paragraphs"`
	Expansions int `json:"expansions"`
	Justified  int `json:"justified"`
	Breaks     int `json:"breaks"`
}

// BoxInfo 是输出前盒子的尺寸快照，仅在 DebugOptions.Boxes 打开时记录。
type BoxInfo struct {
	Paragraph int `json:"paragraph"`
	Height    int `json:"height"`
	Width     int `json:"width"`
	Baseline  int `json:"baseline"`
	Spaces    int `json:"spaces"`
}

// DiagnosticKind 区分诊断类别。
type DiagnosticKind string

const (
	DiagMismatch   DiagnosticKind = "mismatch"   // 结束事件与等待的事件不符
	DiagOperands   DiagnosticKind = "operands"   // 操作数不足，以空盒子代替
	DiagUnknown    DiagnosticKind = "unknown"    // 未知的命令或环境，按原文输出
	DiagRunaway    DiagnosticKind = "runaway"    // 宏展开次数超限
	DiagUnbalanced DiagnosticKind = "unbalanced" // 花括号不配对
	DiagUnclosed   DiagnosticKind = "unclosed"   // 段落结束时仍有未关闭的分组
	DiagDefinition DiagnosticKind = "definition" // 无法接受的宏定义
)

// Diagnostic 是一条非致命的问题报告。
type Diagnostic struct {
	Kind      DiagnosticKind `json:"kind"`
	Message   string         `json:"message"`
	Paragraph int            `json:"paragraph"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("paragraph %d: %s: %s", d.Paragraph, d.Kind, d.Message)
}
