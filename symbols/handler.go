package symbols

import (
	"fmt"
	"strings"
)

// Handler 标识一个内建处理例程。处理例程本身由 layout 包注册，这里只保存标识，
// 以便符号表与环境定义可以序列化、从配置文件加载。
type Handler uint8

const (
	HandlerNone Handler = iota

	// 立即执行的命令
	HandlerOpenGroup
	HandlerCloseGroup
	HandlerInlineMath
	HandlerDisplayMath
	HandlerRowBreak
	HandlerCellBreak
	HandlerDiagram
	HandlerOver
	HandlerChoose
	HandlerNoIndent
	HandlerItem
	HandlerPar
	HandlerLeft
	HandlerRight
	HandlerLet
	HandlerDef
	HandlerNewCommand
	HandlerMatrixMacro
	HandlerSqrt

	// 收集参数后执行的回调
	HandlerSuperscript
	HandlerSubscript
	HandlerFraction
	HandlerBinomial
	HandlerBuildRel
	HandlerRadical
	HandlerOverline
	HandlerUnderline
	HandlerPutOver
	HandlerPutUnder
	HandlerOverSet
	HandlerUnderSet
	HandlerWideHat
	HandlerWideTilde
	HandlerBrace
	HandlerNot
	HandlerWrap
	HandlerBegin
	HandlerEnd
	HandlerLiteralNoLength
	HandlerDiscard

	// 内部回调
	HandlerSubSuper
	HandlerSuperSub
	HandlerLeftDelim
	HandlerLeftRight
	HandlerDelimited
	HandlerArrow
	HandlerArrowV

	// 环境动作
	HandlerScriptArg
	HandlerMatrixOpen
	HandlerMatrixClose
	HandlerMatrixCloseSpec
	HandlerColumnSpec
	HandlerDelimit

	handlerCount
)

var handlerNames = [...]string{
	HandlerNone:            "none",
	HandlerOpenGroup:       "open-group",
	HandlerCloseGroup:      "close-group",
	HandlerInlineMath:      "dollar",
	HandlerDisplayMath:     "display",
	HandlerRowBreak:        "row-break",
	HandlerCellBreak:       "cell-break",
	HandlerDiagram:         "diagram",
	HandlerOver:            "over",
	HandlerChoose:          "choose",
	HandlerNoIndent:        "noindent",
	HandlerItem:            "item",
	HandlerPar:             "par",
	HandlerLeft:            "left",
	HandlerRight:           "right",
	HandlerLet:             "let",
	HandlerDef:             "def",
	HandlerNewCommand:      "newcommand",
	HandlerMatrixMacro:     "matrix-macro",
	HandlerSqrt:            "sqrt",
	HandlerSuperscript:     "superscript",
	HandlerSubscript:       "subscript",
	HandlerFraction:        "fraction",
	HandlerBinomial:        "binomial",
	HandlerBuildRel:        "buildrel",
	HandlerRadical:         "radical",
	HandlerOverline:        "overline",
	HandlerUnderline:       "underline",
	HandlerPutOver:         "putover",
	HandlerPutUnder:        "putunder",
	HandlerOverSet:         "overset",
	HandlerUnderSet:        "underset",
	HandlerWideHat:         "widehat",
	HandlerWideTilde:       "widetilde",
	HandlerBrace:           "brace",
	HandlerNot:             "not",
	HandlerWrap:            "wrap",
	HandlerBegin:           "begin",
	HandlerEnd:             "end",
	HandlerLiteralNoLength: "literal-no-length",
	HandlerDiscard:         "discard",
	HandlerSubSuper:        "subsuper",
	HandlerSuperSub:        "supersub",
	HandlerLeftDelim:       "left-delim",
	HandlerLeftRight:       "leftright",
	HandlerDelimited:       "delimited",
	HandlerArrow:           "arrow",
	HandlerArrowV:          "arrow-v",
	HandlerScriptArg:       "script",
	HandlerMatrixOpen:      "matrix",
	HandlerMatrixClose:     "endmatrix",
	HandlerMatrixCloseSpec: "endmatrix-spec",
	HandlerColumnSpec:      "colspec",
	HandlerDelimit:         "delimit",
}

func (h Handler) String() string {
	if int(h) < len(handlerNames) && handlerNames[h] != "" {
		return handlerNames[h]
	}
	return fmt.Sprintf("handler(%d)", int(h))
}

// Handlers 返回全部已定义的处理例程标识（不含 HandlerNone）。
func Handlers() []Handler {
	out := make([]Handler, 0, handlerCount-1)
	for h := HandlerNone + 1; h < handlerCount; h++ {
		out = append(out, h)
	}
	return out
}

// ParseHandler 按名称查找处理例程。
func ParseHandler(name string) (Handler, error) {
	for h, n := range handlerNames {
		if n == name && Handler(h) != HandlerNone {
			return Handler(h), nil
		}
	}
	return HandlerNone, fmt.Errorf("未知的处理例程 %q", name)
}

// Action 是一次处理例程调用及其参数。
type Action struct {
	Handler Handler  `json:"handler"`
	Args    []string `json:"args,omitempty"`
}

// Do 构造 Action。
func Do(h Handler, args ...string) Action {
	return Action{Handler: h, Args: args}
}

// Arg 返回第 i 个参数，缺失时返回空串。
func (a Action) Arg(i int) string {
	if i < 0 || i >= len(a.Args) {
		return ""
	}
	return a.Args[i]
}

func (a Action) String() string {
	if len(a.Args) == 0 {
		return a.Handler.String()
	}
	return a.Handler.String() + ";" + strings.Join(a.Args, ";")
}

// ParseAction 解析 "name;arg1;arg2" 形式的动作描述。
func ParseAction(s string) (Action, error) {
	parts := strings.Split(strings.TrimSpace(s), ";")
	h, err := ParseHandler(parts[0])
	if err != nil {
		return Action{}, err
	}
	return Action{Handler: h, Args: parts[1:]}, nil
}
