package symbols

import "github.com/ByLCY/tex2utf/box"

// Options 控制内建符号表的可选内容。
type Options struct {
	// TeXCompat 为真时 \pmatrix#1 是展开为 \left(...\right) 的宏，否则 pmatrix 是环境。
	TeXCompat bool
}

// DefaultOptions 返回默认选项。
func DefaultOptions() Options {
	return Options{TeXCompat: true}
}

var bigOperators = map[string][]string{
	`\sum`:   {"__ ", "❯  ", "‾‾ "},
	`\Sigma`: {"__", "❯ ", "‾‾"},
	`\int`:   {"╭ ", "| ", "╯ "},
	`\oint`:  {"╭ ", "⦶ ", "╯ "},
	`\prod`:  {"___ ", "│ │ ", "    "},
}

var greek = map[string]string{
	`\alpha`: "α", `\beta`: "β", `\gamma`: "γ", `\delta`: "δ",
	`\epsilon`: "ε", `\varepsilon`: "ε", `\zeta`: "ζ", `\eta`: "η",
	`\theta`: "θ", `\vartheta`: "ϑ", `\iota`: "ι", `\kappa`: "κ",
	`\lambda`: "λ", `\mu`: "μ", `\nu`: "ν", `\xi`: "ξ",
	`\pi`: "π", `\varpi`: "ϖ", `\rho`: "ρ", `\varrho`: "ϱ",
	`\sigma`: "σ", `\varsigma`: "ς", `\tau`: "τ", `\upsilon`: "υ",
	`\phi`: "φ", `\varphi`: "ϕ", `\chi`: "χ", `\psi`: "ψ",
	`\omega`: "ω", `\Gamma`: "Γ", `\Delta`: "Δ", `\Theta`: "Θ",
	`\Lambda`: "Λ", `\Xi`: "Ξ", `\Pi`: "Π", `\Upsilon`: "Υ",
	`\Phi`: "Φ", `\Psi`: "Ψ", `\Omega`: "Ω",
}

var fixedStrings = map[string]string{
	`\,`: " ", `\;`: " ", `\:`: " ", `\>`: " ", `\ `: " ", `~`: " ",
	`\|`: "||", `\Vert`: "||", `\vert`: "|",
	`\approx`: " ≅ ", `\backslash`: `\`, `\bullet`: "•", `\cap`: " ∩ ",
	`\cdot`: " · ", `\cdots`: "⋯", `\circ`: " o ", `\colon`: ": ",
	`\cong`: "≅", `\cup`: " ∪ ", `\dots`: "...", `\ldots`: "...",
	`\vdots`: "⋮", `\ddots`: "⋱", `\equiv`: " ≡ ", `\exists`: " ∃",
	`\forall`: " ∀", `\from`: " <── ", `\ge`: " ≥ ", `\geq`: " ≥ ",
	`\hbar`: "ℏ", `\hookleftarrow`: " ↩ ", `\hookrightarrow`: " ↪ ",
	`\in`: " ∈ ", `\infty`: "∞", `\Leftarrow`: " <== ",
	`\leftarrow`: " <── ", `\gets`: " <── ", `\leftrightarrow`: " <──> ",
	`\Leftrightarrow`: " <==> ", `\iff`: " <==> ", `\implies`: " ==> ",
	`\le`: " ≤ ", `\leq`: " ≤ ", `\lhd`: " ⊲ ", `\longleftarrow`: " <──── ",
	`\longleftrightarrow`: " <────> ", `\longmapsto`: " ├────> ",
	`\longrightarrow`: " ────> ", `\ltimes`: "⋉", `\mapsto`: " ├──> ",
	`\mid`: " | ", `\mp`: " ∓ ", `\nabla`: "∇", `\ne`: " ≠ ",
	`\neg`: "¬", `\lnot`: "¬", `\neq`: " ≠ ", `\ni`: " ∋ ", `\nmid`: " ∤ ",
	`\notin`: " ∉ ", `\ominus`: " ⊖ ", `\oplus`: " ⊕ ", `\otimes`: " ⊗ ",
	`\owns`: " ∋ ", `\partial`: "∂", `\pm`: " ± ", `\qed`: "∎",
	`\qquad`: "     ", `\quad`: "   ", `\rhd`: " ⊳ ", `\Rightarrow`: " ==> ",
	`\rightarrow`: " ──> ", `\rtimes`: " ⋊ ", `\section`: "Section ",
	`\setminus`: " ⧹ ", `\simeq`: " ≃ ", `\smallsetminus`: " ⧵ ",
	`\subsection`: "Subsection ", `\subset`: " ⊂ ", `\subseteq`: " ⊆ ",
	`\supset`: " ⊃ ", `\supseteq`: " ⊇ ", `\textit`: " ", `\times`: " × ",
	`\to`: " ──> ", `\vee`: " ∨ ", `\lor`: " ∨ ", `\wedge`: " ∧ ", `\land`: " ∧ ",
	`\div`: " ÷ ", `\sim`: " ∼ ", `\propto`: " ∝ ", `\perp`: " ⊥ ",
	`\ll`: " ≪ ", `\gg`: " ≫ ", `\prec`: " ≺ ", `\succ`: " ≻ ",
	`\models`: " ⊨ ", `\vdash`: " ⊢ ", `\top`: "⊤", `\bot`: "⊥",
	`\angle`: "∠", `\emptyset`: "∅", `\varnothing`: "∅", `\aleph`: "ℵ",
	`\ell`: "ℓ", `\Re`: "ℜ", `\Im`: "ℑ", `\wp`: "℘", `\prime`: "′",
	`\star`: "⋆", `\ast`: "∗", `\uparrow`: "↑", `\downarrow`: "↓",
	`\lt`: " < ", `\gt`: " > ", `\sqcup`: " ⊔ ", `\sqcap`: " ⊓ ",
}

var selfNames = []string{
	"@", "_", "$", "{", "}", "#", "&", "%", "arg", "deg", "det",
	"dim", "gcd", "hom", "inf", "ker", "lim", "liminf",
	"limsup", "max", "min", "mod", "Pr", "sup",
}

var functionNames = []string{
	"arccos", "arcsin", "arctan", "cos", "cosh", "cot", "coth",
	"csc", "exp", "lg", "ln", "log", "sec", "sin", "sinh",
	"tan", "tanh",
}

var ignoredNames = []string{
	"text", "textrm", "mathrm", "operatorname", "operatornamewithlimits", "relax",
	"-", "notag", "nonumber", "!", "/", "protect", "Bbb", "bf", "it", "em",
	"boldsymbol", "cal", "Cal", "goth", "ref", "maketitle",
	"expandafter", "csname", "endcsname", "makeatletter",
	"makeatother", "topmatter", "endtopmatter", "rm",
	"NoBlackBoxes", "document", "TagsOnRight", "bold", "dsize",
	"roster", "endroster", "endkey", "endRefs", "enddocument",
	"displaystyle", "textstyle", "twelverm", "tenrm", "twelvefm", "tenfm",
	"hbox", "mbox", "limits", "nolimits", "big", "Big", "bigg", "Bigg",
}

var parNames = []string{
	"par", "endtitle", "endauthor", "endaffil", "endaddress",
	"endemail", "endhead", "key", "medskip", "smallskip",
	"bigskip", "newpage", "vfill", "eject", "endgraph",
}

var discardOne = []string{
	"bibliography", "myLabel", "theoremstyle", "theorembodyfont",
	"bibliographystyle", "hphantom", "vphantom", "phantom", "hspace", "vspace",
}

var discardTwo = []string{"numberwithin", "newtheorem", "setcounter"}

// accents 是放在操作数上方的单字符记号。
var accents = map[string]string{
	`\v`: "v", `\~`: "~", `\tilde`: "~", `\hat`: "^", `\^`: "^",
	`\"`: `"`, `\dot`: ".", `\ddot`: "..", `\vec`: "→",
}

// Builtin 构造内建符号表。
func Builtin(opts Options) *Table {
	t := NewTable()

	for name, rows := range bigOperators {
		t.Set(name, Entry{Kind: KindBox, Box: box.FromRows(rows, 1)})
	}
	for name, s := range greek {
		t.SetString(name, s)
	}
	for name, s := range fixedStrings {
		t.SetString(name, s)
	}
	for _, op := range []string{"oplus", "otimes", "cup", "cap", "wedge", "vee"} {
		if e, ok := t.Lookup(`\` + op); ok {
			t.Set(`\big`+op, e)
		}
	}
	for _, n := range selfNames {
		t.Set(`\`+n, Entry{Kind: KindSelf})
	}
	for _, n := range functionNames {
		t.Set(`\`+n, Entry{Kind: KindFunction})
	}
	for name, st := range map[string]Style{
		`\mathcal`: StyleScript, `\mathscr`: StyleScript, `\mathbf`: StyleBold,
		`\mathit`: StyleItalic, `\mathbb`: StyleDoubleStruck, `\mathfrak`: StyleFraktur,
		`\mathsf`: StyleSansSerif, `\mathtt`: StyleMonospace,
	} {
		t.Set(name, Entry{Kind: KindStyle, Style: st})
	}
	for _, n := range ignoredNames {
		t.Set(`\`+n, Entry{Kind: KindIgnore})
	}
	for _, n := range parNames {
		t.SetHandler(`\`+n, 0, HandlerPar)
	}
	for _, n := range []string{"proclaim", "demo"} {
		t.Set(`\`+n, Entry{Kind: KindParBefore})
	}
	for _, n := range []string{"endproclaim", "enddemo"} {
		t.Set(`\`+n, Entry{Kind: KindParAfter})
	}
	for _, n := range discardOne {
		t.SetHandler(`\`+n, 1, HandlerDiscard)
	}
	for _, n := range discardTwo {
		t.SetHandler(`\`+n, 2, HandlerDiscard)
	}

	t.SetHandler("{", 0, HandlerOpenGroup)
	t.SetHandler("}", 0, HandlerCloseGroup)
	t.SetHandler("&", 0, HandlerCellBreak)
	t.SetHandler("$", 0, HandlerInlineMath)
	t.SetHandler("$$", 0, HandlerDisplayMath)
	t.SetHandler(`\\`, 0, HandlerRowBreak)
	t.SetHandler("@", 0, HandlerDiagram)
	t.SetHandler(`\over`, 0, HandlerOver)
	t.SetHandler(`\choose`, 0, HandlerChoose)
	t.SetHandler(`\noindent`, 0, HandlerNoIndent)
	t.SetHandler(`\item`, 0, HandlerItem)
	t.SetHandler(`\left`, 0, HandlerLeft)
	t.SetHandler(`\right`, 0, HandlerRight)
	t.SetHandler(`\let`, 0, HandlerLet)
	t.SetHandler(`\def`, 0, HandlerDef)
	t.SetHandler(`\newcommand`, 0, HandlerNewCommand, "new")
	t.SetHandler(`\renewcommand`, 0, HandlerNewCommand, "renew")
	t.SetHandler(`\providecommand`, 0, HandlerNewCommand, "provide")
	t.SetHandler(`\matrix`, 0, HandlerMatrixMacro)
	t.SetHandler(`\sqrt`, 0, HandlerSqrt)

	t.SetHandler("^", 1, HandlerSuperscript)
	t.SetHandler("_", 1, HandlerSubscript)
	for _, n := range []string{`\frac`, `\dfrac`, `\tfrac`} {
		t.SetHandler(n, 2, HandlerFraction)
	}
	t.SetHandler(`\binom`, 2, HandlerBinomial)
	t.SetHandler(`\buildrel`, 3, HandlerBuildRel)
	t.SetHandler(`\underline`, 1, HandlerUnderline)
	t.SetHandler(`\overline`, 1, HandlerOverline)
	t.SetHandler(`\bar`, 1, HandlerOverline)
	for name, mark := range accents {
		t.SetHandler(name, 1, HandlerPutOver, mark)
	}
	t.SetHandler(`\widetilde`, 1, HandlerWideTilde)
	t.SetHandler(`\widehat`, 1, HandlerWideHat)
	t.SetHandler(`\overbrace`, 1, HandlerBrace, "over")
	t.SetHandler(`\underbrace`, 1, HandlerBrace, "under")
	t.SetHandler(`\overrightarrow`, 1, HandlerBrace, "right")
	t.SetHandler(`\overleftarrow`, 1, HandlerBrace, "left")
	t.SetHandler(`\overset`, 2, HandlerOverSet)
	t.SetHandler(`\stackrel`, 2, HandlerOverSet)
	t.SetHandler(`\underset`, 2, HandlerUnderSet)
	t.SetHandler(`\not`, 1, HandlerNot)
	t.SetHandler(`\label`, 1, HandlerWrap, "(", ")")
	t.SetHandler(`\eqref`, 1, HandlerWrap, "(", ")")
	t.SetHandler(`\tag`, 1, HandlerWrap, "(", ")")
	t.SetHandler(`\cite`, 1, HandlerWrap, "[", "]")
	t.SetHandler(`\begin`, 0, HandlerBegin)
	t.SetHandler(`\end`, 0, HandlerEnd)
	t.SetHandler(`\LITERALnoLENGTH`, 1, HandlerLiteralNoLength)

	addEnvironments(t, opts)
	addMacros(t, opts)
	return t
}

func addEnvironments(t *Table, opts Options) {
	display := Do(HandlerDisplayMath)
	open := Do(HandlerMatrixOpen)
	env := func(name string, begin []Action, end []Action) {
		t.SetEnvironment(name, Environment{Begin: begin, End: end})
	}

	for _, name := range []string{"document", "split", "enumerate", "itemize"} {
		t.SetEnvironment(name, Environment{Ignore: true})
	}
	for _, name := range []string{"equation", "equation*", "displaymath"} {
		env(name, []Action{display}, []Action{display})
	}
	for _, name := range []string{"matrix", "CD", "smallmatrix"} {
		env(name, []Action{open}, []Action{Do(HandlerMatrixClose, "1", "c")})
	}
	env("Sb", []Action{Do(HandlerScriptArg, "_"), open}, []Action{Do(HandlerMatrixClose, "1", "l")})
	env("Sp", []Action{Do(HandlerScriptArg, "^"), open}, []Action{Do(HandlerMatrixClose, "1", "l")})
	for _, name := range []string{"eqnarray", "eqnarray*"} {
		env(name, []Action{display, open}, []Action{Do(HandlerMatrixClose, "0", "r", "c", "l"), display})
	}
	for _, name := range []string{"align", "align*", "multline", "multline*", "multiline", "flalign"} {
		env(name, []Action{display, open}, []Action{Do(HandlerMatrixClose, "0", "r", "l"), display})
	}
	env("aligned", []Action{open}, []Action{Do(HandlerMatrixClose, "0", "r", "l")})
	for _, name := range []string{"gather", "gather*"} {
		env(name, []Action{display, open}, []Action{Do(HandlerMatrixClose, "0", "c"), display})
	}
	env("gathered", []Action{open}, []Action{Do(HandlerMatrixClose, "0", "c")})
	for _, name := range []string{"array", "tabular"} {
		env(name, []Action{Do(HandlerColumnSpec), open}, []Action{Do(HandlerMatrixCloseSpec, "1")})
	}
	delimited := map[string][2]string{
		"bmatrix": {"[", "]"},
		"vmatrix": {"|", "|"},
		"Vmatrix": {"||", "||"},
		"Bmatrix": {"{", "}"},
	}
	if !opts.TeXCompat {
		delimited["pmatrix"] = [2]string{"(", ")"}
	}
	for name, d := range delimited {
		env(name, []Action{Do(HandlerDelimit, d[0], d[1]), open}, []Action{Do(HandlerMatrixClose, "1", "c")})
	}
	env("cases", []Action{Do(HandlerDelimit, "{", "."), open}, []Action{Do(HandlerMatrixClose, "2", "l")})
}

func addMacros(t *Table, opts Options) {
	def := func(name string, arity int, body string) {
		// 内建宏的名称与参数个数均为常量，不会出错。
		_ = t.Define(name, arity, body)
	}
	def(`\define`, 0, `\def`)
	def(`\langle`, 0, "<")
	def(`\rangle`, 0, ">")
	def(`\lbrace`, 0, `\{`)
	def(`\rbrace`, 0, `\}`)
	def(`\lvert`, 0, "|")
	def(`\rvert`, 0, "|")
	def(`\lVert`, 0, `\|`)
	def(`\rVert`, 0, `\|`)
	def(`\subheading`, 0, `\par\underline`)
	def(`\(`, 0, "$")
	def(`\)`, 0, "$")
	def(`\[`, 0, "$$")
	def(`\]`, 0, "$$")
	def(`\centerline`, 1, "$$#1$$")
	def(`\eqalign`, 1, `\aligned #1 \endaligned`)
	def(`\cr`, 0, `\\`)
	def(`\sb`, 0, "_")
	def(`\sp`, 0, "^")
	def(`\proclaim`, 0, `\noindent `)
	if opts.TeXCompat {
		def(`\pmatrix`, 1, `\left(\begin{matrix}#1\end{matrix}\right)`)
	}
	for _, name := range []string{
		"vmatrix", "Vmatrix", "smallmatrix", "bmatrix", "Sp", "Sb",
		"CD", "align", "aligned", "split", "multiline", "gather", "gathered",
	} {
		def(`\`+name, 0, `\begin{`+name+`}`)
		def(`\end`+name, 0, `\end{`+name+`}`)
	}
}
