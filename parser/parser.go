package parser

import "fmt"

// mapper文件解析器: 识别方言、抽取语句、展开片段、规范化SQL
type MapperParser interface {
	// 判断文件是否属于当前方言
	Detect(path string) bool
	// 解析单个文件，文档中途损坏时同时返回已抽取的部分结果和错误
	Parse(path string) (*MapperFile, error)
}

// 交给Checker检查的SQL
type SQL interface {
	// 规范化之后的文本
	NormalizedSQL() string
	// mapper中声明的语句类型
	DeclaredKind() StatementKind
}

type StatementKind int

const (
	StatementKind_Generic StatementKind = 0
	StatementKind_Select  StatementKind = 1
	StatementKind_Insert  StatementKind = 2
	StatementKind_Update  StatementKind = 3
	StatementKind_Delete  StatementKind = 4
)

func (k StatementKind) String() string {
	switch k {
	case StatementKind_Select:
		return "select"
	case StatementKind_Insert:
		return "insert"
	case StatementKind_Update:
		return "update"
	case StatementKind_Delete:
		return "delete"
	default:
		return "generic"
	}
}

// mapper中的一条语句
type Statement struct {
	Id   string
	Kind StatementKind
	// 结构解析得到的文本，可能包含片段引用标记
	Raw string
	// 展开片段之后的文本
	Resolved string
	// 规范化之后的文本
	Final string
}

func (s Statement) NormalizedSQL() string {
	return s.Final
}

func (s Statement) DeclaredKind() StatementKind {
	return s.Kind
}

// <sql>片段，名称在文件内唯一，后定义的覆盖先定义的
type Fragment struct {
	Name string
	Text string
}

// 不中断处理的诊断信息
type Diagnostic struct {
	File      string
	Statement string
	Fragment  string
	Err       error
}

func (d Diagnostic) String() string {
	if d.Fragment != "" {
		return fmt.Sprintf("%v: statement=[%v],fragment=[%v]", d.Err, d.Statement, d.Fragment)
	}
	return fmt.Sprintf("%v: statement=[%v]", d.Err, d.Statement)
}

// 单个文件的解析结果
type MapperFile struct {
	Path        string
	Dialect     string
	Namespace   string
	Statements  []*Statement
	Fragments   map[string]*Fragment
	Diagnostics []Diagnostic
}
