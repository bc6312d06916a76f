package converter

import "github.com/tsfans/xbatis-to-sql/parser"

// 把各文件的解析结果转化为目标产物
type MapperConverter interface {
	// 按文件发现的顺序转化，不做重新排序
	Convert(files []*parser.MapperFile) (Output, error)
}

type Output interface {
	// 产物在输出目录下的文件名
	FileName() string
	Bytes() []byte
}

type output struct {
	name    string
	content []byte
}

func (o output) FileName() string {
	return o.name
}

func (o output) Bytes() []byte {
	return o.content
}
