package parser

import "errors"

var (
	// 文件内容不符合任何已知方言
	ErrUnknownDialect = errors.New("unknown dialect")

	// 文件无法读取
	ErrReadFile = errors.New("read mapper file failed")

	// XML结构损坏，解析提前终止
	ErrMalformedDocument = errors.New("malformed mapper document")

	// include引用了不存在的片段
	ErrUnresolvedInclude = errors.New("unresolved include")

	// include形成循环引用
	ErrCyclicInclude = errors.New("cyclic include")

	// 规范化后的语句无法通过语法检查
	ErrInvalidStatement = errors.New("invalid statement")
)
