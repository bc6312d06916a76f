package converter

import (
	"strings"

	"github.com/tsfans/xbatis-to-sql/parser"
)

const ScriptFileName = "result.sql"

// 生成result.sql: 每个文件一行路径注释，每条语句以分号结尾，文件之间空一行
type SQLScriptConverter struct {
	emitIds bool
}

func NewSQLScriptConverter(dialect parser.Dialect) MapperConverter {
	return &SQLScriptConverter{emitIds: dialect.EmitIds()}
}

func (c *SQLScriptConverter) Convert(files []*parser.MapperFile) (Output, error) {
	var sb strings.Builder
	for _, file := range files {
		sb.WriteString("-- ")
		sb.WriteString(file.Path)
		sb.WriteString("\n")
		for _, stmt := range file.Statements {
			if c.emitIds {
				sb.WriteString("-- ")
				sb.WriteString(stmt.Id)
				sb.WriteString("\n")
			}
			sb.WriteString(stmt.Final)
			sb.WriteString(";\n")
		}
		sb.WriteString("\n")
	}
	return output{name: ScriptFileName, content: []byte(sb.String())}, nil
}
