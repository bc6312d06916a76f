package parser

import (
	"fmt"
	"strings"

	tiParser "github.com/pingcap/tidb/parser"
	"github.com/pingcap/tidb/parser/ast"
	_ "github.com/pingcap/tidb/types/parser_driver"
)

// 用TiDB parser对规范化之后的语句做语法检查
type Checker struct {
	parser *tiParser.Parser
}

func NewChecker() *Checker {
	return &Checker{parser: tiParser.New()}
}

// 语句必须能被解析，且只有一条；声明了类型的语句，解析出的类型要一致
func (c *Checker) Check(sql SQL) (err error) {
	final := sql.NormalizedSQL()

	var stmts []ast.StmtNode
	stmts, _, err = c.parser.Parse(strings.ReplaceAll(final, BindMarker, "?"), "", "")
	if err != nil {
		err = fmt.Errorf("%w,err=[%v],sql=[%v]", ErrInvalidStatement, err.Error(), final)
		return
	}
	if len(stmts) != 1 {
		err = fmt.Errorf("%w,expect 1 statement but got %v,sql=[%v]", ErrInvalidStatement, len(stmts), final)
		return
	}

	declared := sql.DeclaredKind()
	if declared == StatementKind_Generic {
		return
	}
	if kind := kindOf(stmts[0]); kind != declared {
		err = fmt.Errorf("%w,declared as %v but parsed as %v,sql=[%v]", ErrInvalidStatement, declared, kind, final)
	}
	return
}

func kindOf(node ast.StmtNode) StatementKind {
	switch node.(type) {
	case *ast.SelectStmt, *ast.SetOprStmt:
		return StatementKind_Select
	case *ast.InsertStmt:
		return StatementKind_Insert
	case *ast.UpdateStmt:
		return StatementKind_Update
	case *ast.DeleteStmt:
		return StatementKind_Delete
	default:
		return StatementKind_Generic
	}
}
