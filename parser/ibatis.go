package parser

import (
	"encoding/xml"
	"regexp"
	"strings"
)

var (
	ibatisSignature = regexp.MustCompile(`DTD SQL Map 2\.0`)

	ibatisStatements = map[string]StatementKind{
		"select":    StatementKind_Select,
		"insert":    StatementKind_Insert,
		"update":    StatementKind_Update,
		"delete":    StatementKind_Delete,
		"statement": StatementKind_Generic,
		"procedure": StatementKind_Generic,
	}

	ibatisRules = pipeline(
		commentRules,
		whitespaceRules,
		[]Rule{
			ReplaceRule("schema", `\$\{[^${}]+\}`, SchemaToken),
			ReplaceRule("inline parameter", `#[^#]+#`, BindMarker),
			ReplaceRule("inline substitution", `\$[^$]+\$`, BindMarker),
		},
		repairRules,
		[]Rule{TransformRule("upper case", strings.ToUpper)},
	)
)

// iBATIS SQL Map 2.0
type IBatisDialect struct{}

func (IBatisDialect) Name() string {
	return DialectName_IBatis
}

func (IBatisDialect) Match(content []byte) bool {
	return ibatisSignature.Match(content)
}

func (IBatisDialect) StatementKind(element string) (kind StatementKind, ok bool) {
	kind, ok = ibatisStatements[element]
	return
}

// 动态元素(isNotNull、dynamic、iterate...)的prepend/open/close
func (IBatisDialect) OpenElement(element string, attrs []xml.Attr) (injection Injection) {
	if prepend, ok := attrValue(attrs, "prepend"); ok {
		injection.Open += padded(prepend)
	}
	if value, ok := attrValue(attrs, "open"); ok {
		injection.Open += padded(value)
	}
	if value, ok := attrValue(attrs, "close"); ok {
		injection.Close = padded(value)
	}
	return
}

func (IBatisDialect) Rules() []Rule {
	return ibatisRules
}

func (IBatisDialect) EmitIds() bool {
	return false
}
