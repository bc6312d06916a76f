package parser

import (
	"encoding/xml"
	"regexp"
)

var (
	mybatisSignature = regexp.MustCompile(`DTD Mapper 3\.0`)

	mybatisStatements = map[string]StatementKind{
		"select": StatementKind_Select,
		"insert": StatementKind_Insert,
		"update": StatementKind_Update,
		"delete": StatementKind_Delete,
	}

	// ${}在MyBatis中没有单独的schema语义，和#{}一样视为参数
	mybatisRules = pipeline(
		commentRules,
		whitespaceRules,
		[]Rule{
			ReplaceRule("parameter", `#\{[^{}]*\}`, BindMarker),
			ReplaceRule("substitution", `\$\{[^{}]*\}`, BindMarker),
		},
		repairRules,
	)
)

// MyBatis Mapper 3.0
type MyBatisDialect struct{}

func (MyBatisDialect) Name() string {
	return DialectName_MyBatis
}

func (MyBatisDialect) Match(content []byte) bool {
	return mybatisSignature.Match(content)
}

func (MyBatisDialect) StatementKind(element string) (kind StatementKind, ok bool) {
	kind, ok = mybatisStatements[element]
	return
}

// where/set/trim与MyBatis一致: 去掉元素体开头或结尾多余的AND、OR、逗号
func (MyBatisDialect) OpenElement(element string, attrs []xml.Attr) (injection Injection) {
	switch element {
	case "where":
		injection.Open = " where "
		injection.PrefixOverrides = []string{"AND", "OR"}
	case "set":
		injection.Open = " set "
		injection.SuffixOverrides = []string{","}
	case "trim":
		prefix, _ := attrValue(attrs, "prefix")
		suffix, _ := attrValue(attrs, "suffix")
		prefixOverrides, _ := attrValue(attrs, "prefixOverrides")
		suffixOverrides, _ := attrValue(attrs, "suffixOverrides")
		injection = Injection{
			Open:            padded(prefix),
			Close:           padded(suffix),
			PrefixOverrides: overrideTokens(prefixOverrides),
			SuffixOverrides: overrideTokens(suffixOverrides),
		}
	case "foreach":
		value, _ := attrValue(attrs, "open")
		injection.Open = padded(value)
		value, _ = attrValue(attrs, "close")
		injection.Close = padded(value)
	}
	return
}

func (MyBatisDialect) Rules() []Rule {
	return mybatisRules
}

func (MyBatisDialect) EmitIds() bool {
	return true
}
