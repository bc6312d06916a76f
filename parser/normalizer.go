package parser

import (
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	// 规范化之后的绑定参数
	BindMarker = ":?"
	// 动态schema替换之后的占位符
	SchemaToken = "__REPLACE_SCHEMA__"
)

// 文本改写规则，按顺序执行，前一条的输出是后一条的输入
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
	Transform   func(string) string
}

func ReplaceRule(name, pattern, replacement string) Rule {
	return Rule{Name: name, Pattern: regexp.MustCompile(pattern), Replacement: replacement}
}

func TransformRule(name string, transform func(string) string) Rule {
	return Rule{Name: name, Transform: transform}
}

func (r Rule) Apply(sql string) string {
	if r.Transform != nil {
		return r.Transform(sql)
	}
	return r.Pattern.ReplaceAllString(sql, r.Replacement)
}

// 改写了文本的规则记为debug日志
func Normalize(sql string, rules []Rule, logger log.FieldLogger) string {
	for _, rule := range rules {
		next := rule.Apply(sql)
		if next != sql {
			logger.WithField("rule", rule.Name).Debugf("rewrite [%v] -> [%v]", sql, next)
		}
		sql = next
	}
	return sql
}

var (
	commentRules = []Rule{
		TransformRule("line comment", stripLineComments),
	}

	whitespaceRules = []Rule{
		ReplaceRule("whitespace", `\s+`, " "),
		TransformRule("trim", strings.TrimSpace),
	}

	// 修复动态SQL条件留下的残缺: WHERE AND / WHERE OR / 多余逗号
	repairRules = []Rule{
		ReplaceRule("where and/or", `(?i)\b(where)(?:\s+(?:and|or)\b)+\s*`, "${1} "),
		ReplaceRule("comma before where", `(?i)(?:\s*,)+\s*\b(where)\b`, " ${1}"),
		ReplaceRule("trailing comma", `(?:\s*,)+\s*$`, ""),
		TransformRule("trim", strings.TrimSpace),
	}
)

// 字符串字面量原样保留，字面量之外的 -- 到行尾是注释
var lineComment = regexp.MustCompile(`'(?:[^']|'')*'|--[^\n]*`)

func stripLineComments(sql string) string {
	return lineComment.ReplaceAllStringFunc(sql, func(match string) string {
		if strings.HasPrefix(match, "--") {
			return " "
		}
		return match
	})
}

func pipeline(groups ...[]Rule) (rules []Rule) {
	for _, group := range groups {
		rules = append(rules, group...)
	}
	return
}
