package parser

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	DialectName_IBatis  = "ibatis"
	DialectName_MyBatis = "mybatis"

	element_Sql       = "sql"
	element_Include   = "include"
	element_SelectKey = "selectkey"

	attr_Id        = "id"
	attr_RefId     = "refid"
	attr_Namespace = "namespace"
)

// 方言的能力集合，结构解析驱动对所有方言共用
type Dialect interface {
	Name() string
	// 用方言特征匹配文件内容
	Match(content []byte) bool
	// 元素名(小写)是否为语句元素
	StatementKind(element string) (StatementKind, bool)
	// 进入语句内的普通元素时注入的文本，以及元素结束时的处理
	OpenElement(element string, attrs []xml.Attr) Injection
	// 规范化规则
	Rules() []Rule
	// 输出时是否在语句前写出id注释
	EmitIds() bool
}

// 元素开始时写入Open；结束时先去掉元素体首尾匹配的覆盖词，再写入Close
type Injection struct {
	Open            string
	Close           string
	PrefixOverrides []string
	SuffixOverrides []string
}

func Dialects() []Dialect {
	return []Dialect{IBatisDialect{}, MyBatisDialect{}}
}

func DialectByName(name string) (dialect Dialect, err error) {
	for _, d := range Dialects() {
		if strings.EqualFold(d.Name(), name) {
			dialect = d
			return
		}
	}
	err = fmt.Errorf("%w,name=[%v]", ErrUnknownDialect, name)
	return
}

// 读取整个文件并用方言特征匹配，读取失败视为不匹配
func DetectMatch(dialect Dialect, path string, logger log.FieldLogger) bool {
	content, err := os.ReadFile(path)
	if err != nil {
		logger.WithField("file", path).Debugf("skip unreadable file,err=[%v]", err)
		return false
	}
	return dialect.Match(content)
}

func attrValue(attrs []xml.Attr, name string) (string, bool) {
	for _, attr := range attrs {
		if strings.EqualFold(attr.Name.Local, name) {
			return attr.Value, true
		}
	}
	return "", false
}

func padded(text string) string {
	if text == "" {
		return ""
	}
	return " " + text + " "
}

// "AND |OR " -> ["AND", "OR"]
func overrideTokens(value string) (tokens []string) {
	for _, token := range strings.Split(value, "|") {
		if token = strings.TrimSpace(token); token != "" {
			tokens = append(tokens, token)
		}
	}
	return
}
