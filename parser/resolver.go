package parser

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// XML文本中不允许出现NUL，标记不会和合法SQL冲突
const (
	markerOpen  = "\x00include:"
	markerClose = "\x00"
)

// 在捕获文本中代替<include>的标记
func ReferenceMarker(name string) string {
	return markerOpen + name + markerClose
}

func unresolvedPlaceholder(name string) string {
	return fmt.Sprintf("/* unresolved include: %v */", sanitizeComment(name))
}

func cyclicPlaceholder(name string) string {
	return fmt.Sprintf("/* cyclic include: %v */", sanitizeComment(name))
}

// 名称里的 */ 和 -- 会截断占位注释
func sanitizeComment(text string) string {
	text = strings.ReplaceAll(text, "*/", "* /")
	for strings.Contains(text, "--") {
		text = strings.ReplaceAll(text, "--", "- -")
	}
	return text
}

// 在整个文件结构解析完成之后展开片段引用，所以可以引用后定义的片段
type Resolver struct {
	file        string
	namespace   string
	fragments   map[string]string
	logger      log.FieldLogger
	diagnostics []Diagnostic
}

func NewResolver(file, namespace string, fragments map[string]string, logger log.FieldLogger) *Resolver {
	return &Resolver{
		file:      file,
		namespace: namespace,
		fragments: fragments,
		logger:    logger.WithField("file", file),
	}
}

func (r *Resolver) Resolve(stmt *Statement) {
	stmt.Resolved = r.expand(stmt.Raw, stmt.Id, map[string]bool{})
}

func (r *Resolver) Diagnostics() []Diagnostic {
	return r.diagnostics
}

// chain记录当前替换链上正在展开的片段
func (r *Resolver) expand(text, statementId string, chain map[string]bool) string {
	if !strings.Contains(text, markerOpen) {
		return text
	}

	var sb strings.Builder
	for {
		before, rest, found := strings.Cut(text, markerOpen)
		sb.WriteString(before)
		if !found {
			break
		}
		name, after, closed := strings.Cut(rest, markerClose)
		if !closed {
			sb.WriteString(rest)
			break
		}
		sb.WriteString(" ")
		sb.WriteString(r.substitute(name, statementId, chain))
		sb.WriteString(" ")
		text = after
	}
	return sb.String()
}

func (r *Resolver) substitute(name, statementId string, chain map[string]bool) string {
	key, text, ok := r.lookup(name)
	if !ok {
		r.report(statementId, name, ErrUnresolvedInclude)
		return unresolvedPlaceholder(name)
	}
	if chain[key] {
		r.report(statementId, name, ErrCyclicInclude)
		return cyclicPlaceholder(name)
	}

	chain[key] = true
	defer delete(chain, key)
	return r.expand(text, statementId, chain)
}

// refid可以带上本文件的namespace前缀
func (r *Resolver) lookup(name string) (key, text string, ok bool) {
	if text, ok = r.fragments[name]; ok {
		key = name
		return
	}
	if r.namespace != "" {
		if local, trimmed := strings.CutPrefix(name, r.namespace+"."); trimmed {
			if text, ok = r.fragments[local]; ok {
				key = local
			}
		}
	}
	return
}

func (r *Resolver) report(statementId, fragment string, cause error) {
	diagnostic := Diagnostic{
		File:      r.file,
		Statement: statementId,
		Fragment:  fragment,
		Err:       cause,
	}
	r.logger.WithFields(log.Fields{
		"statement": statementId,
		"fragment":  fragment,
	}).Warn(diagnostic.String())
	r.diagnostics = append(r.diagnostics, diagnostic)
}
