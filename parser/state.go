package parser

import (
	"strings"
	"unicode"
)

type captureMode int

const (
	captureMode_None      captureMode = 0
	captureMode_Statement captureMode = 1
	captureMode_Fragment  captureMode = 2
)

// 单个文件的解析状态，只属于该文件的一次解析过程
type ParseState struct {
	Namespace string
	// 片段名称 -> 原始文本，同名时后者覆盖前者
	Fragments map[string]string
	// 按文档顺序抽取的语句
	Statements []*Statement

	currentId   string
	currentKind StatementKind
	mode        captureMode
	buffer      strings.Builder

	// 当前元素深度，以及开始捕获时所在的深度
	depth        int
	captureDepth int
	// 大于0时表示处于被排除的子元素(selectKey)之内
	skipDepth int
	// 每个已打开元素结束时的处理
	elements []openElement
}

type openElement struct {
	injection Injection
	// Open以及元素体在buffer中的起始位置
	openStart int
	bodyStart int
}

func NewParseState() *ParseState {
	return &ParseState{Fragments: map[string]string{}}
}

func (s *ParseState) capturing() bool {
	return s.mode != captureMode_None
}

func (s *ParseState) skipping() bool {
	return s.skipDepth > 0
}

func (s *ParseState) write(text string) {
	if !s.capturing() || s.skipping() || text == "" {
		return
	}
	s.buffer.WriteString(text)
}

func (s *ParseState) beginStatement(id string, kind StatementKind) {
	s.mode = captureMode_Statement
	s.captureDepth = s.depth
	s.currentId = id
	s.currentKind = kind
	s.buffer.Reset()
}

func (s *ParseState) beginFragment(name string) {
	s.mode = captureMode_Fragment
	s.captureDepth = s.depth
	s.currentId = name
	s.buffer.Reset()
}

// 结束当前捕获，返回被覆盖的片段名称(如果有)
func (s *ParseState) finish() (overwritten string) {
	switch s.mode {
	case captureMode_Statement:
		s.Statements = append(s.Statements, &Statement{
			Id:   s.currentId,
			Kind: s.currentKind,
			Raw:  s.buffer.String(),
		})
	case captureMode_Fragment:
		if s.currentId == "" {
			break
		}
		if _, ok := s.Fragments[s.currentId]; ok {
			overwritten = s.currentId
		}
		s.Fragments[s.currentId] = s.buffer.String()
	}
	s.mode = captureMode_None
	s.captureDepth = 0
	s.currentId = ""
	s.currentKind = StatementKind_Generic
	s.buffer.Reset()
	return
}

// 写入Open
func (s *ParseState) openElement(injection Injection) {
	openStart := s.buffer.Len()
	s.write(injection.Open)
	s.elements = append(s.elements, openElement{injection: injection, openStart: openStart, bodyStart: s.buffer.Len()})
}

func (s *ParseState) popElement() (element openElement) {
	if n := len(s.elements); n > 0 {
		element = s.elements[n-1]
		s.elements = s.elements[:n-1]
	}
	return
}

// 元素体为空时连同Open一起丢弃；否则去掉首尾匹配的覆盖词，然后写入Close
func (s *ParseState) closeElement(element openElement) {
	if !s.capturing() || s.skipping() || element.bodyStart > s.buffer.Len() {
		return
	}
	injection := element.injection
	text := s.buffer.String()
	body := text[element.bodyStart:]

	if strings.TrimSpace(body) == "" {
		if injection.Open != "" || injection.Close != "" {
			s.buffer.Reset()
			s.buffer.WriteString(text[:element.openStart])
		}
		return
	}

	if len(injection.PrefixOverrides) > 0 || len(injection.SuffixOverrides) > 0 {
		body = trimPrefixOverride(body, injection.PrefixOverrides)
		body = trimSuffixOverride(body, injection.SuffixOverrides)
		s.buffer.Reset()
		s.buffer.WriteString(text[:element.bodyStart])
		s.buffer.WriteString(body)
	}
	s.write(injection.Close)
}

func trimPrefixOverride(body string, tokens []string) string {
	trimmed := strings.TrimLeftFunc(body, unicode.IsSpace)
	for _, token := range tokens {
		if len(trimmed) < len(token) || !strings.EqualFold(trimmed[:len(token)], token) {
			continue
		}
		rest := trimmed[len(token):]
		if endsWithWord(token) && startsWithWord(rest) {
			continue
		}
		return " " + rest
	}
	return body
}

func trimSuffixOverride(body string, tokens []string) string {
	trimmed := strings.TrimRightFunc(body, unicode.IsSpace)
	for _, token := range tokens {
		if len(trimmed) < len(token) || !strings.EqualFold(trimmed[len(trimmed)-len(token):], token) {
			continue
		}
		rest := trimmed[:len(trimmed)-len(token)]
		if startsWithWord(token) && endsWithWord(rest) {
			continue
		}
		return rest + " "
	}
	return body
}

func isWordByte(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func startsWithWord(text string) bool {
	return text != "" && isWordByte(text[0])
}

func endsWithWord(text string) bool {
	return text != "" && isWordByte(text[len(text)-1])
}
