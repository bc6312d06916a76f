package parser

import (
	"errors"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nullLogger() log.FieldLogger {
	logger, _ := test.NewNullLogger()
	return logger
}

func newTestResolver(namespace string, fragments map[string]string) *Resolver {
	logger, _ := test.NewNullLogger()
	return NewResolver("mapper.xml", namespace, fragments, logger)
}

func TestResolveWithoutMarkers(t *testing.T) {
	resolver := newTestResolver("", map[string]string{"cols": "a, b"})
	for _, raw := range []string{"", "select 1", "\n  select *\n  from t where a = #{a}\n"} {
		stmt := &Statement{Id: "s", Raw: raw}
		resolver.Resolve(stmt)
		assert.Equal(t, raw, stmt.Resolved)
	}
	assert.Empty(t, resolver.Diagnostics())
}

func TestResolveTransitive(t *testing.T) {
	resolver := newTestResolver("", map[string]string{
		"cols":  "a, " + ReferenceMarker("extra"),
		"extra": "b",
	})
	stmt := &Statement{Id: "s", Raw: "select " + ReferenceMarker("cols") + " from t"}
	resolver.Resolve(stmt)

	assert.Equal(t, "select a, b from t", Normalize(stmt.Resolved, whitespaceRules, nullLogger()))
	assert.NotContains(t, stmt.Resolved, markerOpen)
	assert.Empty(t, resolver.Diagnostics())
}

func TestResolveRepeatedReferenceIsNotACycle(t *testing.T) {
	resolver := newTestResolver("", map[string]string{
		"cond": "x = 1",
		"pair": ReferenceMarker("cond") + " and " + ReferenceMarker("cond"),
	})
	stmt := &Statement{Id: "s", Raw: "where " + ReferenceMarker("pair") + " or " + ReferenceMarker("cond")}
	resolver.Resolve(stmt)

	assert.Equal(t, "where x = 1 and x = 1 or x = 1", Normalize(stmt.Resolved, whitespaceRules, nullLogger()))
	assert.Empty(t, resolver.Diagnostics())
}

func TestResolveSelfReference(t *testing.T) {
	resolver := newTestResolver("", map[string]string{
		"loop": "a " + ReferenceMarker("loop"),
	})
	stmt := &Statement{Id: "s", Raw: ReferenceMarker("loop")}
	resolver.Resolve(stmt)

	assert.Equal(t, "a /* cyclic include: loop */", Normalize(stmt.Resolved, whitespaceRules, nullLogger()))
	require.Len(t, resolver.Diagnostics(), 1)
	assert.True(t, errors.Is(resolver.Diagnostics()[0].Err, ErrCyclicInclude))
}

func TestResolveMutualCycle(t *testing.T) {
	resolver := newTestResolver("", map[string]string{
		"a": "A " + ReferenceMarker("b"),
		"b": "B " + ReferenceMarker("a"),
	})
	first := &Statement{Id: "first", Raw: ReferenceMarker("a")}
	second := &Statement{Id: "second", Raw: ReferenceMarker("b")}
	resolver.Resolve(first)
	resolver.Resolve(second)

	assert.Equal(t, "A B /* cyclic include: a */", Normalize(first.Resolved, whitespaceRules, nullLogger()))
	assert.Equal(t, "B A /* cyclic include: b */", Normalize(second.Resolved, whitespaceRules, nullLogger()))
	require.Len(t, resolver.Diagnostics(), 2)
	assert.Equal(t, "first", resolver.Diagnostics()[0].Statement)
	assert.Equal(t, "second", resolver.Diagnostics()[1].Statement)
}

func TestResolveMissingFragment(t *testing.T) {
	resolver := newTestResolver("", map[string]string{})
	stmt := &Statement{Id: "s", Raw: "select " + ReferenceMarker("gone") + " from t"}
	resolver.Resolve(stmt)

	assert.Equal(t, "select /* unresolved include: gone */ from t", Normalize(stmt.Resolved, whitespaceRules, nullLogger()))
	require.Len(t, resolver.Diagnostics(), 1)
	diagnostic := resolver.Diagnostics()[0]
	assert.True(t, errors.Is(diagnostic.Err, ErrUnresolvedInclude))
	assert.Equal(t, "mapper.xml", diagnostic.File)
	assert.Equal(t, "gone", diagnostic.Fragment)
}

func TestResolveNamespaceQualifiedReference(t *testing.T) {
	resolver := newTestResolver("com.example.Mapper", map[string]string{"cols": "a"})
	stmt := &Statement{Id: "s", Raw: ReferenceMarker("com.example.Mapper.cols")}
	resolver.Resolve(stmt)

	assert.Equal(t, "a", Normalize(stmt.Resolved, whitespaceRules, nullLogger()))
	assert.Empty(t, resolver.Diagnostics())
}

func TestResolveMissingFragmentNameKeepsPlaceholderClosed(t *testing.T) {
	resolver := newTestResolver("", map[string]string{})
	stmt := &Statement{Id: "s", Raw: "select " + ReferenceMarker("a--b*/c") + " from t where x = #{x}"}
	resolver.Resolve(stmt)

	assert.Equal(t, "select /* unresolved include: a- -b* /c */ from t where x = :?",
		Normalize(stmt.Resolved, MyBatisDialect{}.Rules(), nullLogger()))
	require.Len(t, resolver.Diagnostics(), 1)
	assert.Equal(t, "a--b*/c", resolver.Diagnostics()[0].Fragment)
}

func TestSanitizeComment(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain", "plain"},
		{"a*/b", "a* /b"},
		{"a--b", "a- -b"},
		{"a---b", "a- - -b"},
		{"----", "- - - -"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, sanitizeComment(tt.input), tt.input)
	}
}

func TestResolveLogsDiagnostic(t *testing.T) {
	logger, hook := test.NewNullLogger()
	resolver := NewResolver("mapper.xml", "", map[string]string{}, logger)
	resolver.Resolve(&Statement{Id: "s", Raw: ReferenceMarker("gone")})

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, log.WarnLevel, entry.Level)
	assert.Equal(t, resolver.Diagnostics()[0].String(), entry.Message)
	assert.Equal(t, "gone", entry.Data["fragment"])
}
