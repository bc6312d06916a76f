package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userMapper = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE mapper PUBLIC "-//mybatis.org//DTD Mapper 3.0//EN" "http://mybatis.org/dtd/mybatis-3-mapper.dtd">
<mapper namespace="com.example.UserMapper">
  <select id="countUsers">select count(*) from users</select>
  <select id="findUser">
    select <include refid="columns"/> from users
    <where><if test="id != null">and id = #{id}</if></where>
  </select>
  <sql id="columns">id, name</sql>
</mapper>
`
	brokenMapper = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE mapper PUBLIC "-//mybatis.org//DTD Mapper 3.0//EN" "http://mybatis.org/dtd/mybatis-3-mapper.dtd">
<mapper namespace="com.example.Broken">
  <delete id="purge">delete from logs</delete>
  <select id="cut">select 1
`
	accountSqlMap = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE sqlMap PUBLIC "-//ibatis.apache.org//DTD SQL Map 2.0//EN" "http://ibatis.apache.org/dtd/sql-map-2.dtd">
<sqlMap namespace="Account">
  <select id="getAccount">select * from account <dynamic prepend="where"><isNotNull prepend="and" property="id">id = #id#</isNotNull></dynamic></select>
</sqlMap>
`
)

func writeSources(t *testing.T) string {
	t.Helper()
	src := t.TempDir()
	for name, content := range map[string]string{
		"a/UserMapper.xml":     userMapper,
		"b/BrokenMapper.xml":   brokenMapper,
		"c/AccountSqlMap.xml":  accountSqlMap,
		"c/applicationCtx.xml": `<beans/>`,
	} {
		path := filepath.Join(src, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return src
}

func TestRunMyBatis(t *testing.T) {
	src := writeSources(t)
	out := filepath.Join(t.TempDir(), "out")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-m", "-s", src, "-o", out, "-manifest"}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	content, err := os.ReadFile(filepath.Join(out, "result.sql"))
	require.NoError(t, err)
	assert.Equal(t, "-- "+filepath.Join(src, "a", "UserMapper.xml")+"\n"+
		"-- countUsers\n"+
		"select count(*) from users;\n"+
		"-- findUser\n"+
		"select id, name from users where id = :?;\n"+
		"\n"+
		"-- "+filepath.Join(src, "b", "BrokenMapper.xml")+"\n"+
		"-- purge\n"+
		"delete from logs;\n"+
		"\n", string(content))

	assert.FileExists(t, filepath.Join(out, "result.json"))
}

func TestRunIBatisPositional(t *testing.T) {
	src := writeSources(t)
	out := t.TempDir()

	var stdout, stderr bytes.Buffer
	code := run([]string{"ibatis", src, out}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	content, err := os.ReadFile(filepath.Join(out, "result.sql"))
	require.NoError(t, err)
	assert.Equal(t, "-- "+filepath.Join(src, "c", "AccountSqlMap.xml")+"\n"+
		"SELECT * FROM ACCOUNT WHERE ID = :?;\n"+
		"\n", string(content))
	assert.NoFileExists(t, filepath.Join(out, "result.json"))
}

func TestRunUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no arguments", nil},
		{"both modes", []string{"-i", "-m", "-s", "src", "-o", "out"}},
		{"no mode", []string{"-s", "src", "-o", "out"}},
		{"missing source", []string{"-i", "-o", "out"}},
		{"missing output", []string{"-mybatis", "-src", "src"}},
		{"unknown flag", []string{"-x"}},
		{"extra arguments", []string{"-i", "-s", "src", "-o", "out", "more"}},
		{"unknown positional mode", []string{"hibernate", "src", "out"}},
		{"two positional arguments", []string{"ibatis", "src"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, exitUsage, run(tt.args, &stdout, &stderr))
			assert.Contains(t, stderr.String(), "Usage:")
		})
	}
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitOK, run([]string{"-h"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "Usage:")
}

func TestRunOutputFailure(t *testing.T) {
	src := writeSources(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitError, run([]string{"-m", "-s", src, "-o", filepath.Join(blocker, "out")}, &stdout, &stderr))
}
