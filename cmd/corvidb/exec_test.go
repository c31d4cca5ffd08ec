package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExecCommandEndToEnd(t *testing.T) {
	dir := t.TempDir()

	run := func(statement string) string {
		root := newRootCommand()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs([]string{
			"--dir", dir,
			"--block-size", "400",
			"exec", statement,
		})
		require.NoError(t, root.Execute())
		return out.String()
	}

	run("create table student (sid int, sname varchar(10), gradyear int)")
	run("insert into student (sid, sname, gradyear) values (1, 'amy', 2020)")
	out := run("select sname from student where sid = 1")

	require.True(t, strings.Contains(out, "sname"))
	require.True(t, strings.Contains(out, "amy"))
}
