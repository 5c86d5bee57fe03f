package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logref/internal/diag"
	"logref/internal/scanner"
	"logref/internal/source"
	"logref/internal/testkit"
)

var testMacros = scanner.NewMacroSet([]scanner.Macro{
	{Module: "test_module", Name: "test_macro"},
	{Module: "test_module::test_inner", Name: "test_macro3"},
	{Module: "log", Name: "info"},
	{Name: "bare"},
})

func scan(t *testing.T, src string) ([]scanner.Candidate, *diag.Bag, bool) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.rs", []byte(src)))
	bag := diag.NewBag(0)
	cands, ok := scanner.Collect(file, testMacros, scanner.Options{Reporter: diag.BagReporter{Bag: bag}})
	require.NoError(t, testkit.CheckCandidateInvariants(file, cands))
	return cands, bag, ok
}

func TestScanner_SimpleInvocation(t *testing.T) {
	cands, bag, ok := scan(t, `test_macro!("Test string.");`)
	require.True(t, ok)
	require.Len(t, cands, 1)
	assert.Equal(t, 0, bag.Len())

	c := cands[0]
	assert.Equal(t, []string{"test_macro"}, c.Path)
	assert.Equal(t, "Test string.", c.Format.Value)
	assert.Equal(t, uint32(13), c.Format.Content.Start)
	assert.Equal(t, source.LineCol{Line: 1, Col: 14}, c.Pos)
	assert.Equal(t, uint32(0), c.Span.Start)
	assert.Equal(t, uint32(27), c.Span.End, "span ends at the closing paren")
	assert.Nil(t, c.Target)
	assert.Nil(t, c.KVBlock)
}

func TestScanner_EscapedQuotes(t *testing.T) {
	cands, _, ok := scan(t, `test_macro!("Say \"hi\" [ref: 3]"); test_macro!("second");`)
	require.True(t, ok)
	require.Len(t, cands, 2)
	assert.Equal(t, `Say "hi" [ref: 3]`, cands[0].Format.Value)
	assert.Equal(t, "second", cands[1].Format.Value)
}

func TestScanner_IgnoresStringsAndComments(t *testing.T) {
	src := `
let s = "test_macro!(\"inside a string\")";
// test_macro!("in a line comment");
/* test_macro!("in a block comment") */
let c = '"'; test_macro!("real");
`
	cands, _, ok := scan(t, src)
	require.True(t, ok)
	require.Len(t, cands, 1)
	assert.Equal(t, "real", cands[0].Format.Value)
	assert.Equal(t, uint32(5), cands[0].Pos.Line)
}

func TestScanner_NotCandidates(t *testing.T) {
	for _, src := range []string{
		`test_macro!();`,
		`test_macro!(1234);`,
		`test_macro("no bang");`,
		`unknown_macro!("not configured");`,
		`other::test_macro!("wrong module");`,
		`test_macro!(x);`,
		`test_macro!(a, "positional first");`,
		`macro_rules! test_macro { () => {} }`,
	} {
		cands, _, ok := scan(t, src)
		assert.True(t, ok, src)
		assert.Empty(t, cands, src)
	}
}

func TestScanner_QualifiedPaths(t *testing.T) {
	src := `test_module::test_macro!("a");
test_module::test_inner::test_macro3!("b");
::log::info!["c"];
log.info!{"d"};
test_inner::test_macro3!("wrong prefix");`
	cands, _, ok := scan(t, src)
	require.True(t, ok)
	require.Len(t, cands, 4)
	assert.Equal(t, "test_module::test_macro", cands[0].Name())
	assert.Equal(t, "test_module::test_inner::test_macro3", cands[1].Name())
	assert.Equal(t, "log::info", cands[2].Name())
	assert.Equal(t, "c", cands[2].Format.Value)
	assert.Equal(t, "d", cands[3].Format.Value)
}

func TestScanner_TargetAndKVs(t *testing.T) {
	src := `info!(target: "net", peer = addr.to_string(), retry:? = (1, 2), flag; "connected {}", x);`
	cands, _, ok := scan(t, src)
	require.True(t, ok)
	require.Len(t, cands, 1)
	c := cands[0]

	require.NotNil(t, c.Target)
	assert.Equal(t, `"net"`, src[c.Target.Start:c.Target.End])

	require.Len(t, c.KVs, 3)
	assert.Equal(t, "peer", c.KVs[0].Key)
	assert.Equal(t, "addr.to_string()", c.KVs[0].ValueText)
	assert.Equal(t, "retry", c.KVs[1].Key)
	assert.Equal(t, "?", c.KVs[1].Modifier)
	assert.Equal(t, "(1, 2)", c.KVs[1].ValueText)
	assert.Equal(t, "flag", c.KVs[2].Key)
	assert.Nil(t, c.KVs[2].Value)

	require.NotNil(t, c.KVBlock)
	assert.Equal(t, "peer = addr.to_string(), retry:? = (1, 2), flag;", src[c.KVBlock.Start:c.KVBlock.End])
	assert.Equal(t, "connected {}", c.Format.Value)

	kv, found := c.KV("peer")
	assert.True(t, found)
	assert.Equal(t, "peer", kv.Key)
}

func TestScanner_TrailingCommaInKVBlock(t *testing.T) {
	cands, _, ok := scan(t, `bare!(ref = 7,; "x");`)
	require.True(t, ok)
	require.Len(t, cands, 1)
	require.Len(t, cands[0].KVs, 1)
	assert.Equal(t, "7", cands[0].KVs[0].ValueText)
}

func TestScanner_RawStringAndMultiline(t *testing.T) {
	src := "bare!(r#\"raw \"quoted\" text\"#);\nbare!(\n    \"line one \\\n     continued\"\n);"
	cands, _, ok := scan(t, src)
	require.True(t, ok)
	require.Len(t, cands, 2)
	assert.True(t, cands[0].Format.Raw)
	assert.Equal(t, `raw "quoted" text`, cands[0].Format.Value)
	assert.Equal(t, "line one continued", cands[1].Format.Value)
	assert.Equal(t, source.LineCol{Line: 3, Col: 6}, cands[1].Pos)
}

func TestScanner_NestedInvocations(t *testing.T) {
	cands, _, ok := scan(t, `format!("{}", bare!("inner")); vec![bare!("x")];`)
	require.True(t, ok)
	require.Len(t, cands, 2)
	assert.Equal(t, "inner", cands[0].Format.Value)
	assert.Equal(t, "x", cands[1].Format.Value)
}

func TestScanner_UnicodeColumns(t *testing.T) {
	cands, _, ok := scan(t, `let ж = 1; bare!("ünïcode");`)
	require.True(t, ok)
	require.Len(t, cands, 1)
	assert.Equal(t, uint32(19), cands[0].Pos.Col)
	assert.Equal(t, "ünïcode", cands[0].Format.Value)
}

func TestScanner_ParseFaults(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
		seen int
	}{
		{"unterminated string", "bare!(\"ok\");\nbare!(\"never closed);", diag.ScanUnterminatedString, 1},
		{"unterminated kv block", "bare!(\"ok\");\nbare!(a = 1, b", diag.ScanUnterminatedKVBlock, 1},
		{"unterminated kv value", "bare!(a = foo(1, ", diag.ScanUnterminatedKVBlock, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cands, bag, ok := scan(t, tt.src)
			assert.False(t, ok)
			assert.Len(t, cands, tt.seen)
			require.Equal(t, 1, bag.Len())
			assert.Equal(t, tt.code, bag.Items()[0].Code)
			assert.Equal(t, diag.SevWarning, bag.Items()[0].Severity)
		})
	}
}

func TestScanner_UnterminatedCommentIsNotFatal(t *testing.T) {
	cands, bag, ok := scan(t, `bare!("a"); /* open`)
	assert.True(t, ok)
	assert.Len(t, cands, 1)
	assert.True(t, bag.HasCode(diag.ScanUnterminatedBlockComment))
}

func TestScanner_ResetRestarts(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("r.rs", []byte(`bare!("a"); bare!("b");`)))
	s := scanner.New(file, testMacros, scanner.Options{})

	first, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, "a", first.Format.Value)

	s.Reset()
	again, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, first, again)

	second, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, "b", second.Format.Value)
	_, ok = s.Next()
	assert.False(t, ok)
}

func TestMacroSet_Match(t *testing.T) {
	assert.True(t, testMacros.Match([]string{"test_macro"}))
	assert.True(t, testMacros.Match([]string{"test_module", "test_macro"}))
	assert.False(t, testMacros.Match([]string{"x", "test_macro"}))
	assert.False(t, testMacros.Match([]string{"bare", "x"}))
	assert.False(t, testMacros.Match(nil))
	assert.Equal(t, []string{"a", "b"}, scanner.SplitPath("::a.b"))
	assert.Nil(t, scanner.SplitPath(""))
	assert.Equal(t, "log::info", scanner.Macro{Module: "log", Name: "info"}.String())
}
