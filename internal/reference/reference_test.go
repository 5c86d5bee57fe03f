package reference_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logref/internal/diag"
	"logref/internal/fix"
	"logref/internal/reference"
	"logref/internal/scanner"
	"logref/internal/source"
)

var macros = scanner.NewMacroSet([]scanner.Macro{{Name: "info"}, {Name: "warn"}})

func candidate(t *testing.T, src string) scanner.Candidate {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.rs", []byte(src)))
	cands, ok := scanner.Collect(file, macros, scanner.Options{})
	require.True(t, ok)
	require.Len(t, cands, 1)
	return cands[0]
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in   string
		want reference.ID
		ok   bool
	}{
		{"1", 1, true},
		{"0042", 42, true},
		{"4294967295", reference.MaxID, true},
		{"4294967296", 0, false},
		{"0", 0, false},
		{"", 0, false},
		{"12345678901", 0, false},
		{"12a", 0, false},
		{"-3", 0, false},
	}
	for _, tt := range tests {
		got, ok := reference.ParseID(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestClassify_Message(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		status reference.Status
		id     reference.ID
	}{
		{"missing", `info!("Unready");`, reference.Missing, 0},
		{"present", `info!("[ref: 12] Ready");`, reference.Present, 12},
		{"present without space", `info!("[ref: 5]Ready");`, reference.Present, 5},
		{"not at start", `info!("Ready [ref: 5]");`, reference.Missing, 0},
		{"no space after colon", `info!("[ref:5] Ready");`, reference.Missing, 0},
		{"zero", `info!("[ref: 0] Ready");`, reference.Missing, 0},
		{"too large", `info!("[ref: 9999999999] Ready");`, reference.Missing, 0},
		{"raw string", `info!(r#"[ref: 3] "quoted""#);`, reference.Present, 3},
		{"kv ignored in message mode", `info!(ref = 4; "x");`, reference.Missing, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := candidate(t, tt.src)
			ext := reference.Classify(&c, false, nil)
			assert.Equal(t, tt.status, ext.Status)
			assert.Equal(t, tt.id, ext.ID)
			assert.Equal(t, reference.InMessage, ext.Placement)
		})
	}
}

func TestClassify_OutOfRangeWarns(t *testing.T) {
	c := candidate(t, `info!("[ref: 0] Ready");`)
	bag := diag.NewBag(0)
	reference.Classify(&c, false, diag.BagReporter{Bag: bag})
	assert.True(t, bag.HasCode(diag.RefOutOfRange))
}

func TestClassify_Structured(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		status reference.Status
		id     reference.ID
		code   diag.Code
	}{
		{"present", `warn!(ref = 7; "Retrying");`, reference.Present, 7, diag.UnknownCode},
		{"among others", `warn!(peer = p, ref = 8,; "Retrying");`, reference.Present, 8, diag.UnknownCode},
		{"missing", `warn!(peer = p; "Retrying");`, reference.Missing, 0, diag.UnknownCode},
		{"missing no block", `warn!("Retrying");`, reference.Missing, 0, diag.UnknownCode},
		{"non-numeric", `warn!(ref = id; "Retrying");`, reference.Unpatchable, 0, diag.RefMalformedKey},
		{"bare capture", `warn!(ref; "Retrying");`, reference.Unpatchable, 0, diag.RefMalformedKey},
		{"duplicate key", `warn!(ref = 1, ref = 2; "x");`, reference.Present, 1, diag.RefMultipleKeys},
		{"dual placement", `warn!(ref = 9; "[ref: 3] x");`, reference.Present, 9, diag.RefDualPlacement},
		{"text marker only", `warn!("[ref: 3] x");`, reference.Missing, 0, diag.RefDualPlacement},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := candidate(t, tt.src)
			bag := diag.NewBag(0)
			ext := reference.Classify(&c, true, diag.BagReporter{Bag: bag})
			assert.Equal(t, tt.status, ext.Status)
			assert.Equal(t, tt.id, ext.ID)
			assert.Equal(t, reference.InKV, ext.Placement)
			if tt.code == diag.UnknownCode {
				assert.Zero(t, bag.Len())
			} else {
				assert.True(t, bag.HasCode(tt.code), "expected %v", tt.code)
			}
		})
	}
}

func TestClassify_Directives(t *testing.T) {
	c := candidate(t, `warn!("[ref: 3] x");`)
	c.NoKVP = true
	ext := reference.Classify(&c, true, nil)
	assert.Equal(t, reference.Present, ext.Status)
	assert.Equal(t, reference.InMessage, ext.Placement)

	c.Ignored = true
	assert.Equal(t, reference.Ignored, reference.Classify(&c, true, nil).Status)
}

func TestInsertion(t *testing.T) {
	tests := []struct {
		name string
		src  string
		p    reference.Placement
		want string
	}{
		{"message", `info!("Unready");`, reference.InMessage, `info!("[ref: 1] Unready");`},
		{"raw message", `info!(r#"x"#);`, reference.InMessage, `info!(r#"[ref: 1] x"#);`},
		{"kv before entries", `info!(target: "t", a = 1; "x");`, reference.InKV, `info!(target: "t", ref = 1, a = 1; "x");`},
		{"kv no block", `info!(target: "t", "x");`, reference.InKV, `info!(target: "t", ref = 1; "x");`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := candidate(t, tt.src)
			off, text := reference.Insertion(&c, tt.p, 1)
			got := tt.src[:off] + text + tt.src[off:]
			assert.Equal(t, tt.want, got)

			// the patched statement must classify as present
			patched := candidate(t, got)
			ext := reference.Classify(&patched, tt.p == reference.InKV, nil)
			assert.Equal(t, reference.Present, ext.Status)
			assert.Equal(t, reference.ID(1), ext.ID)
		})
	}
}

func TestEditRewritesExistingIdentifier(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		structured bool
		demote     bool
		want       string
	}{
		{"duplicate marker", `info!("[ref: 7] Ready");`, false, true, `info!("[ref: 30] Ready");`},
		{"out of range marker", `info!("[ref: 0] Ready");`, false, false, `info!("[ref: 30] Ready");`},
		{"duplicate kv", `info!(a = 1, ref = 7; "Ready");`, true, true, `info!(a = 1, ref = 30; "Ready");`},
		{"missing message", `info!("Ready");`, false, false, `info!("[ref: 30] Ready");`},
		{"missing kv", `info!("Ready");`, true, false, `info!(ref = 30; "Ready");`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := candidate(t, tt.src)
			ext := reference.Classify(&c, tt.structured, nil)
			if tt.demote {
				require.Equal(t, reference.Present, ext.Status)
				ext = ext.Demote()
			}
			require.Equal(t, reference.Missing, ext.Status)

			edit := reference.Edit(&c, ext, 30)
			got, err := fix.Apply([]byte(tt.src), []fix.Edit{edit})
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarker(t *testing.T) {
	assert.Equal(t, "[ref: 4294967295]", reference.MaxID.Marker())
	digits, ok := reference.FindMarker("[ref: 77] rest")
	assert.True(t, ok)
	assert.Equal(t, "77", digits)
}

func TestSweep(t *testing.T) {
	src := []byte("info!(\"[ref: 3] a\");\nwarn!(ref = 12, x = 1; \"b\");\nlet pref = 5;\n/* [ref: 0] */ info!(\"[ref: 44] unterminated")
	got := reference.Sweep(src)
	require.Len(t, got, 3)
	assert.Equal(t, reference.Mention{ID: 3, Offset: 13}, got[0])
	assert.Equal(t, reference.ID(12), got[1].ID)
	assert.Equal(t, "12", string(src[got[1].Offset:got[1].Offset+2]))
	assert.Equal(t, reference.ID(44), got[2].ID)
	assert.Equal(t, "44", string(src[got[2].Offset:got[2].Offset+2]))
}
