package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token (e.g. an unterminated literal).
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier, including raw identifiers (r#type).
	Ident
	// Lifetime represents a lifetime or loop label ('a).
	Lifetime
	// Number represents any numeric literal; it is never interpreted.
	Number
	// StringLit represents "..." with optional b/c prefix.
	StringLit
	// RawStringLit represents r"..." and r#"..."# with optional b/c prefix.
	RawStringLit
	// CharLit represents a character or byte literal ('x', b'\n').
	CharLit

	ColonColon // ::
	Colon      // :
	Comma      // ,
	Semicolon  // ;
	Dot        // .
	Bang       // !
	Assign     // =
	Pound      // #
	LParen     // (
	RParen     // )
	LBracket   // [
	RBracket   // ]
	LBrace     // {
	RBrace     // }
	// Other is any punctuation the scanner has no production for (+, ->, ==, ...).
	Other
)

var kindNames = [...]string{
	Invalid:      "Invalid",
	EOF:          "EOF",
	Ident:        "Ident",
	Lifetime:     "Lifetime",
	Number:       "Number",
	StringLit:    "StringLit",
	RawStringLit: "RawStringLit",
	CharLit:      "CharLit",
	ColonColon:   "ColonColon",
	Colon:        "Colon",
	Comma:        "Comma",
	Semicolon:    "Semicolon",
	Dot:          "Dot",
	Bang:         "Bang",
	Assign:       "Assign",
	Pound:        "Pound",
	LParen:       "LParen",
	RParen:       "RParen",
	LBracket:     "LBracket",
	RBracket:     "RBracket",
	LBrace:       "LBrace",
	RBrace:       "RBrace",
	Other:        "Other",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Closing returns the matching closing delimiter for an opening one.
func (k Kind) Closing() (Kind, bool) {
	switch k {
	case LParen:
		return RParen, true
	case LBracket:
		return RBracket, true
	case LBrace:
		return RBrace, true
	default:
		return Invalid, false
	}
}

// IsClosing reports whether k closes a delimited group.
func (k Kind) IsClosing() bool {
	return k == RParen || k == RBracket || k == RBrace
}
