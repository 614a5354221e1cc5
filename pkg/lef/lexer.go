package lef

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// LEFLexer defines the lexical structure for LEF geometry libraries.
// LEF is a keyword-oriented format: statements are whitespace-delimited
// tokens terminated by a semicolon, grouped into sections that are opened
// by a keyword and closed by an END line.
var LEFLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Comments - LEF style (# to end of line)
	{Name: "Comment", Pattern: `#[^\n]*`},

	// Whitespace
	{Name: "Whitespace", Pattern: `[ \t\n\r]+`},

	// Quoted strings (property values)
	{Name: "String", Pattern: `"[^"]*"`},

	// Numbers (LEF dimensions are decimal microns)
	{Name: "Number", Pattern: `[-+]?[0-9]+(?:\.[0-9]+)?`},

	// Statement terminator
	{Name: "Semi", Pattern: `;`},

	// Identifiers: macro, pin and layer names. LEF names may carry
	// bus brackets, angle brackets, dots, slashes and global markers.
	{Name: "Ident", Pattern: `[A-Za-z_$][A-Za-z0-9_$.<>/!\-\[\]]*`},
})
