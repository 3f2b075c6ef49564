package asm

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// source is a parsed assembly file.
type source struct {
	Lines []*line `@@*`
}

// line is a single source line, every part is optional.
type line struct {
	Pos lexer.Position

	Label     *string    `( @Ident ":" )?`
	Statement *statement `@@?`
	End       string     `@EOL`
}

// statement is an instruction or a directive with its operands.
type statement struct {
	Pos lexer.Position

	Mnemonic string     `@Ident`
	Operands []*operand `( @@ ( "," @@ )* )?`
}

// operand is a number, a name (register, special register or label) or
// the indirect index operand [I].
type operand struct {
	Pos lexer.Position

	Indirect bool    `  @"[" ( "I" | "i" ) "]"`
	Number   *string `| @Number`
	Name     *string `| @Ident`
}

var asmLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `;[^\n]*`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "EOL", Pattern: `\n`},
	{Name: "Number", Pattern: `\$[0-9a-fA-F]+|0[xX][0-9a-fA-F]+|%[01]+|[0-9]+`},
	{Name: "Ident", Pattern: `[a-zA-Z_.][a-zA-Z0-9_.]*`},
	{Name: "Punct", Pattern: `[,:\[\]]`},
})

var parser = participle.MustBuild[source](
	participle.Lexer(asmLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)
