// Package syntax defines the concrete syntax tree produced by the parser:
// token classification, node kinds and a bottom-up tree builder.
package syntax

import (
	"github.com/varick/cfront/lex"
)

// Keyword is a C11 keyword.
type Keyword int

const (
	KwAlignof Keyword = iota
	KwAuto
	KwBreak
	KwCase
	KwChar
	KwConst
	KwContinue
	KwDefault
	KwDo
	KwDouble
	KwElse
	KwEnum
	KwExtern
	KwFloat
	KwFor
	KwGoto
	KwIf
	KwInline
	KwInt
	KwLong
	KwRegister
	KwRestrict
	KwReturn
	KwShort
	KwSigned
	KwSizeof
	KwStatic
	KwStruct
	KwSwitch
	KwTypedef
	KwUnion
	KwUnsigned
	KwVoid
	KwVolatile
	KwWhile
	KwAlignas
	KwAtomic
	KwBool
	KwComplex
	KwGeneric
	KwImaginary
	KwNoreturn
	KwStaticAssert
	KwThreadLocal
)

var keywordSpellings = map[string]Keyword{
	"alignof":        KwAlignof,
	"auto":           KwAuto,
	"break":          KwBreak,
	"case":           KwCase,
	"char":           KwChar,
	"const":          KwConst,
	"continue":       KwContinue,
	"default":        KwDefault,
	"do":             KwDo,
	"double":         KwDouble,
	"else":           KwElse,
	"enum":           KwEnum,
	"extern":         KwExtern,
	"float":          KwFloat,
	"for":            KwFor,
	"goto":           KwGoto,
	"if":             KwIf,
	"inline":         KwInline,
	"int":            KwInt,
	"long":           KwLong,
	"register":       KwRegister,
	"restrict":       KwRestrict,
	"return":         KwReturn,
	"short":          KwShort,
	"signed":         KwSigned,
	"sizeof":         KwSizeof,
	"static":         KwStatic,
	"struct":         KwStruct,
	"switch":         KwSwitch,
	"typedef":        KwTypedef,
	"union":          KwUnion,
	"unsigned":       KwUnsigned,
	"void":           KwVoid,
	"volatile":       KwVolatile,
	"while":          KwWhile,
	"_Alignas":       KwAlignas,
	"_Atomic":        KwAtomic,
	"_Bool":          KwBool,
	"_Complex":       KwComplex,
	"_Generic":       KwGeneric,
	"_Imaginary":     KwImaginary,
	"_Noreturn":      KwNoreturn,
	"_Static_assert": KwStaticAssert,
	"_Thread_local":  KwThreadLocal,
}

// KeywordFromIdent maps an identifier spelling to its keyword.
func KeywordFromIdent(spelling string) (Keyword, bool) {
	kw, ok := keywordSpellings[spelling]
	return kw, ok
}

// TokenKind is either a plain preprocessing token kind or a keyword.
type TokenKind struct {
	Plain     lex.TokenKind
	Keyword   Keyword
	IsKeyword bool
}

// PlainKind wraps a non-keyword token kind.
func PlainKind(kind lex.TokenKind) TokenKind {
	return TokenKind{Plain: kind}
}

// KeywordKind returns the kind of a keyword token.
func KeywordKind(kw Keyword) TokenKind {
	return TokenKind{Keyword: kw, IsKeyword: true}
}

// ClassifyToken converts a lexer token into a syntax token, recognizing
// identifiers that spell keywords.
func ClassifyToken(ctx *lex.Context, tok lex.Token) Token {
	kind := PlainKind(tok.Kind)
	if tok.Kind.Kind == lex.Ident {
		if kw, ok := KeywordFromIdent(ctx.Interner.Resolve(tok.Kind.Symbol)); ok {
			kind = KeywordKind(kw)
		}
	}
	return Token{Kind: kind, Range: tok.Range}
}

// NodeKind identifies the production a syntax node represents.
type NodeKind int

const (
	TranslationUnit NodeKind = iota

	// External declarations
	FunctionDef
	PlainDecl
	StaticAssertDecl

	InitDeclarator

	// Specifiers
	StorageSpecifier

	PlainTypeSpecifier
	AtomicTypeSpecifier
	StructSpecifier
	UnionSpecifier
	EnumSpecifier
	TypedefName

	TypeQualifier
	FunctionSpecifier
	AlignmentSpecifier

	SpecifierQualifierList
	TypeQualifierList

	// Struct and union contents
	StructDeclList
	StructFieldDecl
	BitfieldDeclarator

	// Enum contents
	EnumeratorList
	Enumerator

	// Declarators
	IdentDeclarator
	ParenDeclarator
	ArrayDeclarator
	FunctionDeclarator

	ParamList

	// Initializers
	StructInitList
	DesignatorList
	FieldDesignator
	ArrayDesignator

	// Statements
	LabeledStmt
	CaseStmt
	DefaultCaseStmt

	BlockStmt
	ExprStmt

	IfStmt
	SwitchStmt

	WhileStmt
	DoWhileStmt
	ForStmt

	GotoStmt
	ContinueStmt
	BreakStmt
	ReturnStmt

	// Expressions
	IdentExpr
	NumberLiteralExpr
	CharLiteralExpr
	StrLiteralExpr
	ParenExpr

	IndexExpr
	CallExpr
	MemberExpr
	DerefMemberExpr
	PostIncrExpr
	CompoundLiteralExpr

	PreIncrExpr
	UnaryExpr
	SizeofValExpr
	SizeofTypeExpr
	AlignofExpr

	CastExpr
	BinExpr
	ConditionalExpr
	AssignmentExpr

	ArgList
)
