package dfa

import (
	"fmt"
	"io"

	"github.com/dave/jennifer/jen"

	"github.com/ndwade/xtrms/charclass"
)

// GenerateOptions names the output of Generate.
type GenerateOptions struct {
	Package string // package clause of the generated file
	Func    string // name of the generated match function
	Pattern string // written to the file header when set
}

// Generate writes a Go source file holding the transition table of d and a
// function
//
//	func F(b []byte) int
//
// returning the end offset of the longest match of the pattern anchored at
// the start of b, or -1. The generated code depends only on unicode/utf8.
func Generate(w io.Writer, d *DFA, opts GenerateOptions) error {
	if opts.Package == "" || opts.Func == "" {
		return fmt.Errorf("dfa: generate: package and function names are required")
	}
	var (
		spanType = "span" + opts.Func
		table    = "states" + opts.Func
		accept   = "accept" + opts.Func
		pure     = "pure" + opts.Func
		search   = "search" + opts.Func
		isWord   = "isWord" + opts.Func
	)

	f := jen.NewFile(opts.Package)
	f.HeaderComment("Code generated by xtrms gen. DO NOT EDIT.")
	if opts.Pattern != "" {
		f.HeaderComment(fmt.Sprintf("Pattern: %q", opts.Pattern))
	}

	f.Type().Id(spanType).Struct(
		jen.List(jen.Id("lo"), jen.Id("hi")).Rune(),
		jen.Id("next").Int32(),
	)

	rows := make([]jen.Code, len(d.states))
	acc := make([]jen.Code, len(d.states))
	pur := make([]jen.Code, len(d.states))
	for i, s := range d.states {
		spans := make([]jen.Code, len(s.Arcs))
		for j, a := range s.Arcs {
			spans[j] = jen.Values(jen.Lit(int(a.Lo)), jen.Lit(int(a.Hi)), jen.Lit(int(a.Target)))
		}
		rows[i] = jen.Comment(s.label()).Line().Values(spans...)
		acc[i] = jen.Lit(s.Flags.Has(FlagAccept))
		pur[i] = jen.Lit(s.Flags.Has(FlagPureAccept))
	}
	f.Var().Id(table).Op("=").Index().Index().Id(spanType).Values(rows...)
	f.Var().Id(accept).Op("=").Index().Bool().Values(acc...)
	f.Var().Id(pure).Op("=").Index().Bool().Values(pur...)

	// The walk starts at offset 0 of b, which is the region start, the
	// start of a line and the end of an empty previous match.
	base := charclass.InitStatus(charclass.FlagBOF | charclass.FlagBOL | charclass.FlagMatch)
	wordB := charclass.InitStatus(charclass.FlagWordB) &^ charclass.InitStatus(0)
	wordNB := charclass.InitStatus(charclass.FlagWordNB) &^ charclass.InitStatus(0)

	f.Commentf("%s returns the end offset of the longest match anchored at the start of b, or -1.", opts.Func)
	f.Func().Id(opts.Func).Params(jen.Id("b").Index().Byte()).Int().Block(
		jen.Id("r").Op(":=").Rune().Call(jen.Lit(int(base))),
		jen.If(jen.Len(jen.Id("b")).Op(">").Lit(0).Op("&&").Id(isWord).Call(jen.Id("b").Index(jen.Lit(0)))).Block(
			jen.Id("r").Op("|=").Lit(int(wordB)),
		).Else().Block(
			jen.Id("r").Op("|=").Lit(int(wordNB)),
		),
		jen.List(jen.Id("state"), jen.Id("end"), jen.Id("at"), jen.Id("w")).Op(":=").List(
			jen.Int32().Call(jen.Lit(0)), jen.Lit(-1), jen.Lit(0), jen.Lit(0)),
		jen.For().Block(
			jen.Id("next").Op(":=").Id(search).Call(jen.Id(table).Index(jen.Id("state")), jen.Id("r")),
			jen.If(jen.Id("next").Op("<").Lit(0)).Block(jen.Return(jen.Id("end"))),
			jen.If(jen.Id(accept).Index(jen.Id("next"))).Block(
				jen.Id("end").Op("=").Id("at"),
			),
			jen.If(jen.Id(pure).Index(jen.Id("next"))).Block(jen.Return(jen.Id("end"))),
			jen.Id("state").Op("=").Id("next"),
			jen.Id("at").Op("+=").Id("w"),
			jen.If(jen.Id("at").Op(">=").Len(jen.Id("b"))).Block(
				jen.List(jen.Id("r"), jen.Id("w")).Op("=").List(jen.Lit(-1), jen.Lit(0)),
			).Else().Block(
				jen.List(jen.Id("r"), jen.Id("w")).Op("=").Qual("unicode/utf8", "DecodeRune").Call(jen.Id("b").Index(jen.Id("at").Op(":"))),
			),
		),
	)

	f.Func().Id(search).Params(jen.Id("spans").Index().Id(spanType), jen.Id("r").Rune()).Int32().Block(
		jen.List(jen.Id("lo"), jen.Id("hi")).Op(":=").List(jen.Lit(0), jen.Len(jen.Id("spans"))),
		jen.For(jen.Id("lo").Op("<").Id("hi")).Block(
			jen.Id("m").Op(":=").Int().Call(jen.Uint().Call(jen.Id("lo").Op("+").Id("hi")).Op(">>").Lit(1)),
			jen.Switch().Block(
				jen.Case(jen.Id("r").Op("<").Id("spans").Index(jen.Id("m")).Dot("lo")).Block(
					jen.Id("hi").Op("=").Id("m"),
				),
				jen.Case(jen.Id("r").Op(">").Id("spans").Index(jen.Id("m")).Dot("hi")).Block(
					jen.Id("lo").Op("=").Id("m").Op("+").Lit(1),
				),
				jen.Default().Block(
					jen.Return(jen.Id("spans").Index(jen.Id("m")).Dot("next")),
				),
			),
		),
		jen.Return(jen.Lit(-1)),
	)

	f.Func().Id(isWord).Params(jen.Id("c").Byte()).Bool().Block(
		jen.Return(
			jen.Id("c").Op(">=").LitRune('0').Op("&&").Id("c").Op("<=").LitRune('9').Op("||").
				Id("c").Op(">=").LitRune('A').Op("&&").Id("c").Op("<=").LitRune('Z').Op("||").
				Id("c").Op(">=").LitRune('a').Op("&&").Id("c").Op("<=").LitRune('z').Op("||").
				Id("c").Op("==").LitRune('_'),
		),
	)

	return f.Render(w)
}
