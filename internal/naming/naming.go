// Package naming derives table, column, model and schema identifiers from
// human-entered entity and field names. Every generator goes through these
// helpers so the same name always maps to the same identifier.
package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold strips combining marks ("Ação" -> "Acao") so identifiers stay ASCII
// for the usual Latin input.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isAlnum(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }

// Snake inserts "_" before every uppercase letter and lowercases it. Runs of
// separators collapse into a single "_" and leading/trailing "_" are dropped.
//
//	Snake("PedidoItem")  == "pedido_item"
//	Snake("order item")  == "order_item"
//	Snake("pedido_item") == "pedido_item"
func Snake(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range fold(s) {
		if !isAlnum(r) {
			pendingSep = true
			continue
		}
		if unicode.IsUpper(r) {
			pendingSep = true
			r = unicode.ToLower(r)
		}
		if pendingSep && b.Len() > 0 {
			b.WriteByte('_')
		}
		pendingSep = false
		b.WriteRune(r)
	}
	return b.String()
}

// words splits on separator runs and case boundaries (lower->Upper, and the
// last capital of an acronym before a lowercase letter: "HTTPServer" -> HTTP, Server).
func words(s string) []string {
	rs := []rune(fold(s))
	var out []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}
	for i, r := range rs {
		if !isAlnum(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(cur) > 0 {
			prev := cur[len(cur)-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return out
}

func title(w string) string {
	rs := []rune(strings.ToLower(w))
	for i, r := range rs {
		if unicode.IsLetter(r) {
			rs[i] = unicode.ToUpper(r)
			break
		}
	}
	return string(rs)
}

func pascalOnce(s string) string {
	var b strings.Builder
	for _, w := range words(s) {
		b.WriteString(title(w))
	}
	return b.String()
}

// Pascal title-cases every word and joins them: "pedido item" -> "PedidoItem".
// Joining can glue a single capital to the next word ("aB1c" -> "AB1c"), so
// the result is split again until it is stable ("Ab1c"). Each pass only
// lowers capitals, which bounds the loop.
func Pascal(s string) string {
	p := pascalOnce(s)
	for i := 0; i <= len(p); i++ {
		next := pascalOnce(p)
		if next == p {
			break
		}
		p = next
	}
	return p
}

// Camel is Pascal with the first character lowercased.
func Camel(s string) string {
	p := Pascal(s)
	if p == "" {
		return p
	}
	rs := []rune(p)
	rs[0] = unicode.ToLower(rs[0])
	return string(rs)
}

// Plural appends "s". Irregular plurals are not handled.
func Plural(s string) string { return s + "s" }

// Table is the storage name every generator uses for an entity.
func Table(entityName string) string { return Plural(Snake(entityName)) }
