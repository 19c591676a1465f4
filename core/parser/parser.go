// Package parser turns a line typed at the prompt into a pipeline of commands.
//
// The grammar is deliberately small:
//
//	line   ::= stage ('|' stage)* ['&'] ['?']
//	stage  ::= word (word | redir)*
//	redir  ::= ('<' | '>' | '>>') word
//
// Parsing never fails, malformed input degrades to the closest reading.
package parser

import (
	"fmt"
	"io"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Whitespace is trimmed from both ends of a line.
const Whitespace = " \t\r\n"

// Redirect indexes Command.Redirects.
type Redirect int

const (
	// RedirectInput reads standard input from a file: "< FILE".
	RedirectInput Redirect = iota
	// RedirectOutput truncates a file and writes standard output to it: "> FILE".
	RedirectOutput
	// RedirectAppend appends standard output to a file: ">> FILE".
	RedirectAppend
)

var redirectOps = [...]string{
	RedirectInput:  "<",
	RedirectOutput: ">",
	RedirectAppend: ">>",
}

// String implements fmt.Stringer.
func (r Redirect) String() string {
	return redirectOps[r]
}

// Command is a single stage of a pipeline.
type Command struct {
	// Name of the program or builtin, empty for a blank line.
	Name string
	// Args holds the positional arguments, excluding Name.
	Args []string
	// Redirects holds the target file for each Redirect, empty if absent.
	Redirects [3]string
	// Background is set when the line ended with '&'.
	Background bool
	// Autocomplete is set when the line ended with '?'.
	Autocomplete bool
}

// ArgCount returns the number of positional arguments.
func (c *Command) ArgCount() int {
	return len(c.Args)
}

// Argv returns the exec style argument vector, Name followed by Args.
func (c *Command) Argv() []string {
	out := make([]string, 0, len(c.Args)+1)
	out = append(out, c.Name)
	return append(out, c.Args...)
}

// Redirect returns the target of the redirect or the empty string.
func (c *Command) Redirect(r Redirect) string {
	return c.Redirects[r]
}

// String renders the command back into shell text, quoting arguments that
// need it. The name is written as is since Parse takes it verbatim.
func (c *Command) String() string {
	words := []string{c.Name}
	for _, word := range c.Args {
		words = append(words, quote(word))
	}
	for r, target := range c.Redirects {
		if target != "" {
			words = append(words, Redirect(r).String(), quote(target))
		}
	}
	return strings.Join(words, " ")
}

func quote(word string) string {
	quoted, err := syntax.Quote(word, syntax.LangBash)
	if err != nil {
		// Only non-printable input fails, print it raw.
		return word
	}
	return quoted
}

// Pipeline is the ordered list of stages of a single line. Each stage's
// standard output feeds the standard input of the following stage.
type Pipeline struct {
	Stages []*Command
}

// First returns the first stage or nil if the pipeline is empty.
func (p *Pipeline) First() *Command {
	if len(p.Stages) == 0 {
		return nil
	}
	return p.Stages[0]
}

// Next returns the stage after c or nil if c is the last stage or not part of
// the pipeline.
func (p *Pipeline) Next(c *Command) *Command {
	for i, stage := range p.Stages {
		if stage == c && i+1 < len(p.Stages) {
			return p.Stages[i+1]
		}
	}
	return nil
}

// Background reports whether the line asked to run in the background.
func (p *Pipeline) Background() bool {
	first := p.First()
	return first != nil && first.Background
}

// Autocomplete reports whether the line asked for completion.
func (p *Pipeline) Autocomplete() bool {
	first := p.First()
	return first != nil && first.Autocomplete
}

// String renders the pipeline back into shell text.
func (p *Pipeline) String() string {
	var stages []string
	for _, stage := range p.Stages {
		stages = append(stages, stage.String())
	}
	out := strings.Join(stages, " | ")
	if p.Background() {
		out += " &"
	}
	return out
}

// Dump writes a human readable description of every stage.
func (p *Pipeline) Dump(w io.Writer) {
	for i, stage := range p.Stages {
		if i > 0 {
			fmt.Fprintln(w, "\tPiped to:")
		}
		dumpCommand(w, stage)
	}
}

func dumpCommand(w io.Writer, c *Command) {
	yesNo := func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	}

	fmt.Fprintf(w, "Command: <%s>\n", c.Name)
	fmt.Fprintf(w, "\tIs Background: %s\n", yesNo(c.Background))
	fmt.Fprintf(w, "\tNeeds Auto-complete: %s\n", yesNo(c.Autocomplete))
	fmt.Fprintln(w, "\tRedirects:")
	for i, target := range c.Redirects {
		if target == "" {
			target = "N/A"
		}
		fmt.Fprintf(w, "\t\t%d: %s\n", i, target)
	}
	fmt.Fprintf(w, "\tArguments (%d):\n", c.ArgCount())
	for i, arg := range c.Args {
		fmt.Fprintf(w, "\t\tArg %d: %s\n", i, arg)
	}
}

// Parse splits a line into a pipeline. The result always holds at least one
// stage, a blank line produces a single stage with an empty Name.
func Parse(line string) *Pipeline {
	line = strings.Trim(line, Whitespace)

	var background, autocomplete bool
	if strings.HasSuffix(line, "?") {
		autocomplete = true
	}
	if strings.HasSuffix(line, "&") {
		background = true
	}

	pipeline := &Pipeline{}
	parseStage(pipeline, line, background, autocomplete)
	return pipeline
}

// parseStage appends the stage starting at text to the pipeline, recursing
// when it meets a pipe.
func parseStage(p *Pipeline, text string, background, autocomplete bool) {
	cmd := &Command{
		Background:   background,
		Autocomplete: autocomplete,
	}
	p.Stages = append(p.Stages, cmd)

	tokens := tokenize(text)
	if background && len(tokens) > 0 {
		// A trailing '&' glued to the last word belongs to the line, not the word.
		last := &tokens[len(tokens)-1]
		if last.text != "&" && strings.HasSuffix(last.text, "&") {
			last.text = strings.TrimSuffix(last.text, "&")
		}
	}
	if len(tokens) == 0 {
		return
	}

	cmd.Name = tokens[0].text
	for i := 1; i < len(tokens); i++ {
		tok := tokens[i].text

		switch {
		case tok == "|":
			parseStage(p, text[tokens[i].end:], background, autocomplete)
			return

		case tok == "&":
			continue

		case strings.HasPrefix(tok, "<"),
			strings.HasPrefix(tok, ">"):
			kind, target := splitRedirect(tok)
			if target == "" && i+1 < len(tokens) && !isOperator(tokens[i+1].text) {
				i++
				target = tokens[i].text
			}
			if target != "" {
				cmd.Redirects[kind] = unquote(target)
			}

		default:
			cmd.Args = append(cmd.Args, unquote(tok))
		}
	}
}

func splitRedirect(tok string) (Redirect, string) {
	switch {
	case strings.HasPrefix(tok, ">>"):
		return RedirectAppend, tok[2:]
	case strings.HasPrefix(tok, ">"):
		return RedirectOutput, tok[1:]
	default:
		return RedirectInput, tok[1:]
	}
}

func isOperator(tok string) bool {
	return tok == "|" || tok == "&"
}

// unquote strips a matching pair of quotes wrapping the whole word. Words of
// two characters or fewer are kept so "" stays as written.
func unquote(word string) string {
	if len(word) <= 2 {
		return word
	}
	first, last := word[0], word[len(word)-1]
	if first == last && (first == '"' || first == '\'') {
		return word[1 : len(word)-1]
	}
	return word
}

type token struct {
	text string
	// end is the offset in the source just past the token.
	end int
}

// tokenize splits text on runs of spaces and tabs. A quote opens a group that
// extends to the matching quote, or the end of text if there is none, so
// whitespace inside the group doesn't split the word.
func tokenize(text string) []token {
	var (
		out   []token
		start = -1
		quote byte
	)

	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == ' ' || ch == '\t':
			if start >= 0 {
				out = append(out, token{text: text[start:i], end: i})
				start = -1
			}
		default:
			if start < 0 {
				start = i
			}
			if ch == '"' || ch == '\'' {
				quote = ch
			}
		}
	}
	if start >= 0 {
		out = append(out, token{text: text[start:], end: len(text)})
	}
	return out
}
