// Package protocol encodes and decodes the referee/agent text messages.
//
// Every message is one line of space-delimited ASCII tokens. Cards travel
// as two-letter codes (see card.Card.Code) in any order; triplets and hands
// are re-sorted by category on the way in. Verbs and codes are matched
// case-insensitively.
//
//	referee -> agent                      agent -> referee
//	reset <n> <i> <codes...>              ok
//	suggestion <p> <S> <W> <R> <d|-> [c]  ok
//	accusation <p> <S> <W> <R> <+|->      ok
//	suggest                               suggest <S> <W> <R>
//	accuse                                accuse <S> <W> <R> | -
//	disprove <p> <S> <W> <R>              show <c> | -
//	done                                  dead
//
// An agent opens the conversation with "<name> alive".
package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/speedclue/internal/card"
	"github.com/roach88/speedclue/internal/game"
)

// Kind identifies a referee-to-agent message.
type Kind uint8

const (
	KindReset Kind = iota + 1
	KindSuggestion
	KindAccusation
	KindSuggest
	KindAccuse
	KindDisprove
	KindDone
)

var verbs = map[Kind]string{
	KindReset:      "reset",
	KindSuggestion: "suggestion",
	KindAccusation: "accusation",
	KindSuggest:    "suggest",
	KindAccuse:     "accuse",
	KindDisprove:   "disprove",
	KindDone:       "done",
}

// bareRequests are the requests without arguments.
var bareRequests = map[string]Kind{
	"suggest": KindSuggest,
	"accuse":  KindAccuse,
	"done":    KindDone,
}

func (k Kind) String() string {
	if v, ok := verbs[k]; ok {
		return v
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Reply tokens.
const (
	ReplyOK    = "ok"
	ReplyDead  = "dead"
	ReplyPass  = "-"
	replyShow  = "show"
	aliveToken = "alive"
)

// Request is one referee-to-agent message. Only the fields matching Kind
// are meaningful.
type Request struct {
	Kind Kind

	Reset      game.Reset
	Suggestion game.Suggestion
	Accusation game.Accusation

	// Asker and Triplet carry a disprove request.
	Asker   int
	Triplet card.Triplet
}

// Event reports whether the request informs the agent rather than asking
// it for a decision.
func (r Request) Event() bool {
	return r.Kind == KindReset || r.Kind == KindSuggestion || r.Kind == KindAccusation
}

// String renders the request in wire form.
func (r Request) String() string {
	switch r.Kind {
	case KindReset:
		return fmt.Sprintf("reset %d %d %s", r.Reset.PlayerCount, r.Reset.Self, handCodes(r.Reset.Hand))
	case KindSuggestion:
		s := r.Suggestion
		line := fmt.Sprintf("suggestion %d %s ", s.Suggester, s.Triplet.Codes())
		if s.Disprover == nil {
			return line + "-"
		}
		line += strconv.Itoa(*s.Disprover)
		if s.Shown != nil {
			line += " " + s.Shown.Code()
		}
		return line
	case KindAccusation:
		a := r.Accusation
		mark := "-"
		if a.Won {
			mark = "+"
		}
		return fmt.Sprintf("accusation %d %s %s", a.Accuser, a.Triplet.Codes(), mark)
	case KindDisprove:
		return fmt.Sprintf("disprove %d %s", r.Asker, r.Triplet.Codes())
	default:
		return r.Kind.String()
	}
}

// ParseRequest decodes one referee-to-agent message. The returned events
// are validated against the game rules; a reset fixes the player count for
// the suggestion and accusation checks, which is why ParseRequest takes
// the current count (zero before the first reset).
func ParseRequest(line string, players int) (Request, error) {
	clean := Clean(line)
	fields := strings.Fields(clean)
	if len(fields) == 0 {
		return Request{}, violation("request", clean, "empty message")
	}

	verb := strings.ToLower(fields[0])
	args := fields[1:]
	switch verb {
	case "reset":
		return parseReset(clean, args)
	case "suggestion":
		return parseSuggestion(clean, args, players)
	case "accusation":
		return parseAccusation(clean, args, players)
	case "disprove":
		return parseDisprove(clean, args, players)
	case "suggest", "accuse", "done":
		if len(args) != 0 {
			return Request{}, violation(verb, clean, "unexpected arguments")
		}
		if players == 0 && verb != "done" {
			return Request{}, wrap("reset", clean, ErrNotReset)
		}
		return Request{Kind: bareRequests[verb]}, nil
	default:
		return Request{}, violation("request", clean, "unknown verb %q", fields[0])
	}
}

func parseReset(line string, args []string) (Request, error) {
	if len(args) < 2 {
		return Request{}, violation("reset", line, "want player count and seat")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return Request{}, wrap("reset", line, err)
	}
	self, err := strconv.Atoi(args[1])
	if err != nil {
		return Request{}, wrap("reset", line, err)
	}
	hand, err := parseCards(args[2:])
	if err != nil {
		return Request{}, wrap("reset", line, err)
	}
	r := game.Reset{PlayerCount: n, Self: self, Hand: hand}
	if err := r.Validate(); err != nil {
		return Request{}, wrap("reset", line, err)
	}
	return Request{Kind: KindReset, Reset: r}, nil
}

func parseSuggestion(line string, args []string, players int) (Request, error) {
	if players == 0 {
		return Request{}, wrap("reset", line, ErrNotReset)
	}
	if len(args) != 5 && len(args) != 6 {
		return Request{}, violation("suggestion", line, "want 5 or 6 arguments, got %d", len(args))
	}
	suggester, err := strconv.Atoi(args[0])
	if err != nil {
		return Request{}, wrap("suggestion", line, err)
	}
	t, err := card.ParseTriplet(args[1:4])
	if err != nil {
		return Request{}, wrap("suggestion", line, err)
	}

	s := game.Suggestion{Suggester: suggester, Triplet: t}
	if args[4] != ReplyPass {
		d, err := strconv.Atoi(args[4])
		if err != nil {
			return Request{}, wrap("suggestion", line, err)
		}
		s.Disprover = game.Seat(d)
	}
	if len(args) == 6 {
		c, err := card.ParseCode(args[5])
		if err != nil {
			return Request{}, wrap("suggestion", line, err)
		}
		s.Shown = game.Shown(c)
	}
	if err := s.Validate(players); err != nil {
		return Request{}, wrap("suggestion", line, err)
	}
	return Request{Kind: KindSuggestion, Suggestion: s}, nil
}

func parseAccusation(line string, args []string, players int) (Request, error) {
	if players == 0 {
		return Request{}, wrap("reset", line, ErrNotReset)
	}
	if len(args) != 5 {
		return Request{}, violation("accusation", line, "want 5 arguments, got %d", len(args))
	}
	accuser, err := strconv.Atoi(args[0])
	if err != nil {
		return Request{}, wrap("accusation", line, err)
	}
	t, err := card.ParseTriplet(args[1:4])
	if err != nil {
		return Request{}, wrap("accusation", line, err)
	}
	var won bool
	switch args[4] {
	case "+":
		won = true
	case "-":
	default:
		return Request{}, violation("accusation", line, "outcome must be + or -, got %q", args[4])
	}
	a := game.Accusation{Accuser: accuser, Triplet: t, Won: won}
	if err := a.Validate(players); err != nil {
		return Request{}, wrap("accusation", line, err)
	}
	return Request{Kind: KindAccusation, Accusation: a}, nil
}

func parseDisprove(line string, args []string, players int) (Request, error) {
	if players == 0 {
		return Request{}, wrap("reset", line, ErrNotReset)
	}
	if len(args) != 4 {
		return Request{}, violation("disprove", line, "want 4 arguments, got %d", len(args))
	}
	asker, err := strconv.Atoi(args[0])
	if err != nil {
		return Request{}, wrap("disprove", line, err)
	}
	if asker < 0 || asker >= players {
		return Request{}, violation("disprove", line, "seat %d of %d", asker, players)
	}
	t, err := card.ParseTriplet(args[1:])
	if err != nil {
		return Request{}, wrap("disprove", line, err)
	}
	return Request{Kind: KindDisprove, Asker: asker, Triplet: t}, nil
}

func parseCards(codes []string) ([]card.Card, error) {
	out := make([]card.Card, 0, len(codes))
	for _, code := range codes {
		c, err := card.ParseCode(code)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return sortCards(out), nil
}

func sortCards(cards []card.Card) []card.Card {
	out := make([]card.Card, 0, len(cards))
	for _, c := range card.All() {
		for _, x := range cards {
			if x == c {
				out = append(out, c)
			}
		}
	}
	return out
}

func handCodes(hand []card.Card) string {
	codes := make([]string, len(hand))
	for i, c := range sortCards(hand) {
		codes[i] = c.Code()
	}
	return strings.Join(codes, " ")
}

// Clean strips NUL padding and surrounding whitespace from a raw read.
func Clean(raw string) string {
	return strings.TrimSpace(strings.ReplaceAll(raw, "\x00", ""))
}

// Hello renders the agent's opening line.
func Hello(name string) string {
	return name + " " + aliveToken
}

// ParseHello reads the agent's opening line and returns its name.
func ParseHello(line string) (string, error) {
	clean := Clean(line)
	fields := strings.Fields(clean)
	if len(fields) != 2 || !strings.EqualFold(fields[1], aliveToken) {
		return "", violation("<name> alive", clean, "")
	}
	return fields[0], nil
}

// FormatSuggest renders a suggest reply.
func FormatSuggest(t card.Triplet) string {
	return "suggest " + t.Codes()
}

// ParseSuggest reads a suggest reply.
func ParseSuggest(line string) (card.Triplet, error) {
	clean := Clean(line)
	fields := strings.Fields(clean)
	if len(fields) != 4 || !strings.EqualFold(fields[0], "suggest") {
		return card.Triplet{}, violation("suggest reply", clean, "")
	}
	t, err := card.ParseTriplet(fields[1:])
	if err != nil {
		return card.Triplet{}, wrap("suggest reply", clean, err)
	}
	return t, nil
}

// FormatAccuse renders an accuse reply; ok false passes.
func FormatAccuse(t card.Triplet, ok bool) string {
	if !ok {
		return ReplyPass
	}
	return "accuse " + t.Codes()
}

// ParseAccuse reads an accuse reply. ok is false for a pass.
func ParseAccuse(line string) (t card.Triplet, ok bool, err error) {
	clean := Clean(line)
	if clean == ReplyPass {
		return card.Triplet{}, false, nil
	}
	fields := strings.Fields(clean)
	if len(fields) != 4 || !strings.EqualFold(fields[0], "accuse") {
		return card.Triplet{}, false, violation("accuse reply", clean, "")
	}
	t, err = card.ParseTriplet(fields[1:])
	if err != nil {
		return card.Triplet{}, false, wrap("accuse reply", clean, err)
	}
	return t, true, nil
}

// FormatShow renders a disprove reply; ok false means no card.
func FormatShow(c card.Card, ok bool) string {
	if !ok {
		return ReplyPass
	}
	return replyShow + " " + c.Code()
}

// ParseShow reads a disprove reply. ok is false when no card was shown.
func ParseShow(line string) (c card.Card, ok bool, err error) {
	clean := Clean(line)
	if clean == ReplyPass {
		return card.Card{}, false, nil
	}
	fields := strings.Fields(clean)
	if len(fields) != 2 || !strings.EqualFold(fields[0], replyShow) {
		return card.Card{}, false, violation("show reply", clean, "")
	}
	c, err = card.ParseCode(fields[1])
	if err != nil {
		return card.Card{}, false, wrap("show reply", clean, err)
	}
	return c, true, nil
}

// ExpectReply checks a fixed acknowledgement such as ReplyOK or ReplyDead.
func ExpectReply(line, want string) error {
	clean := Clean(line)
	if !strings.EqualFold(clean, want) {
		return violation(want, clean, "")
	}
	return nil
}
