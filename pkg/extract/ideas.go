package extract

import (
	"strings"
)

// Ideas converts an LLM answer into idea records. Machine-readable answers (a JSON array of
// objects, optionally inside a Markdown code fence) are returned directly; everything else
// goes through the line-oriented free-text parser. The result is never nil.
func Ideas(text string) []IdeaRecord {
	if records, ok := parseStructuredIdeas(text); ok {
		return records
	}
	return parseFreeTextIdeas(text)
}

func parseStructuredIdeas(text string) ([]IdeaRecord, bool) {
	records, err := decodeRecordList(stripCodeFence(text))
	if err != nil {
		return nil, false
	}
	out := make([]IdeaRecord, 0, len(records))
	for _, rec := range records {
		if rec.HasName() {
			out = append(out, rec)
		}
	}
	return out, true
}

// stripCodeFence removes a surrounding ``` or ```json fence.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		lang := strings.TrimSpace(text[:nl])
		if lang == "" || !strings.ContainsAny(lang, "[{") {
			text = text[nl+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

type tokenKind int

const (
	tokenNoise tokenKind = iota
	tokenMarker
	tokenField
)

type token struct {
	kind  tokenKind
	key   string
	value string
}

var ideaMarkers = []string{"Name:", "1.", "2.", "3.", "4.", "5."}

// tokenize splits text into paragraphs on blank lines, paragraphs into trimmed lines,
// and classifies every non-empty line.
func tokenize(text string) []token {
	var tokens []token
	for _, paragraph := range strings.Split(text, "\n\n") {
		for _, line := range strings.Split(strings.TrimSpace(paragraph), "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			tokens = append(tokens, classifyLine(line))
		}
	}
	return tokens
}

func classifyLine(line string) token {
	if isIdeaMarker(line) {
		name := line
		if _, after, found := strings.Cut(line, ":"); found {
			name = strings.TrimSpace(after)
		}
		return token{kind: tokenMarker, key: FieldName, value: name}
	}
	before, after, found := strings.Cut(line, ":")
	if !found {
		return token{kind: tokenNoise}
	}
	return token{
		kind:  tokenField,
		key:   NormalizeKey(before),
		value: strings.TrimSpace(after),
	}
}

func isIdeaMarker(line string) bool {
	for _, m := range ideaMarkers {
		if strings.HasPrefix(line, m) {
			return true
		}
	}
	return false
}

// NormalizeKey lower-cases a heading and joins its words with underscores,
// e.g. "Target Market" becomes "target_market".
func NormalizeKey(heading string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(heading)), " ", "_")
}

type parserState int

const (
	stateNoOpenRecord parserState = iota
	stateOpenRecord
)

// ideaParser accumulates fields into the current record and emits it when the next
// idea marker arrives. A record is open as soon as it has a name.
type ideaParser struct {
	state   parserState
	current IdeaRecord
	out     []IdeaRecord
}

func (p *ideaParser) feed(tok token) {
	switch tok.kind {
	case tokenMarker:
		if p.state == stateOpenRecord {
			p.out = append(p.out, p.current)
			p.current = IdeaRecord{}
			p.state = stateNoOpenRecord
		}
		p.current.Set(tok.key, tok.value)
	case tokenField:
		p.current.Set(tok.key, tok.value)
	default:
		return
	}
	if p.current.HasName() {
		p.state = stateOpenRecord
	}
}

func (p *ideaParser) finish() []IdeaRecord {
	if p.current.HasName() {
		p.out = append(p.out, p.current)
		p.current = IdeaRecord{}
		p.state = stateNoOpenRecord
	}
	if p.out == nil {
		return []IdeaRecord{}
	}
	return p.out
}

// parseFreeTextIdeas never yields records from text without a single colon.
func parseFreeTextIdeas(text string) []IdeaRecord {
	if !strings.Contains(text, ":") {
		return []IdeaRecord{}
	}
	var p ideaParser
	for _, tok := range tokenize(text) {
		p.feed(tok)
	}
	return p.finish()
}
