package nlu

import (
	"context"
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’/.,-][\p{L}\p{N}]+)*|[^\s\p{L}\p{N}]`)

// lexicon 簡易詞性表，未列出的字視為名詞
var lexicon = map[string]string{
	"a": "DT", "an": "DT", "the": "DT", "this": "DT", "that": "DT", "these": "DT",
	"those": "DT", "my": "PRP$", "your": "PRP$", "our": "PRP$", "its": "PRP$",
	"i": "PRP", "you": "PRP", "me": "PRP", "we": "PRP", "it": "PRP", "us": "PRP",
	"of": "IN", "for": "IN", "to": "TO", "in": "IN", "on": "IN", "at": "IN",
	"with": "IN", "from": "IN", "about": "IN", "into": "IN", "by": "IN",
	"and": "CC", "or": "CC", "but": "CC",
	"how": "WRB", "when": "WRB", "where": "WRB", "why": "WRB",
	"what": "WP", "which": "WDT", "who": "WP",
	"much": "JJ", "many": "JJ", "more": "JJR", "less": "JJR", "some": "DT", "all": "DT",
	"is": "VBZ", "are": "VBP", "am": "VBP", "was": "VBD", "were": "VBD", "be": "VB",
	"do": "VBP", "does": "VBZ", "did": "VBD", "need": "VBP", "needs": "VBZ",
	"have": "VBP", "has": "VBZ", "can": "MD", "could": "MD", "should": "MD",
	"will": "MD", "would": "MD", "shall": "MD", "may": "MD", "must": "MD",
	"set": "VB", "start": "VB", "load": "VB", "switch": "VB", "show": "VB",
	"go": "VB", "tell": "VB", "give": "VB", "add": "VB", "use": "VB", "put": "VB",
	"make": "VB", "cook": "VB", "bake": "VB", "want": "VBP", "repeat": "VB",
	"let": "VB", "list": "VB", "open": "VB", "find": "VB", "get": "VB",
	"please": "UH", "hello": "UH", "hi": "UH", "hey": "UH", "thanks": "UH",
	"not": "RB", "again": "RB", "back": "RB", "next": "JJ", "now": "RB",
	"there": "EX", "here": "RB", "up": "RP", "off": "RP",
	"minute": "NN", "minutes": "NNS", "second": "NN", "seconds": "NNS",
	"hour": "NN", "hours": "NNS", "timer": "NN",
}

// LexiconTagger 不依賴模型的詞典式標註器
type LexiconTagger struct {
	gazetteer *Gazetteer
}

// NewLexiconTagger 建立詞典式標註器
func NewLexiconTagger(g *Gazetteer) *LexiconTagger {
	if g == nil {
		g = DefaultGazetteer()
	}
	return &LexiconTagger{gazetteer: g}
}

// Annotate 斷詞、標註詞性並比對詞典實體
func (t *LexiconTagger) Annotate(ctx context.Context, text string) (*Annotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	words := tokenPattern.FindAllString(text, -1)
	tokens := make([]Token, 0, len(words))
	for i, w := range words {
		tokens = append(tokens, newToken(w, lexiconTag(w), i))
	}

	return &Annotation{
		Text:     text,
		Tokens:   tokens,
		Entities: t.gazetteer.Match(tokens),
	}, nil
}

func lexiconTag(word string) string {
	lower := strings.ToLower(word)
	if tag, ok := lexicon[lower]; ok {
		return tag
	}
	if LikeNum(lower) {
		return "CD"
	}
	if isPunct(word) {
		return "."
	}
	// 其餘一律當名詞
	if strings.HasSuffix(lower, "s") && len(lower) > 3 {
		return "NNS"
	}
	return "NN"
}
