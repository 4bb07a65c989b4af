package nlu

import (
	"context"
	"fmt"
	"sync"

	"github.com/jdkato/prose/v2"
)

// ProseTagger 使用 prose 模型標註詞性與命名實體，再補上詞典實體
type ProseTagger struct {
	gazetteer *Gazetteer

	once    sync.Once
	model   *prose.Model
	loadErr error
}

// NewProseTagger 建立標註器並預先載入模型
func NewProseTagger(g *Gazetteer) (*ProseTagger, error) {
	if g == nil {
		g = DefaultGazetteer()
	}
	t := &ProseTagger{gazetteer: g}
	if err := t.load(); err != nil {
		return nil, err
	}
	return t, nil
}

// load 模型只載入一次，後續文件共用
func (t *ProseTagger) load() error {
	t.once.Do(func() {
		doc, err := prose.NewDocument("load the recipe", prose.WithSegmentation(false))
		if err != nil {
			t.loadErr = fmt.Errorf("failed to load prose model: %w", err)
			return
		}
		t.model = doc.Model
	})
	return t.loadErr
}

// Annotate 標註指令
func (t *ProseTagger) Annotate(ctx context.Context, text string) (*Annotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := t.load(); err != nil {
		return nil, err
	}

	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.UsingModel(t.model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to annotate command: %w", err)
	}

	proseTokens := doc.Tokens()
	tokens := make([]Token, 0, len(proseTokens))
	for i, tok := range proseTokens {
		tokens = append(tokens, newToken(tok.Text, tok.Tag, i))
	}

	var modelEntities []Entity
	for _, ent := range doc.Entities() {
		start, end := locateSpan(tokens, ent.Text)
		modelEntities = append(modelEntities, Entity{
			Text:  ent.Text,
			Label: ent.Label,
			Start: start,
			End:   end,
		})
	}

	return &Annotation{
		Text:     text,
		Tokens:   tokens,
		Entities: mergeEntities(t.gazetteer.Match(tokens), modelEntities),
	}, nil
}
