// Package nlu 提供指令的斷詞、詞性與實體標註
package nlu

import (
	"context"
	"math"
	"sort"
	"strings"
)

// 實體標籤
const (
	LabelFood      = "FOOD"
	LabelProduct   = "PRODUCT"
	LabelWorkOfArt = "WORK_OF_ART"
	LabelEvent     = "EVENT"
	LabelGPE       = "GPE"
	LabelOrg       = "ORG"
)

// Token 單一詞元
type Token struct {
	Text    string `json:"text"`
	Lower   string `json:"lower"`
	POS     string `json:"pos"`
	IsNoun  bool   `json:"is_noun"`
	IsPunct bool   `json:"is_punct"`
	LikeNum bool   `json:"like_num"`
	Index   int    `json:"index"`
}

// Entity 命名實體，Start/End 為詞元索引（End 不含）
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Annotation 標註結果
type Annotation struct {
	Text     string   `json:"text"`
	Tokens   []Token  `json:"tokens"`
	Entities []Entity `json:"entities"`
}

// Tagger 標註器介面
type Tagger interface {
	Annotate(ctx context.Context, text string) (*Annotation, error)
}

// Nouns 回傳所有名詞詞元
func (a *Annotation) Nouns() []Token {
	var out []Token
	for _, t := range a.Tokens {
		if t.IsNoun {
			out = append(out, t)
		}
	}
	return out
}

// IndexOf 第一個小寫等於 word 的詞元索引，找不到回傳 -1
func (a *Annotation) IndexOf(word string) int {
	for i, t := range a.Tokens {
		if t.Lower == word {
			return i
		}
	}
	return -1
}

// EntitiesWithLabel 依標籤篩選實體
func (a *Annotation) EntitiesWithLabel(labels ...string) []Entity {
	var out []Entity
	for _, e := range a.Entities {
		for _, l := range labels {
			if e.Label == l {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// newToken 依詞性標籤建立詞元
func newToken(text, pos string, index int) Token {
	return Token{
		Text:    text,
		Lower:   strings.ToLower(text),
		POS:     pos,
		IsNoun:  strings.HasPrefix(pos, "NN"),
		IsPunct: isPunctTag(pos) || isPunct(text),
		LikeNum: LikeNum(text),
		Index:   index,
	}
}

// isPunctTag Penn Treebank 標點標籤
func isPunctTag(tag string) bool {
	switch tag {
	case ".", ",", ":", "(", ")", "``", "''", "#", "$", "-LRB-", "-RRB-":
		return true
	}
	return false
}

func isPunct(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if strings.ContainsRune(`.,;:!?'"()[]{}-`, r) {
			continue
		}
		return false
	}
	return true
}

// mergeEntities 合併實體並依出現位置排序，與既有實體重疊者捨棄
func mergeEntities(base, extra []Entity) []Entity {
	out := append([]Entity(nil), base...)
	for _, e := range extra {
		overlap := false
		for _, b := range base {
			if overlaps(b, e) {
				overlap = true
				break
			}
		}
		if !overlap {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return position(out[i]) < position(out[j])
	})
	return out
}

func overlaps(a, b Entity) bool {
	if a.Start >= 0 && b.Start >= 0 {
		return a.Start < b.End && b.Start < a.End
	}
	x, y := strings.ToLower(a.Text), strings.ToLower(b.Text)
	return strings.Contains(x, y) || strings.Contains(y, x)
}

// position 未知位置的實體排在最後
func position(e Entity) int {
	if e.Start < 0 {
		return math.MaxInt
	}
	return e.Start
}

// locateSpan 找出實體文字在詞元序列中的位置
func locateSpan(tokens []Token, text string) (int, int) {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return -1, -1
	}
	for i := 0; i+len(words) <= len(tokens); i++ {
		match := true
		for j, w := range words {
			if tokens[i+j].Lower != w {
				match = false
				break
			}
		}
		if match {
			return i, i + len(words)
		}
	}
	return -1, -1
}
