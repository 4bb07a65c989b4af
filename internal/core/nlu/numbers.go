package nlu

import (
	"strconv"
	"strings"
)

// numberWords 英文數字詞
var numberWords = map[string]float64{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19, "twenty": 20,
	"thirty": 30, "forty": 40, "fifty": 50, "sixty": 60,
	"seventy": 70, "eighty": 80, "ninety": 90, "hundred": 100,
}

// LikeNum 詞元是否像數字：阿拉伯數字、小數、分數或英文數字詞
func LikeNum(token string) bool {
	_, ok := ParseNumber(token)
	return ok
}

// ParseNumber 將數字詞元轉為數值
func ParseNumber(token string) (float64, bool) {
	t := strings.ToLower(strings.TrimSpace(token))
	t = strings.TrimLeft(t, "+")
	if t == "" {
		return 0, false
	}

	if v, ok := numberWords[t]; ok {
		return v, true
	}

	// 允許千分位
	plain := strings.ReplaceAll(t, ",", "")
	if isDecimal(plain) {
		v, err := strconv.ParseFloat(plain, 64)
		return v, err == nil
	}

	if num, den, found := strings.Cut(plain, "/"); found {
		if !isDigits(num) || !isDigits(den) {
			return 0, false
		}
		n, _ := strconv.ParseFloat(num, 64)
		d, _ := strconv.ParseFloat(den, 64)
		if d == 0 {
			return 0, false
		}
		return n / d, true
	}

	return 0, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isDecimal 整數或只有一個小數點的數字
func isDecimal(s string) bool {
	whole, frac, found := strings.Cut(s, ".")
	if !found {
		return isDigits(whole)
	}
	if whole == "" {
		return isDigits(frac)
	}
	return isDigits(whole) && (frac == "" || isDigits(frac))
}
