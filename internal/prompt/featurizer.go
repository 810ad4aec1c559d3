package prompt

import (
	"strings"
	"unicode/utf8"
)

// Markers 识别的标点符号集合
var Markers = []string{".", ",", "!", "?", ";", ":"}

// Features 提示词统计特征，每次请求派生一份，派生后不再修改
type Features struct {
	WordCount         int            // 词数（按空白切分）
	SentenceCount     int            // 句数（按 . ! ? 切分，忽略空尾段）
	AvgWordLength     float64        // 平均词长（字符数），无词时为0
	AvgSentenceLength float64        // 平均句长（每句词数），无句时为0
	PunctuationCounts map[string]int // 标点符号出现次数
}

// QuestionMarks 问号出现次数
func (f Features) QuestionMarks() int {
	return f.PunctuationCounts["?"]
}

// ExclamationMarks 感叹号出现次数
func (f Features) ExclamationMarks() int {
	return f.PunctuationCounts["!"]
}

// AvgSentenceLengthCubed 平均句长的三次方，预测模型的训练特征之一
func (f Features) AvgSentenceLengthCubed() float64 {
	return f.AvgSentenceLength * f.AvgSentenceLength * f.AvgSentenceLength
}

// Featurize 从原始提示词文本派生统计特征
// 纯函数，无副作用；空白文本返回全零特征而非错误，
// 是否把空提示词当作校验错误由上游调用方决定
func Featurize(text string) Features {
	f := Features{
		PunctuationCounts: make(map[string]int, len(Markers)),
	}

	// 标点统计（全文范围）
	for _, m := range Markers {
		f.PunctuationCounts[m] = strings.Count(text, m)
	}

	// 词统计：按空白切分
	words := strings.Fields(text)
	f.WordCount = len(words)
	if f.WordCount > 0 {
		totalLen := 0
		for _, w := range words {
			totalLen += utf8.RuneCountInString(w)
		}
		f.AvgWordLength = float64(totalLen) / float64(f.WordCount)
	}

	// 句统计：按句末标点切分，去掉空尾段
	sentences := splitSentences(text)
	f.SentenceCount = len(sentences)
	if f.SentenceCount > 0 {
		totalWords := 0
		for _, s := range sentences {
			totalWords += len(strings.Fields(s))
		}
		f.AvgSentenceLength = float64(totalWords) / float64(f.SentenceCount)
	}

	return f
}

// splitSentences 按 . ! ? 切分文本，保留非空片段
func splitSentences(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	sentences := make([]string, 0, len(raw))
	for _, s := range raw {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}
