package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeaturize_Basic(t *testing.T) {
	t.Run("HelloWorld场景", func(t *testing.T) {
		f := Featurize("Hello world!")

		assert.Equal(t, 2, f.WordCount)
		assert.Equal(t, 1, f.SentenceCount)
		assert.Equal(t, 1, f.PunctuationCounts["!"])
		assert.Equal(t, 0, f.PunctuationCounts["?"])
		assert.Equal(t, 1, f.ExclamationMarks())
		assert.Equal(t, 0, f.QuestionMarks())
		// "Hello"(5) + "world!"(6) = 11 / 2
		assert.InDelta(t, 5.5, f.AvgWordLength, 1e-9)
		assert.InDelta(t, 2.0, f.AvgSentenceLength, 1e-9)
	})

	t.Run("多句文本", func(t *testing.T) {
		f := Featurize("How are you? I am fine. Great!")

		assert.Equal(t, 7, f.WordCount)
		assert.Equal(t, 3, f.SentenceCount)
		assert.Equal(t, 1, f.PunctuationCounts["?"])
		assert.Equal(t, 1, f.PunctuationCounts["!"])
		assert.Equal(t, 1, f.PunctuationCounts["."])
		// 每句词数 (3+4+1)/3
		assert.InDelta(t, 7.0/3.0, f.AvgSentenceLength, 1e-9)
	})

	t.Run("标点全量统计", func(t *testing.T) {
		f := Featurize("a, b; c: d. e! f?")

		assert.Equal(t, 1, f.PunctuationCounts[","])
		assert.Equal(t, 1, f.PunctuationCounts[";"])
		assert.Equal(t, 1, f.PunctuationCounts[":"])
		assert.Equal(t, 1, f.PunctuationCounts["."])
		assert.Equal(t, 1, f.PunctuationCounts["!"])
		assert.Equal(t, 1, f.PunctuationCounts["?"])
	})
}

func TestFeaturize_EmptyInput(t *testing.T) {
	t.Run("空字符串返回全零特征", func(t *testing.T) {
		f := Featurize("")

		assert.Equal(t, 0, f.WordCount)
		assert.Equal(t, 0, f.SentenceCount)
		assert.Zero(t, f.AvgWordLength)
		assert.Zero(t, f.AvgSentenceLength)
		assert.Zero(t, f.AvgSentenceLengthCubed())
	})

	t.Run("纯空白返回全零特征", func(t *testing.T) {
		f := Featurize("   \t\n  ")

		assert.Equal(t, 0, f.WordCount)
		assert.Equal(t, 0, f.SentenceCount)
		assert.Zero(t, f.AvgWordLength)
	})

	t.Run("纯标点不产生句子", func(t *testing.T) {
		f := Featurize("...")

		// 空尾段全部排除
		assert.Equal(t, 0, f.SentenceCount)
		assert.Zero(t, f.AvgSentenceLength)
		assert.Equal(t, 3, f.PunctuationCounts["."])
	})
}

func TestFeaturize_Properties(t *testing.T) {
	t.Run("词数为零当且仅当平均词长为零", func(t *testing.T) {
		cases := []string{"", " ", "hello", "a b c", "!!!", "一 二 三"}
		for _, text := range cases {
			f := Featurize(text)
			assert.GreaterOrEqual(t, f.AvgWordLength, 0.0)
			if f.WordCount == 0 {
				assert.Zero(t, f.AvgWordLength, "text=%q", text)
			} else {
				assert.Greater(t, f.AvgWordLength, 0.0, "text=%q", text)
			}
		}
	})

	t.Run("句长三次方与句长一致", func(t *testing.T) {
		f := Featurize("one two three.")
		assert.InDelta(t, 27.0, f.AvgSentenceLengthCubed(), 1e-9)
	})

	t.Run("Unicode按字符计长", func(t *testing.T) {
		f := Featurize("你好 世界")
		assert.Equal(t, 2, f.WordCount)
		assert.InDelta(t, 2.0, f.AvgWordLength, 1e-9)
	})

	t.Run("结尾无标点的文本仍算一句", func(t *testing.T) {
		f := Featurize("no punctuation here")
		assert.Equal(t, 1, f.SentenceCount)
		assert.Equal(t, 3, f.WordCount)
	})
}
