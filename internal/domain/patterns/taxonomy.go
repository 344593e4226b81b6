package patterns

import "regexp"

// Rule is one heading-intent classifier.
type Rule struct {
	Pattern string
	Label   string
	Matcher *regexp.Regexp
}

// Taxonomy is an ordered rule table; the first matching rule wins.
type Taxonomy []Rule

// Classify returns the first rule matching text.
func (t Taxonomy) Classify(text string) (Rule, bool) {
	for _, r := range t {
		if r.Matcher.MatchString(text) {
			return r, true
		}
	}
	return Rule{}, false
}

// HeadingTaxonomy is the default heading intent table.
var HeadingTaxonomy = Taxonomy{
	{Pattern: "とは", Label: "定義・説明", Matcher: regexp.MustCompile(`とは[？?]?$`)},
	{Pattern: "メリット", Label: "メリット紹介", Matcher: regexp.MustCompile(`メリット|利点|効果`)},
	{Pattern: "デメリット", Label: "デメリット紹介", Matcher: regexp.MustCompile(`デメリット|注意点|課題`)},
	{Pattern: "方法", Label: "方法・手順", Matcher: regexp.MustCompile(`方法|やり方|手順|ステップ`)},
	{Pattern: "ポイント", Label: "ポイント解説", Matcher: regexp.MustCompile(`ポイント|コツ|秘訣`)},
	{Pattern: "事例", Label: "事例紹介", Matcher: regexp.MustCompile(`事例|ケース|実例|成功例`)},
	{Pattern: "比較", Label: "比較・違い", Matcher: regexp.MustCompile(`比較|違い|差`)},
	{Pattern: "まとめ", Label: "まとめ", Matcher: regexp.MustCompile(`まとめ|総括|結論`)},
	{Pattern: "選び方", Label: "選び方", Matcher: regexp.MustCompile(`選び方|選ぶ|選定`)},
	{Pattern: "導入", Label: "導入・始め方", Matcher: regexp.MustCompile(`導入|始め方|はじめ方|スタート`)},
}

// Archetype is a whole-corpus structure classification.
type Archetype string

const (
	ArchetypeKnowledge  Archetype = "knowledge"
	ArchetypeHowTo      Archetype = "howto"
	ArchetypeComparison Archetype = "comparison"
	ArchetypeCaseStudy  Archetype = "casestudy"
)

type archetypeRule struct {
	archetype Archetype
	matcher   *regexp.Regexp
}

// archetypeRules are tested in order against the joined H2 text.
var archetypeRules = []archetypeRule{
	{ArchetypeCaseStudy, regexp.MustCompile(`事例|ケース|成功例`)},
	{ArchetypeComparison, regexp.MustCompile(`比較|違い|VS`)},
	{ArchetypeHowTo, regexp.MustCompile(`ステップ|手順|方法`)},
}

// StructureFlows are the canonical stage lists per archetype.
var StructureFlows = map[Archetype][]string{
	ArchetypeKnowledge:  {"導入・概要", "定義・説明", "重要性・背景", "メリット・効果", "実践方法", "事例・具体例", "まとめ"},
	ArchetypeHowTo:      {"導入", "準備・前提", "ステップ1", "ステップ2", "ステップ3", "注意点", "まとめ"},
	ArchetypeComparison: {"導入", "比較対象の概要", "比較ポイント", "詳細比較", "おすすめの選び方", "まとめ"},
	ArchetypeCaseStudy:  {"導入", "課題・背景", "解決策", "成果・効果", "成功のポイント", "まとめ"},
}

// ClassifyArchetype picks the archetype of a corpus from its H2 texts.
func ClassifyArchetype(h2Text string) Archetype {
	for _, r := range archetypeRules {
		if r.matcher.MatchString(h2Text) {
			return r.archetype
		}
	}
	return ArchetypeKnowledge
}

// stageTemplates map every flow stage to an H2; {topic} is substituted.
var stageTemplates = map[string]string{
	"導入・概要":    "{topic}とは",
	"導入":       "{topic}とは",
	"定義・説明":    "{topic}の基本と特徴",
	"重要性・背景":   "なぜ{topic}が重要なのか",
	"メリット・効果":  "{topic}のメリット",
	"実践方法":     "{topic}の実践方法",
	"事例・具体例":   "{topic}の成功事例",
	"準備・前提":    "{topic}を始める前の準備",
	"ステップ1":    "{topic}の手順1：全体設計",
	"ステップ2":    "{topic}の手順2：実行",
	"ステップ3":    "{topic}の手順3：検証と改善",
	"注意点":      "{topic}の注意点",
	"比較対象の概要":  "{topic}の主な選択肢",
	"比較ポイント":   "{topic}を比較するポイント",
	"詳細比較":     "{topic}の詳細比較",
	"おすすめの選び方": "{topic}のおすすめの選び方",
	"課題・背景":    "{topic}導入前の課題",
	"解決策":      "{topic}による解決策",
	"成果・効果":    "{topic}で得られた成果",
	"成功のポイント":  "{topic}成功のポイント",
	"まとめ":      "{topic}のまとめ",
}
