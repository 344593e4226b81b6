package style

import "regexp"

// EndingRule classifies a sentence by its closing register marker.
type EndingRule struct {
	Pattern string
	Matcher *regexp.Regexp
}

// EndingTaxonomy is ordered; the first matching rule wins.
var EndingTaxonomy = []EndingRule{
	{Pattern: "です", Matcher: regexp.MustCompile(`です[。！？]?$`)},
	{Pattern: "ます", Matcher: regexp.MustCompile(`ます[。！？]?$`)},
	{Pattern: "でしょう", Matcher: regexp.MustCompile(`でしょう[。！？]?$`)},
	{Pattern: "ください", Matcher: regexp.MustCompile(`ください[。！？]?$`)},
	{Pattern: "しましょう", Matcher: regexp.MustCompile(`しましょう[。！？]?$`)},
	{Pattern: "だ", Matcher: regexp.MustCompile(`だ[。！？]?$`)},
	{Pattern: "である", Matcher: regexp.MustCompile(`である[。！？]?$`)},
}

// Vocabulary is the swappable domain word list used for phrase detection
// and technical-term density.
type Vocabulary struct {
	BusinessPhrases []string
	TechnicalTerms  []string
}

// DefaultVocabulary is tuned for partner-marketing content.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		BusinessPhrases: []string{
			"重要です", "ポイントは", "具体的には", "例えば", "そのため",
			"つまり", "一方で", "また", "さらに", "特に",
			"まず", "次に", "最後に", "結論として", "このように",
		},
		TechnicalTerms: []string{
			"PRM", "SaaS", "BtoB", "B2B", "ROI", "KPI", "MDF",
			"チャネルパートナー", "リセラー", "ディストリビューター", "アライアンス",
			"エコシステム", "パイプライン", "リードジェネレーション", "ファネル",
			"コンバージョン", "オンボーディング", "イネーブルメント",
		},
	}
}

// Merge replaces each default list that override sets.
func (v Vocabulary) Merge(override Vocabulary) Vocabulary {
	if len(override.BusinessPhrases) > 0 {
		v.BusinessPhrases = override.BusinessPhrases
	}
	if len(override.TechnicalTerms) > 0 {
		v.TechnicalTerms = override.TechnicalTerms
	}
	return v
}
