package style

// FallbackAnalysis is the representative report served when no qualifying
// articles are available.
func FallbackAnalysis() Analysis {
	return Analysis{
		AvgParagraphLength:       120,
		AvgSentenceLength:        45,
		AvgSentencesPerParagraph: 3.2,
		SentenceEndings: []EndingShare{
			{Pattern: "です", Percentage: 45},
			{Pattern: "ます", Percentage: 35},
			{Pattern: "でしょう", Percentage: 10},
			{Pattern: "ください", Percentage: 5},
		},
		BulletPointRate:   25,
		NumberedListRate:  15,
		BoldRate:          20,
		BlockquoteRate:    5,
		CommonPhrases:     []string{"重要です", "ポイントは", "具体的には", "例えば", "そのため"},
		TechnicalTermRate: 15,
		StyleSamples: []Sample{
			{
				Slug:            "partner-marketing-guide",
				Title:           "パートナーマーケティング完全ガイド",
				SEOScore:        92,
				ParagraphSample: "パートナーマーケティングとは、企業間のパートナーシップを活用して相互に顧客を獲得し、ビジネスを成長させるマーケティング手法です。従来の直販モデルとは異なり、パートナー企業のリソースや顧客基盤を活用することで、より効率的な市場拡大が可能になります。",
			},
			{
				Slug:            "prm-tools-comparison",
				Title:           "PRMツール比較：選び方と導入ポイント",
				SEOScore:        88,
				ParagraphSample: "PRM（Partner Relationship Management）ツールは、パートナー企業との関係を効率的に管理するためのソフトウェアです。リード登録、案件管理、パートナーポータル、研修管理など、パートナービジネスに必要な機能が統合されています。",
			},
		},
		Fallback: true,
	}
}
