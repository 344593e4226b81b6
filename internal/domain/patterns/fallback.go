package patterns

// FallbackPattern is the representative pattern served when no qualifying
// articles are available.
func FallbackPattern() StructuralPattern {
	return StructuralPattern{
		H2: H2Structure{
			AvgCount: 5.2,
			MinCount: 4,
			MaxCount: 7,
			CommonPatterns: []PatternFrequency{
				{Pattern: "まとめ", Label: "まとめ", Frequency: 90, Examples: []string{"まとめ"}},
				{Pattern: "とは", Label: "定義・説明", Frequency: 85, Examples: []string{"パートナーマーケティングとは", "PRMツールとは"}},
				{Pattern: "メリット", Label: "メリット紹介", Frequency: 70, Examples: []string{"パートナーマーケティングのメリット", "導入のメリット"}},
				{Pattern: "方法", Label: "方法・手順", Frequency: 65, Examples: []string{"実践方法", "導入方法", "活用方法"}},
				{Pattern: "ポイント", Label: "ポイント解説", Frequency: 55, Examples: []string{"成功のポイント", "選び方のポイント"}},
			},
		},
		H3: H3Structure{
			AvgCountPerH2: 1.8,
			TotalAvgCount: 9.2,
			CommonPatterns: []PatternFrequency{
				{Pattern: "ポイント", Label: "ポイント解説", Frequency: 40, Examples: []string{"重要なポイント", "チェックポイント"}},
				{Pattern: "事例", Label: "事例紹介", Frequency: 35, Examples: []string{"具体的な事例", "成功事例"}},
				{Pattern: "方法", Label: "方法・手順", Frequency: 30, Examples: []string{"具体的な方法", "実践方法"}},
			},
		},
		Archetype:     ArchetypeKnowledge,
		StructureFlow: append([]string(nil), StructureFlows[ArchetypeKnowledge]...),
		SampleOutlines: []SampleOutline{
			{
				Slug:     "partner-marketing-guide",
				Title:    "パートナーマーケティング完全ガイド",
				SEOScore: 92,
				Outline: []Heading{
					{Level: LevelH2, Text: "パートナーマーケティングとは"},
					{Level: LevelH3, Text: "定義と基本概念"},
					{Level: LevelH3, Text: "従来のマーケティングとの違い"},
					{Level: LevelH2, Text: "パートナーマーケティングのメリット"},
					{Level: LevelH3, Text: "コスト効率の向上"},
					{Level: LevelH3, Text: "市場リーチの拡大"},
					{Level: LevelH2, Text: "実践方法"},
					{Level: LevelH2, Text: "成功事例"},
					{Level: LevelH2, Text: "まとめ"},
				},
			},
		},
		Fallback: true,
	}
}

// FallbackSuccessPattern is the aggregate served for an empty success set.
func FallbackSuccessPattern() SuccessPattern {
	return SuccessPattern{
		AvgH2Count:         5,
		AvgH3Count:         8,
		AvgCharCount:       3500,
		CommonH2Suffixes:   []string{"とは", "の方法", "のメリット", "のポイント", "まとめ"},
		AvgParagraphLength: 120,
		BulletPointRate:    25,
		AvgSentenceLength:  45,
		SampleArticles: []ArticleExcerpt{
			{
				Slug:     "partner-marketing-guide",
				Title:    "パートナーマーケティング完全ガイド",
				SEOScore: 92,
				Excerpt:  "パートナーマーケティングとは、企業間のパートナーシップを活用して相互に顧客を獲得し、ビジネスを成長させるマーケティング手法です。",
			},
			{
				Slug:     "prm-tools-comparison",
				Title:    "PRMツール比較：選び方と導入ポイント",
				SEOScore: 88,
				Excerpt:  "PRM（Partner Relationship Management）ツールは、パートナー企業との関係を効率的に管理するためのソフトウェアです。",
			},
			{
				Slug:     "channel-partner-strategy",
				Title:    "チャネルパートナー戦略の立て方",
				SEOScore: 78,
				Excerpt:  "チャネルパートナー戦略とは、販売代理店や再販業者などのパートナー企業を通じて製品やサービスを市場に届けるための戦略です。",
			},
		},
		Fallback: true,
	}
}
